package web3

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/daovote/fhevote/log"
	"github.com/daovote/fhevote/types"
)

// ResolveProfile aggregates the ledger's view of one address: authorization
// and admin flags plus the set of proposals it already voted on. The scan is
// O(proposal count) and recomputed on every call; there is no incremental
// tracking. A failed vote-check for a single proposal is treated as "not
// voted" and does not abort the resolution. A zero address yields a nil
// profile rather than an error, matching the no-active-session case.
func (c *Client) ResolveProfile(ctx context.Context, addr common.Address) (*types.UserProfile, error) {
	if addr == (common.Address{}) {
		return nil, nil
	}

	isAuthorized, err := c.ledger.IsAuthorizedVoter(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("resolve profile of %s: %w", addr.Hex(), err)
	}
	isAdmin, err := c.ledger.IsAdmin(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("resolve profile of %s: %w", addr.Hex(), err)
	}
	count, err := c.ledger.ProposalCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve profile of %s: %w", addr.Hex(), err)
	}

	voted := make(map[uint64]bool, count)
	for id := uint64(0); id < count; id++ {
		hasVoted, err := c.ledger.HasVoted(ctx, id, addr)
		if err != nil {
			// Tolerate partial failures: one broken proposal must not
			// take the whole profile down with it.
			log.Debugw("vote check failed, assuming not voted",
				"proposalID", id, "address", addr.Hex(), "error", err.Error())
			continue
		}
		if hasVoted {
			voted[id] = true
		}
	}

	return &types.UserProfile{
		Address:        addr,
		IsAuthorized:   isAuthorized,
		IsAdmin:        isAdmin,
		VotedProposals: voted,
	}, nil
}
