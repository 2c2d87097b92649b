package web3

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/daovote/fhevote/log"
	"github.com/daovote/fhevote/types"
)

// ProposalCount returns the total number of proposals ever created.
func (c *Client) ProposalCount(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return c.ledger.ProposalCount(ctx)
}

// Proposal returns a read snapshot of the proposal with the given id.
// Snapshots are served from a short-lived cache; writes through this client
// invalidate the affected entry.
func (c *Client) Proposal(ctx context.Context, id uint64) (*types.Proposal, error) {
	if p, ok := c.proposals.Get(id); ok {
		return p, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	p, err := c.ledger.Proposal(ctx, id)
	if err != nil {
		return nil, err
	}
	c.proposals.Add(id, p)
	return p, nil
}

// ActiveProposals returns the proposals currently open for voting. The
// result is not cached: the active set changes as time windows close.
func (c *Client) ActiveProposals(ctx context.Context) ([]*types.Proposal, error) {
	return c.ledger.ActiveProposals(ctx)
}

// CreateProposal creates a new proposal with the given options, open for
// voting for the given duration, and waits for finality.
func (c *Client) CreateProposal(ctx context.Context, title, description string, options []string, duration time.Duration) (common.Hash, error) {
	if len(options) < types.MinProposalOptions || len(options) > types.MaxProposalOptions {
		return common.Hash{}, fmt.Errorf("create proposal: %d options, want between %d and %d",
			len(options), types.MinProposalOptions, types.MaxProposalOptions)
	}
	if duration <= 0 {
		return common.Hash{}, fmt.Errorf("create proposal: non-positive duration %s", duration)
	}
	txHash, err := c.ledger.SubmitProposal(ctx, title, description, options, duration)
	if err != nil {
		return common.Hash{}, fmt.Errorf("create proposal: %w", err)
	}
	if err := c.WaitTx(ctx, txHash); err != nil {
		return common.Hash{}, fmt.Errorf("create proposal: %w", err)
	}
	log.Infow("proposal created", "title", title, "options", len(options), "tx", txHash.Hex())
	return txHash, nil
}

// RevealResults asks the contract to start threshold decryption of the tally
// for the given proposal and waits for finality. The decrypted results
// appear in the proposal snapshot once the oracle answers on-chain.
func (c *Client) RevealResults(ctx context.Context, id uint64) (common.Hash, error) {
	txHash, err := c.ledger.RevealResults(ctx, id)
	if err != nil {
		return common.Hash{}, fmt.Errorf("reveal results of proposal %d: %w", id, err)
	}
	if err := c.WaitTx(ctx, txHash); err != nil {
		return common.Hash{}, fmt.Errorf("reveal results of proposal %d: %w", id, err)
	}
	c.invalidateProposal(id)
	log.Infow("results reveal requested", "proposalID", id, "tx", txHash.Hex())
	return txHash, nil
}

// AuthorizeVoter grants voting rights to a single address.
func (c *Client) AuthorizeVoter(ctx context.Context, voter common.Address) (common.Hash, error) {
	return c.AuthorizeVoters(ctx, []common.Address{voter})
}

// AuthorizeVoters grants voting rights to all addresses in a single batched
// transaction and waits for finality.
func (c *Client) AuthorizeVoters(ctx context.Context, voters []common.Address) (common.Hash, error) {
	if len(voters) == 0 {
		return common.Hash{}, fmt.Errorf("authorize voters: empty address list")
	}
	txHash, err := c.ledger.AuthorizeVoters(ctx, voters)
	if err != nil {
		return common.Hash{}, fmt.Errorf("authorize %d voters: %w", len(voters), err)
	}
	if err := c.WaitTx(ctx, txHash); err != nil {
		return common.Hash{}, fmt.Errorf("authorize %d voters: %w", len(voters), err)
	}
	log.Infow("voters authorized", "count", len(voters), "tx", txHash.Hex())
	return txHash, nil
}
