package web3

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/daovote/fhevote/fhe"
	"github.com/daovote/fhevote/log"
	"github.com/daovote/fhevote/types"
)

// CastVote encrypts and submits a ballot for one proposal option, then waits
// for finality. The ciphertext always carries the affirmative choice value;
// the selected option travels to the contract as the cleartext optionIndex
// parameter, so the option itself is not confidential towards the ledger.
//
// Encryption strictly precedes submission; there is no overlap between the
// two. A failed submission is returned as-is with its cause attached and is
// never retried here: retry policy, as well as at-most-one-in-flight
// debouncing across concurrent calls, is the caller's responsibility.
func (c *Client) CastVote(ctx context.Context, proposalID uint64, optionIndex uint32) (*types.VoteReceipt, error) {
	proposal, err := c.Proposal(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("cast vote on proposal %d: %w", proposalID, err)
	}
	if int(optionIndex) >= len(proposal.Options) {
		return nil, fmt.Errorf("cast vote on proposal %d: option index %d out of range (have %d options)",
			proposalID, optionIndex, len(proposal.Options))
	}

	payload, err := fhe.EncodeChoice(fhe.ChoiceFor)
	if err != nil {
		return nil, fmt.Errorf("cast vote on proposal %d: %w", proposalID, err)
	}
	ciphertext, err := c.encryptor.Encrypt(payload)
	if err != nil {
		return nil, fmt.Errorf("cast vote on proposal %d: %w", proposalID, err)
	}

	txHash, err := c.ledger.SubmitVote(ctx, proposalID, optionIndex, ciphertext.Data, ciphertext.Proof)
	if err != nil {
		return nil, fmt.Errorf("cast vote on proposal %d: %w", proposalID, err)
	}
	log.Infow("vote submitted",
		"proposalID", proposalID,
		"optionIndex", optionIndex,
		"tx", txHash.Hex(),
		"encryption", c.encryptor.Status().String(),
	)

	if err := c.WaitTx(ctx, txHash); err != nil {
		return nil, fmt.Errorf("cast vote on proposal %d: %w", proposalID, err)
	}
	c.invalidateProposal(proposalID)

	return &types.VoteReceipt{
		ID:          uuid.NewString(),
		ProposalID:  proposalID,
		OptionIndex: optionIndex,
		Voter:       c.ledger.Account(),
		TxHash:      txHash,
		Committed:   true,
		Timestamp:   time.Now().UTC(),
	}, nil
}
