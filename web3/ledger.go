package web3

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/daovote/fhevote/types"
)

// TxState is the observed state of a submitted transaction.
type TxState int

const (
	// TxPending means the transaction has not been mined yet.
	TxPending TxState = iota
	// TxCommitted means the transaction was mined with a success status.
	TxCommitted
	// TxReverted means the transaction was mined but the contract reverted.
	TxReverted
)

// Ledger is the remote voting contract surface consumed by this client. The
// contract's internal logic (proposal storage, access control, homomorphic
// tally, threshold decryption) lives on-chain; this interface only mirrors
// its externally callable functions. boundLedger implements it over a real
// RPC endpoint, tests implement it in memory.
type Ledger interface {
	// Account returns the address whose key signs write operations.
	Account() common.Address

	// ProposalCount returns the total number of proposals ever created.
	ProposalCount(ctx context.Context) (uint64, error)
	// Proposal returns the proposal with the given id.
	Proposal(ctx context.Context, id uint64) (*types.Proposal, error)
	// ActiveProposals returns the proposals currently open for voting.
	ActiveProposals(ctx context.Context) ([]*types.Proposal, error)
	// HasVoted reports whether voter already voted on the given proposal.
	HasVoted(ctx context.Context, id uint64, voter common.Address) (bool, error)
	// IsAuthorizedVoter reports whether addr may cast votes.
	IsAuthorizedVoter(ctx context.Context, addr common.Address) (bool, error)
	// IsAdmin reports whether addr administers the DAO.
	IsAdmin(ctx context.Context, addr common.Address) (bool, error)

	// SubmitVote sends the encrypted ballot for one proposal option. The
	// option index travels in cleartext; only the choice flag is encrypted.
	SubmitVote(ctx context.Context, id uint64, optionIndex uint32, encryptedChoice, proof types.HexBytes) (common.Hash, error)
	// SubmitProposal creates a new proposal open for the given duration.
	SubmitProposal(ctx context.Context, title, description string, options []string, duration time.Duration) (common.Hash, error)
	// RevealResults asks the contract to start threshold decryption of the
	// tally for the given proposal.
	RevealResults(ctx context.Context, id uint64) (common.Hash, error)
	// AuthorizeVoters grants voting rights to all addresses in one
	// transaction.
	AuthorizeVoters(ctx context.Context, voters []common.Address) (common.Hash, error)

	// TxStatus returns the current state of a submitted transaction.
	TxStatus(ctx context.Context, tx common.Hash) (TxState, error)
}
