package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Proposal bounds enforced by the voting contract. They are mirrored here so
// the client can validate before spending gas on a doomed transaction.
const (
	MinProposalOptions = 2
	MaxProposalOptions = 10
)

// CiphertextSize is the fixed length in bytes of both the encrypted choice
// and its accompanying proof, as expected by the voting contract.
const CiphertextSize = 32

// Ciphertext is the encrypted representation of a ballot choice plus its
// validity proof. Both fields are opaque to the client; only their length is
// checked before transmission. A Ciphertext is produced fresh for every
// ballot and must never be reused across proposals.
type Ciphertext struct {
	Data  HexBytes `json:"data"`
	Proof HexBytes `json:"proof"`
}

// Ballot is a single voter's choice for one proposal, prior to encryption.
// ChoiceValue is the plaintext payload handed to the encryption backend;
// OptionIndex selects which of the proposal's options the ballot targets and
// travels to the contract in cleartext alongside the ciphertext.
type Ballot struct {
	ProposalID  uint64 `json:"proposalId"`
	OptionIndex uint32 `json:"optionIndex"`
	ChoiceValue uint32 `json:"choiceValue"`
}

// Proposal is a read snapshot of a vote-able item owned by the remote
// contract. The client never mutates it directly.
type Proposal struct {
	ID              uint64         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Options         []string       `json:"options"`
	StartTime       time.Time      `json:"startTime"`
	EndTime         time.Time      `json:"endTime"`
	TotalVotes      uint64         `json:"totalVotes"`
	Creator         common.Address `json:"creator"`
	Active          bool           `json:"active"`
	ResultsRevealed bool           `json:"resultsRevealed"`
	RevealedResults []uint64       `json:"revealedResults,omitempty"`
}

// AcceptsVotes reports whether the proposal is open for voting at time t.
func (p *Proposal) AcceptsVotes(t time.Time) bool {
	return p.Active && !t.Before(p.StartTime) && t.Before(p.EndTime)
}

// UserProfile aggregates the remote contract's view of one address: whether
// it may vote, whether it administers the DAO, and which proposals it has
// already voted on. It is recomputed on demand, never tracked incrementally.
type UserProfile struct {
	Address        common.Address  `json:"address"`
	IsAuthorized   bool            `json:"isAuthorized"`
	IsAdmin        bool            `json:"isAdmin"`
	VotedProposals map[uint64]bool `json:"votedProposals"`
}

// HasVoted reports whether the profile records a vote on the given proposal.
func (u *UserProfile) HasVoted(proposalID uint64) bool {
	return u.VotedProposals[proposalID]
}

// VoteReceipt is the local record of a submitted vote: which proposal and
// option, the transaction that carried it and whether the ledger confirmed
// it. Receipts are kept in the local store so the gateway can answer vote
// status queries without re-scanning the chain.
type VoteReceipt struct {
	ID          string         `json:"id" cbor:"1,keyasint"`
	ProposalID  uint64         `json:"proposalId" cbor:"2,keyasint"`
	OptionIndex uint32         `json:"optionIndex" cbor:"3,keyasint"`
	Voter       common.Address `json:"voter" cbor:"4,keyasint"`
	TxHash      common.Hash    `json:"txHash" cbor:"5,keyasint"`
	Committed   bool           `json:"committed" cbor:"6,keyasint"`
	Timestamp   time.Time      `json:"timestamp" cbor:"7,keyasint"`
}
