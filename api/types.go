package api

import "github.com/daovote/fhevote/types"

// CreateProposalRequest is the POST /proposals body.
type CreateProposalRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Options         []string `json:"options"`
	DurationSeconds uint64   `json:"durationSeconds"`
}

// CastVoteRequest is the POST /votes body.
type CastVoteRequest struct {
	ProposalID  uint64 `json:"proposalId"`
	OptionIndex uint32 `json:"optionIndex"`
}

// AuthorizeVotersRequest is the POST /voters body.
type AuthorizeVotersRequest struct {
	Voters []string `json:"voters"`
}

// TransactionResponse reports a committed transaction hash.
type TransactionResponse struct {
	TxHash string `json:"txHash"`
}

// ProposalListResponse wraps the active proposal list.
type ProposalListResponse struct {
	Proposals []*types.Proposal `json:"proposals"`
}

// VoteReceiptsResponse wraps the local receipts of one proposal.
type VoteReceiptsResponse struct {
	Receipts []*types.VoteReceipt `json:"receipts"`
}

// InfoResponse describes the gateway: the network it talks to and the state
// of the encryption adapter. Encryption is "ready" when the real FHE backend
// is live and "degraded" when only the simulated encryptor is available.
type InfoResponse struct {
	Network    string `json:"network"`
	ChainID    uint64 `json:"chainId"`
	Account    string `json:"account"`
	Encryption string `json:"encryption"`
}
