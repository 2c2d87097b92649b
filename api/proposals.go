package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// activeProposals returns the proposals currently open for voting.
// GET /proposals
func (a *API) activeProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := a.client.ActiveProposals(r.Context())
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, ProposalListResponse{Proposals: proposals})
}

// proposal returns one proposal snapshot.
// GET /proposals/{proposalId}
func (a *API) proposal(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamUint64(r, ProposalURLParam)
	if err != nil {
		ErrMalformedProposalID.WithErr(err).Write(w)
		return
	}
	proposal, err := a.client.Proposal(r.Context(), id)
	if err != nil {
		ErrProposalNotFound.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, proposal)
}

// createProposal creates a new proposal and waits for finality.
// POST /proposals
func (a *API) createProposal(w http.ResponseWriter, r *http.Request) {
	req := CreateProposalRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	txHash, err := a.client.CreateProposal(r.Context(),
		req.Title, req.Description, req.Options,
		time.Duration(req.DurationSeconds)*time.Second,
	)
	if err != nil {
		ErrInvalidProposal.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, TransactionResponse{TxHash: txHash.Hex()})
}
