package api

import (
	"encoding/json"
	"net/http"

	"github.com/daovote/fhevote/log"
)

// castVote encrypts and submits a ballot, waits for finality and records the
// receipt locally. The response carries the stored receipt.
// POST /votes
func (a *API) castVote(w http.ResponseWriter, r *http.Request) {
	req := CastVoteRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	receipt, err := a.client.CastVote(r.Context(), req.ProposalID, req.OptionIndex)
	if err != nil {
		ErrVoteRejected.WithErr(err).Write(w)
		return
	}
	if err := a.receipts.Put(receipt); err != nil {
		// The vote is committed on-chain; losing the local record is
		// worth a warning but not a failed response.
		log.Warnw("failed to store vote receipt",
			"proposalID", receipt.ProposalID, "tx", receipt.TxHash.Hex(), "error", err.Error())
	}
	httpWriteJSON(w, receipt)
}

// voteReceipts returns the locally stored receipts for one proposal.
// GET /votes/{proposalId}
func (a *API) voteReceipts(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamUint64(r, ProposalURLParam)
	if err != nil {
		ErrMalformedProposalID.WithErr(err).Write(w)
		return
	}
	receipts, err := a.receipts.ListByProposal(id)
	if err != nil {
		ErrReceiptStoreFailed.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, VoteReceiptsResponse{Receipts: receipts})
}
