package api

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
)

// profile resolves the ledger's view of one address.
// GET /profile/{address}
func (a *API) profile(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, AddressURLParam)
	if !common.IsHexAddress(raw) {
		ErrMalformedAddress.Withf("%q", raw).Write(w)
		return
	}
	profile, err := a.client.ResolveProfile(r.Context(), common.HexToAddress(raw))
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	if profile == nil {
		ErrNoActiveSession.Write(w)
		return
	}
	httpWriteJSON(w, profile)
}

// authorizeVoters grants voting rights to a batch of addresses with a single
// transaction.
// POST /voters
func (a *API) authorizeVoters(w http.ResponseWriter, r *http.Request) {
	req := AuthorizeVotersRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if len(req.Voters) == 0 {
		ErrEmptyVoterList.Write(w)
		return
	}
	voters := make([]common.Address, 0, len(req.Voters))
	for _, raw := range req.Voters {
		if !common.IsHexAddress(raw) {
			ErrMalformedAddress.Withf("%q", raw).Write(w)
			return
		}
		voters = append(voters, common.HexToAddress(raw))
	}
	txHash, err := a.client.AuthorizeVoters(r.Context(), voters)
	if err != nil {
		ErrTransactionRejected.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, TransactionResponse{TxHash: txHash.Hex()})
}
