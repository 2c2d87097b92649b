package api

import "net/http"

// info describes the gateway: network, chain id, signer account and the
// current encryption mode.
// GET /info
func (a *API) info(w http.ResponseWriter, _ *http.Request) {
	httpWriteJSON(w, InfoResponse{
		Network:    a.network,
		ChainID:    a.client.ChainID,
		Account:    a.client.Account().Hex(),
		Encryption: a.client.Encryptor().Status().String(),
	})
}
