//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400 or 404, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after
// the current last 4XXX or 5XXX.
var (
	ErrResourceNotFound     = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody        = Error{Code: 40002, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrMalformedProposalID  = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed proposal ID")}
	ErrProposalNotFound     = Error{Code: 40004, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("proposal not found")}
	ErrMalformedAddress     = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed address")}
	ErrInvalidOptionIndex   = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid option index")}
	ErrInvalidProposal      = Error{Code: 40007, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid proposal parameters")}
	ErrEmptyVoterList       = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("empty voter list")}
	ErrNoActiveSession      = Error{Code: 40009, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("no active session for address")}
	ErrVoteRejected         = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("vote rejected by the ledger")}
	ErrTransactionRejected  = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("transaction rejected by the ledger")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrReceiptStoreFailed         = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("failed to access the receipt store")}
)
