package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/daovote/fhevote/log"
)

// Error is the API error type. It satisfies the error interface and knows
// how to write itself as a JSON response with the appropriate HTTP status.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

// MarshalJSON returns a JSON containing Err.Error() and Code. Field HTTPstatus
// is ignored.
func (e Error) MarshalJSON() ([]byte, error) {
	type jsonError struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	return json.Marshal(jsonError{
		Error: e.Err.Error(),
		Code:  e.Code,
	})
}

// Error returns the Message contained inside the APIerror
func (e Error) Error() string {
	return e.Err.Error()
}

// Write serializes a JSON msg using APIerror.Message and APIerror.Code
// and passes that to ctx.Send()
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warnw("marshal error failed", "error", err.Error())
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPstatus)
	if _, err := w.Write(msg); err != nil {
		log.Warnw("failed to write error response", "error", err.Error())
	}
}

// Withf returns a copy of APIerror with the Sprintf formatted string appended
// at the end of e.Err
func (e Error) Withf(format string, args ...any) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, fmt.Sprintf(format, args...)),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// With returns a copy of APIerror with the string appended at the end of e.Err
func (e Error) With(s string) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, s),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// WithErr returns a copy of APIerror with err.Error() appended at the end of e.Err
func (e Error) WithErr(err error) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, err.Error()),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}
