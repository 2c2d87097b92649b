// Package fhe owns the client side of ballot encryption: encoding a voter's
// choice into the plaintext payload the backend expects, and encrypting it
// through an external FHE backend handle. When no working backend is
// available the adapter degrades to a deterministic simulated encryptor that
// produces ciphertext-shaped bytes with no confidentiality whatsoever.
package fhe

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidChoice is returned when a ballot choice falls outside the domain
// accepted by the encryption backend.
var ErrInvalidChoice = errors.New("invalid ballot choice")

// Choice values accepted by the voting contract's 32-bit encrypted input.
// The ciphertext carries an affirmative flag, not an option index.
const (
	ChoiceAgainst uint32 = 0
	ChoiceFor     uint32 = 1
)

// EncodeChoice validates a ballot choice and returns the plaintext payload to
// encrypt. The accepted domain is {0,1}; anything else fails with
// ErrInvalidChoice. No side effects.
func EncodeChoice(choice uint32) (uint32, error) {
	switch choice {
	case ChoiceAgainst, ChoiceFor:
		return choice, nil
	default:
		return 0, ErrInvalidChoice
	}
}

// Backend is the narrow capability of a live FHE backend handle: encrypt a
// 32-bit value into a ciphertext and an input proof. The real backend and
// test doubles are interchangeable through this interface.
type Backend interface {
	Encrypt32(value uint32) (data, proof []byte, err error)
}

// BackendFactory constructs a Backend handle bound to a network identity.
// publicKey is the FHE public encryption key fetched from the gateway (or
// the well-known fallback), gatewayURL the coprocessor gateway endpoint and
// aclContract the on-chain access-control list the coprocessor enforces.
type BackendFactory func(ctx context.Context, chainID uint64, publicKey []byte, gatewayURL string, aclContract common.Address) (Backend, error)

// Status is the adapter lifecycle state. There is no transition back to
// StatusReady from StatusDegraded without a full re-initialization.
type Status int

const (
	// StatusUninitialized means Initialize has not been called yet.
	StatusUninitialized Status = iota
	// StatusReady means the real encryption backend handle is live.
	StatusReady
	// StatusDegraded means only the simulated encryptor is available.
	StatusDegraded
)

// String returns the human-readable name of the status.
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusReady:
		return "ready"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}
