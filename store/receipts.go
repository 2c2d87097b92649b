// Package store persists local vote receipts so the gateway can answer
// "what did this node submit and when" without re-scanning the chain.
//
// The storage uses a key-value database with prefixed namespaces:
//   - r/ : proposalID (big-endian uint64) + receiptID → VoteReceipt (CBOR)
package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/fxamacker/cbor/v2"

	"github.com/daovote/fhevote/types"
)

// ErrReceiptNotFound is returned when no receipt exists under the given key.
var ErrReceiptNotFound = errors.New("receipt not found")

var receiptPrefix = []byte("r/")

// Receipts is a pebble-backed store of submitted vote receipts.
type Receipts struct {
	db *pebble.DB
}

// Open opens (or creates) the receipt store at the given directory.
func Open(dir string) (*Receipts, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open receipt store: %w", err)
	}
	return &Receipts{db: db}, nil
}

// Close releases the underlying database.
func (s *Receipts) Close() error {
	return s.db.Close()
}

// Put stores a receipt. The receipt must already carry its id.
func (s *Receipts) Put(r *types.VoteReceipt) error {
	if r.ID == "" {
		return fmt.Errorf("receipt without id")
	}
	data, err := cbor.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode receipt %s: %w", r.ID, err)
	}
	if err := s.db.Set(receiptKey(r.ProposalID, r.ID), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to store receipt %s: %w", r.ID, err)
	}
	return nil
}

// Get returns the receipt with the given proposal id and receipt id.
func (s *Receipts) Get(proposalID uint64, id string) (*types.VoteReceipt, error) {
	data, closer, err := s.db.Get(receiptKey(proposalID, id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to read receipt %s: %w", id, err)
	}
	defer func() { _ = closer.Close() }()
	r := &types.VoteReceipt{}
	if err := cbor.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("failed to decode receipt %s: %w", id, err)
	}
	return r, nil
}

// ListByProposal returns all stored receipts for one proposal.
func (s *Receipts) ListByProposal(proposalID uint64) ([]*types.VoteReceipt, error) {
	prefix := proposalPrefix(proposalID)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}
	defer func() { _ = iter.Close() }()

	var receipts []*types.VoteReceipt
	for iter.First(); iter.Valid(); iter.Next() {
		r := &types.VoteReceipt{}
		if err := cbor.Unmarshal(iter.Value(), r); err != nil {
			return nil, fmt.Errorf("failed to decode receipt %q: %w", iter.Key(), err)
		}
		receipts = append(receipts, r)
	}
	return receipts, nil
}

func proposalPrefix(proposalID uint64) []byte {
	key := make([]byte, 0, len(receiptPrefix)+8)
	key = append(key, receiptPrefix...)
	key = binary.BigEndian.AppendUint64(key, proposalID)
	return key
}

func receiptKey(proposalID uint64, id string) []byte {
	return append(proposalPrefix(proposalID), []byte(id)...)
}

// upperBound returns the smallest key strictly greater than every key with
// the given prefix.
func upperBound(prefix []byte) []byte {
	out := make([]byte, len(prefix))
	copy(out, prefix)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] < 0xff {
			out[i]++
			return out[:i+1]
		}
	}
	return nil
}
