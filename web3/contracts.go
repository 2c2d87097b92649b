// Package web3 implements the client side of the encrypted voting contract:
// casting encrypted ballots, reading proposal snapshots, resolving voter
// profiles and the admin operations. The contract itself is a remote
// collaborator reached through the Ledger interface.
package web3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/daovote/fhevote/fhe"
	"github.com/daovote/fhevote/log"
	"github.com/daovote/fhevote/types"
)

const (
	// queryTimeout is the timeout for single ledger read queries.
	queryTimeout = 10 * time.Second

	// txPollInterval is how often WaitTx re-checks a pending transaction.
	txPollInterval = 1 * time.Second

	// proposalCacheSize bounds the proposal snapshot cache.
	proposalCacheSize = 256

	// proposalCacheTTL is how long a proposal snapshot may be served from
	// cache before it is re-read from the ledger.
	proposalCacheTTL = 10 * time.Second
)

// ErrTxReverted is returned when a transaction reached finality but the
// contract reverted it.
var ErrTxReverted = errors.New("transaction reverted")

// Client composes the ballot encoder, the encryption adapter and the ledger
// binding into the operations the application needs. It is constructed once
// at session start and passed by reference; there is no hidden module state.
type Client struct {
	ChainID uint64

	ledger    Ledger
	encryptor *fhe.Adapter
	proposals *expirable.LRU[uint64, *types.Proposal]
}

// NewClient creates a voting client over the given ledger and encryption
// adapter.
func NewClient(chainID uint64, ledger Ledger, encryptor *fhe.Adapter) *Client {
	return &Client{
		ChainID:   chainID,
		ledger:    ledger,
		encryptor: encryptor,
		proposals: expirable.NewLRU[uint64, *types.Proposal](proposalCacheSize, nil, proposalCacheTTL),
	}
}

// Account returns the address used to sign write operations.
func (c *Client) Account() common.Address {
	return c.ledger.Account()
}

// Encryptor returns the encryption adapter owned by this client.
func (c *Client) Encryptor() *fhe.Adapter {
	return c.encryptor
}

// WaitTx waits for a transaction to reach finality. It returns nil when the
// transaction committed, ErrTxReverted when the contract reverted it, and
// the context error when ctx expires first.
func (c *Client) WaitTx(ctx context.Context, tx common.Hash) error {
	ticker := time.NewTicker(txPollInterval)
	defer ticker.Stop()
	for {
		state, err := c.ledger.TxStatus(ctx, tx)
		if err != nil {
			return fmt.Errorf("tx %s status: %w", tx.Hex(), err)
		}
		switch state {
		case TxCommitted:
			return nil
		case TxReverted:
			return fmt.Errorf("tx %s: %w", tx.Hex(), ErrTxReverted)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for tx %s: %w", tx.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// CheckTxStatus checks the status of a transaction given its hash. Returns
// true if the transaction was mined successfully, false otherwise.
func (c *Client) CheckTxStatus(ctx context.Context, tx common.Hash) (bool, error) {
	state, err := c.ledger.TxStatus(ctx, tx)
	if err != nil {
		return false, err
	}
	return state == TxCommitted, nil
}

// invalidateProposal drops a cached proposal snapshot after a local write
// that changes it.
func (c *Client) invalidateProposal(id uint64) {
	if c.proposals.Remove(id) {
		log.Debugw("proposal snapshot invalidated", "proposalID", id)
	}
}
