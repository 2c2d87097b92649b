package web3

import (
	"context"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/ethereum/go-ethereum/common"

	"github.com/daovote/fhevote/fhe"
	"github.com/daovote/fhevote/types"
)

const testChainID = uint64(8009)

type submittedVote struct {
	proposalID      uint64
	optionIndex     uint32
	encryptedChoice types.HexBytes
	proof           types.HexBytes
}

// mockLedger implements Ledger in memory with per-method failure injection
// and call-order recording.
type mockLedger struct {
	account   common.Address
	proposals map[uint64]*types.Proposal

	calls []string

	submitVoteErr error
	submitted     []submittedVote

	txStates map[common.Hash]TxState

	authorized  bool
	admin       bool
	voted       map[uint64]bool
	hasVotedErr map[uint64]error

	authorizeCalls [][]common.Address
}

var _ Ledger = (*mockLedger)(nil)

func newMockLedger() *mockLedger {
	return &mockLedger{
		account:   common.HexToAddress("0x00000000000000000000000000000000000000A1"),
		proposals: make(map[uint64]*types.Proposal),
		txStates:  make(map[common.Hash]TxState),
		voted:     make(map[uint64]bool),
	}
}

func (m *mockLedger) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *mockLedger) Account() common.Address { return m.account }

func (m *mockLedger) ProposalCount(context.Context) (uint64, error) {
	m.record("proposalCount")
	var max uint64
	for id := range m.proposals {
		if id+1 > max {
			max = id + 1
		}
	}
	return max, nil
}

func (m *mockLedger) Proposal(_ context.Context, id uint64) (*types.Proposal, error) {
	m.record("getProposal")
	p, ok := m.proposals[id]
	if !ok {
		return nil, fmt.Errorf("unknown proposal %d", id)
	}
	return p, nil
}

func (m *mockLedger) ActiveProposals(context.Context) ([]*types.Proposal, error) {
	m.record("getActiveProposals")
	var active []*types.Proposal
	for _, p := range m.proposals {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

func (m *mockLedger) HasVoted(_ context.Context, id uint64, _ common.Address) (bool, error) {
	m.record("hasVoted")
	if err := m.hasVotedErr[id]; err != nil {
		return false, err
	}
	return m.voted[id], nil
}

func (m *mockLedger) IsAuthorizedVoter(context.Context, common.Address) (bool, error) {
	m.record("isAuthorizedVoter")
	return m.authorized, nil
}

func (m *mockLedger) IsAdmin(context.Context, common.Address) (bool, error) {
	m.record("isAdmin")
	return m.admin, nil
}

func (m *mockLedger) SubmitVote(_ context.Context, id uint64, optionIndex uint32, encryptedChoice, proof types.HexBytes) (common.Hash, error) {
	m.record("castVote")
	if m.submitVoteErr != nil {
		return common.Hash{}, m.submitVoteErr
	}
	m.submitted = append(m.submitted, submittedVote{
		proposalID:      id,
		optionIndex:     optionIndex,
		encryptedChoice: encryptedChoice,
		proof:           proof,
	})
	return common.HexToHash(fmt.Sprintf("0x%064x", len(m.submitted))), nil
}

func (m *mockLedger) SubmitProposal(_ context.Context, title, _ string, _ []string, _ time.Duration) (common.Hash, error) {
	m.record("createProposal")
	return common.HexToHash("0x01"), nil
}

func (m *mockLedger) RevealResults(_ context.Context, id uint64) (common.Hash, error) {
	m.record("revealResults")
	return common.HexToHash("0x02"), nil
}

func (m *mockLedger) AuthorizeVoters(_ context.Context, voters []common.Address) (common.Hash, error) {
	m.record("authorizeVoters")
	m.authorizeCalls = append(m.authorizeCalls, voters)
	return common.HexToHash("0x03"), nil
}

func (m *mockLedger) TxStatus(_ context.Context, tx common.Hash) (TxState, error) {
	if state, ok := m.txStates[tx]; ok {
		return state, nil
	}
	return TxCommitted, nil
}

func testProposal(id uint64, options int) *types.Proposal {
	opts := make([]string, options)
	for i := range opts {
		opts[i] = fmt.Sprintf("option-%d", i)
	}
	return &types.Proposal{
		ID:        id,
		Title:     fmt.Sprintf("proposal %d", id),
		Options:   opts,
		StartTime: time.Now().Add(-time.Hour),
		EndTime:   time.Now().Add(time.Hour),
		Active:    true,
	}
}

func degradedAdapter() *fhe.Adapter {
	// No factory: the adapter degrades and every ballot goes through the
	// simulated encryptor.
	a := fhe.NewAdapter(fhe.Config{ChainID: testChainID})
	a.Initialize(context.Background(), testChainID)
	return a
}

func TestCastVoteCommitted(t *testing.T) {
	c := qt.New(t)
	ledger := newMockLedger()
	ledger.proposals[3] = testProposal(3, 2)
	client := NewClient(testChainID, ledger, degradedAdapter())

	receipt, err := client.CastVote(context.Background(), 3, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(receipt.Committed, qt.IsTrue)
	c.Assert(receipt.ProposalID, qt.Equals, uint64(3))
	c.Assert(receipt.OptionIndex, qt.Equals, uint32(1))
	c.Assert(receipt.Voter, qt.Equals, ledger.account)
	c.Assert(receipt.ID, qt.Not(qt.Equals), "")

	c.Assert(ledger.submitted, qt.HasLen, 1)
	vote := ledger.submitted[0]
	c.Assert(vote.encryptedChoice, qt.HasLen, types.CiphertextSize)
	c.Assert(vote.proof, qt.HasLen, types.CiphertextSize)
	// Hex wire format: 0x marker plus 64 nibbles.
	c.Assert(vote.encryptedChoice.String(), qt.HasLen, 66)
	c.Assert(vote.proof.String(), qt.HasLen, 66)
}

func TestCastVoteSequencing(t *testing.T) {
	c := qt.New(t)
	ledger := newMockLedger()
	ledger.proposals[0] = testProposal(0, 3)

	// A ready adapter whose backend records into the same call log as the
	// ledger, so the encrypt/submit order is observable.
	backend := &recordingBackend{ledger: ledger}
	adapter := fhe.NewAdapter(fhe.Config{
		ChainID: testChainID,
		Factory: func(context.Context, uint64, []byte, string, common.Address) (fhe.Backend, error) {
			return backend, nil
		},
	})
	adapter.Initialize(context.Background(), testChainID)
	client := NewClient(testChainID, ledger, adapter)

	_, err := client.CastVote(context.Background(), 0, 2)
	c.Assert(err, qt.IsNil)

	encryptAt, submitAt := -1, -1
	for i, call := range ledger.calls {
		switch call {
		case "encrypt32":
			encryptAt = i
		case "castVote":
			submitAt = i
		}
	}
	c.Assert(encryptAt, qt.Not(qt.Equals), -1)
	c.Assert(submitAt, qt.Not(qt.Equals), -1)
	c.Assert(encryptAt < submitAt, qt.IsTrue)
}

type recordingBackend struct {
	ledger *mockLedger
}

func (b *recordingBackend) Encrypt32(uint32) ([]byte, []byte, error) {
	b.ledger.record("encrypt32")
	return make([]byte, types.CiphertextSize), make([]byte, types.CiphertextSize), nil
}

func TestCastVoteTransportError(t *testing.T) {
	c := qt.New(t)
	ledger := newMockLedger()
	ledger.proposals[1] = testProposal(1, 2)
	cause := fmt.Errorf("connection refused")
	ledger.submitVoteErr = cause
	client := NewClient(testChainID, ledger, degradedAdapter())

	receipt, err := client.CastVote(context.Background(), 1, 0)
	c.Assert(receipt, qt.IsNil)
	c.Assert(err, qt.ErrorIs, cause)
	c.Assert(err.Error(), qt.Contains, "proposal 1")
}

func TestCastVoteOptionOutOfRange(t *testing.T) {
	c := qt.New(t)
	ledger := newMockLedger()
	ledger.proposals[2] = testProposal(2, 2)
	client := NewClient(testChainID, ledger, degradedAdapter())

	_, err := client.CastVote(context.Background(), 2, 5)
	c.Assert(err, qt.ErrorMatches, ".*option index 5 out of range.*")
	c.Assert(ledger.submitted, qt.HasLen, 0)
}

func TestCastVoteReverted(t *testing.T) {
	c := qt.New(t)
	ledger := newMockLedger()
	ledger.proposals[0] = testProposal(0, 2)
	// The first submitted vote gets tx hash 0x...01.
	ledger.txStates[common.HexToHash(fmt.Sprintf("0x%064x", 1))] = TxReverted
	client := NewClient(testChainID, ledger, degradedAdapter())

	receipt, err := client.CastVote(context.Background(), 0, 0)
	c.Assert(receipt, qt.IsNil)
	c.Assert(err, qt.ErrorIs, ErrTxReverted)
}

func TestAuthorizeVotersBatches(t *testing.T) {
	c := qt.New(t)
	ledger := newMockLedger()
	client := NewClient(testChainID, ledger, degradedAdapter())

	addrA := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	addrB := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	_, err := client.AuthorizeVoters(context.Background(), []common.Address{addrA, addrB})
	c.Assert(err, qt.IsNil)

	// Both addresses travel in exactly one remote write.
	c.Assert(ledger.authorizeCalls, qt.HasLen, 1)
	c.Assert(ledger.authorizeCalls[0], qt.DeepEquals, []common.Address{addrA, addrB})

	_, err = client.AuthorizeVoters(context.Background(), nil)
	c.Assert(err, qt.ErrorMatches, ".*empty address list.*")
}

func TestCreateProposalValidation(t *testing.T) {
	c := qt.New(t)
	ledger := newMockLedger()
	client := NewClient(testChainID, ledger, degradedAdapter())

	_, err := client.CreateProposal(context.Background(), "t", "d", []string{"only one"}, time.Hour)
	c.Assert(err, qt.ErrorMatches, ".*1 options, want between 2 and 10.*")

	_, err = client.CreateProposal(context.Background(), "t", "d", []string{"a", "b"}, 0)
	c.Assert(err, qt.ErrorMatches, ".*non-positive duration.*")

	_, err = client.CreateProposal(context.Background(), "t", "d", []string{"a", "b"}, time.Hour)
	c.Assert(err, qt.IsNil)
}

func TestResolveProfile(t *testing.T) {
	c := qt.New(t)

	c.Run("zero address means no session", func(c *qt.C) {
		client := NewClient(testChainID, newMockLedger(), degradedAdapter())
		profile, err := client.ResolveProfile(context.Background(), common.Address{})
		c.Assert(err, qt.IsNil)
		c.Assert(profile, qt.IsNil)
	})

	c.Run("partial vote-check failures are isolated", func(c *qt.C) {
		ledger := newMockLedger()
		for id := uint64(0); id < 3; id++ {
			ledger.proposals[id] = testProposal(id, 2)
		}
		ledger.authorized = true
		ledger.voted[0] = true
		ledger.voted[2] = true
		ledger.hasVotedErr = map[uint64]error{1: fmt.Errorf("node flaked")}
		client := NewClient(testChainID, ledger, degradedAdapter())

		profile, err := client.ResolveProfile(context.Background(), ledger.account)
		c.Assert(err, qt.IsNil)
		c.Assert(profile.IsAuthorized, qt.IsTrue)
		c.Assert(profile.IsAdmin, qt.IsFalse)
		c.Assert(profile.VotedProposals, qt.DeepEquals, map[uint64]bool{0: true, 2: true})
	})
}

func TestProposalSnapshotCache(t *testing.T) {
	c := qt.New(t)
	ledger := newMockLedger()
	ledger.proposals[7] = testProposal(7, 2)
	client := NewClient(testChainID, ledger, degradedAdapter())

	_, err := client.Proposal(context.Background(), 7)
	c.Assert(err, qt.IsNil)
	_, err = client.Proposal(context.Background(), 7)
	c.Assert(err, qt.IsNil)

	reads := 0
	for _, call := range ledger.calls {
		if call == "getProposal" {
			reads++
		}
	}
	// The second read is served from the snapshot cache.
	c.Assert(reads, qt.Equals, 1)

	// A local write through the client invalidates the snapshot.
	_, err = client.CastVote(context.Background(), 7, 0)
	c.Assert(err, qt.IsNil)
	_, ok := client.proposals.Get(uint64(7))
	c.Assert(ok, qt.IsFalse)
}

func TestWaitTxContextCancel(t *testing.T) {
	c := qt.New(t)
	ledger := newMockLedger()
	tx := common.HexToHash("0xabcdef")
	ledger.txStates[tx] = TxPending
	client := NewClient(testChainID, ledger, degradedAdapter())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := client.WaitTx(ctx, tx)
	c.Assert(err, qt.ErrorIs, context.DeadlineExceeded)
}
