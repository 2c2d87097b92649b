package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/ethereum/go-ethereum/common"

	"github.com/daovote/fhevote/fhe"
	"github.com/daovote/fhevote/store"
	"github.com/daovote/fhevote/types"
	"github.com/daovote/fhevote/web3"
)

const testChainID = uint64(8009)

// stubLedger is an in-memory web3.Ledger that commits every transaction
// instantly.
type stubLedger struct {
	account        common.Address
	proposals      map[uint64]*types.Proposal
	authorizeCalls int
}

var _ web3.Ledger = (*stubLedger)(nil)

func newStubLedger() *stubLedger {
	return &stubLedger{
		account:   common.HexToAddress("0x00000000000000000000000000000000000000A1"),
		proposals: make(map[uint64]*types.Proposal),
	}
}

func (s *stubLedger) Account() common.Address { return s.account }

func (s *stubLedger) ProposalCount(context.Context) (uint64, error) {
	return uint64(len(s.proposals)), nil
}

func (s *stubLedger) Proposal(_ context.Context, id uint64) (*types.Proposal, error) {
	p, ok := s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("unknown proposal %d", id)
	}
	return p, nil
}

func (s *stubLedger) ActiveProposals(context.Context) ([]*types.Proposal, error) {
	var active []*types.Proposal
	for _, p := range s.proposals {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *stubLedger) HasVoted(context.Context, uint64, common.Address) (bool, error) {
	return false, nil
}

func (s *stubLedger) IsAuthorizedVoter(context.Context, common.Address) (bool, error) {
	return true, nil
}

func (s *stubLedger) IsAdmin(context.Context, common.Address) (bool, error) {
	return false, nil
}

func (s *stubLedger) SubmitVote(context.Context, uint64, uint32, types.HexBytes, types.HexBytes) (common.Hash, error) {
	return common.HexToHash("0x01"), nil
}

func (s *stubLedger) SubmitProposal(context.Context, string, string, []string, time.Duration) (common.Hash, error) {
	return common.HexToHash("0x02"), nil
}

func (s *stubLedger) RevealResults(context.Context, uint64) (common.Hash, error) {
	return common.HexToHash("0x03"), nil
}

func (s *stubLedger) AuthorizeVoters(context.Context, []common.Address) (common.Hash, error) {
	s.authorizeCalls++
	return common.HexToHash("0x04"), nil
}

func (s *stubLedger) TxStatus(context.Context, common.Hash) (web3.TxState, error) {
	return web3.TxCommitted, nil
}

func testAPI(t *testing.T, ledger web3.Ledger) (*API, *httptest.Server) {
	t.Helper()
	adapter := fhe.NewAdapter(fhe.Config{ChainID: testChainID})
	adapter.Initialize(context.Background(), testChainID)
	receipts, err := store.Open(t.TempDir())
	qt.Assert(t, err, qt.IsNil)
	t.Cleanup(func() { _ = receipts.Close() })

	a := &API{
		client:   web3.NewClient(testChainID, ledger, adapter),
		receipts: receipts,
		network:  "local",
	}
	a.initRouter()
	srv := httptest.NewServer(a.Router())
	t.Cleanup(srv.Close)
	return a, srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	qt.Assert(t, err, qt.IsNil)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	qt.Assert(t, err, qt.IsNil)
	return resp
}

func TestPingAndInfo(t *testing.T) {
	c := qt.New(t)
	_, srv := testAPI(t, newStubLedger())

	resp, err := http.Get(srv.URL + PingEndpoint)
	c.Assert(err, qt.IsNil)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + InfoEndpoint)
	c.Assert(err, qt.IsNil)
	defer func() { _ = resp.Body.Close() }()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	info := InfoResponse{}
	c.Assert(json.NewDecoder(resp.Body).Decode(&info), qt.IsNil)
	c.Assert(info.Network, qt.Equals, "local")
	c.Assert(info.ChainID, qt.Equals, testChainID)
	// No backend factory wired: the adapter runs in simulation.
	c.Assert(info.Encryption, qt.Equals, "degraded")
}

func TestCastVoteEndpoint(t *testing.T) {
	c := qt.New(t)
	ledger := newStubLedger()
	ledger.proposals[3] = &types.Proposal{
		ID:        3,
		Title:     "upgrade treasury",
		Options:   []string{"yes", "no"},
		StartTime: time.Now().Add(-time.Hour),
		EndTime:   time.Now().Add(time.Hour),
		Active:    true,
	}
	a, srv := testAPI(t, ledger)

	resp := postJSON(t, srv.URL+VotesEndpoint, CastVoteRequest{ProposalID: 3, OptionIndex: 1})
	defer func() { _ = resp.Body.Close() }()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)

	receipt := types.VoteReceipt{}
	c.Assert(json.NewDecoder(resp.Body).Decode(&receipt), qt.IsNil)
	c.Assert(receipt.Committed, qt.IsTrue)
	c.Assert(receipt.ProposalID, qt.Equals, uint64(3))

	// The receipt is also persisted locally.
	stored, err := a.receipts.Get(3, receipt.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.OptionIndex, qt.Equals, uint32(1))

	// And listed through the receipts endpoint.
	listResp, err := http.Get(srv.URL + VotesEndpoint + "/3")
	c.Assert(err, qt.IsNil)
	defer func() { _ = listResp.Body.Close() }()
	list := VoteReceiptsResponse{}
	c.Assert(json.NewDecoder(listResp.Body).Decode(&list), qt.IsNil)
	c.Assert(list.Receipts, qt.HasLen, 1)
}

func TestCastVoteEndpointRejections(t *testing.T) {
	c := qt.New(t)
	ledger := newStubLedger()
	ledger.proposals[0] = &types.Proposal{ID: 0, Options: []string{"a", "b"}, Active: true}
	_, srv := testAPI(t, ledger)

	// Unknown proposal.
	resp := postJSON(t, srv.URL+VotesEndpoint, CastVoteRequest{ProposalID: 9, OptionIndex: 0})
	c.Assert(resp.StatusCode, qt.Equals, http.StatusBadRequest)
	_ = resp.Body.Close()

	// Option index beyond the proposal's options.
	resp = postJSON(t, srv.URL+VotesEndpoint, CastVoteRequest{ProposalID: 0, OptionIndex: 9})
	c.Assert(resp.StatusCode, qt.Equals, http.StatusBadRequest)
	_ = resp.Body.Close()

	// Malformed body.
	raw, err := http.Post(srv.URL+VotesEndpoint, "application/json", bytes.NewReader([]byte("{")))
	c.Assert(err, qt.IsNil)
	c.Assert(raw.StatusCode, qt.Equals, http.StatusBadRequest)
	_ = raw.Body.Close()
}

func TestProfileEndpoint(t *testing.T) {
	c := qt.New(t)
	_, srv := testAPI(t, newStubLedger())

	resp, err := http.Get(srv.URL + "/profile/0x00000000000000000000000000000000000000A1")
	c.Assert(err, qt.IsNil)
	defer func() { _ = resp.Body.Close() }()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	profile := types.UserProfile{}
	c.Assert(json.NewDecoder(resp.Body).Decode(&profile), qt.IsNil)
	c.Assert(profile.IsAuthorized, qt.IsTrue)

	bad, err := http.Get(srv.URL + "/profile/not-an-address")
	c.Assert(err, qt.IsNil)
	c.Assert(bad.StatusCode, qt.Equals, http.StatusBadRequest)
	_ = bad.Body.Close()
}

func TestAuthorizeVotersEndpoint(t *testing.T) {
	c := qt.New(t)
	ledger := newStubLedger()
	_, srv := testAPI(t, ledger)

	resp := postJSON(t, srv.URL+VotersEndpoint, AuthorizeVotersRequest{Voters: []string{
		"0x00000000000000000000000000000000000000aa",
		"0x00000000000000000000000000000000000000bb",
	}})
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	_ = resp.Body.Close()
	c.Assert(ledger.authorizeCalls, qt.Equals, 1)

	empty := postJSON(t, srv.URL+VotersEndpoint, AuthorizeVotersRequest{})
	c.Assert(empty.StatusCode, qt.Equals, http.StatusBadRequest)
	_ = empty.Body.Close()
}
