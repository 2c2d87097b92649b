package web3

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/daovote/fhevote/types"
)

// VotingContractABI is the externally callable surface of the encrypted
// voting contract. The contract itself is deployed and owned elsewhere; the
// client only packs calls against this fixed interface.
const VotingContractABI = `[
	{"type":"function","name":"proposalCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getProposal","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"options","type":"string[]"},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"},{"name":"totalVotes","type":"uint256"},{"name":"creator","type":"address"},{"name":"active","type":"bool"},{"name":"resultsRevealed","type":"bool"},{"name":"revealedResults","type":"uint256[]"}]},
	{"type":"function","name":"getActiveProposals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256[]"}]},
	{"type":"function","name":"hasVoted","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"},{"name":"voter","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"isAuthorizedVoter","stateMutability":"view","inputs":[{"name":"voter","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"isAdmin","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"castVote","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"},{"name":"optionIndex","type":"uint256"},{"name":"encryptedChoice","type":"bytes"},{"name":"proof","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"createProposal","stateMutability":"nonpayable","inputs":[{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"options","type":"string[]"},{"name":"durationSeconds","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"revealResults","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"authorizeVoter","stateMutability":"nonpayable","inputs":[{"name":"voter","type":"address"}],"outputs":[]},
	{"type":"function","name":"authorizeVoters","stateMutability":"nonpayable","inputs":[{"name":"voters","type":"address[]"}],"outputs":[]},
	{"type":"event","name":"ProposalCreated","inputs":[{"name":"proposalId","type":"uint256","indexed":true},{"name":"creator","type":"address","indexed":true}],"anonymous":false},
	{"type":"event","name":"VoteCast","inputs":[{"name":"proposalId","type":"uint256","indexed":true},{"name":"voter","type":"address","indexed":true}],"anonymous":false},
	{"type":"event","name":"ResultsRevealed","inputs":[{"name":"proposalId","type":"uint256","indexed":true}],"anonymous":false}
]`

// boundLedger implements Ledger against a deployed voting contract through a
// web3 RPC endpoint.
type boundLedger struct {
	chainID  uint64
	addr     common.Address
	contract *bind.BoundContract
	cli      *ethclient.Client
	signer   *ecdsa.PrivateKey
	account  common.Address
}

var _ Ledger = (*boundLedger)(nil)

// DialLedger connects to a web3 RPC endpoint and binds the voting contract
// deployed at contractAddr. hexPrivKey signs write operations.
func DialLedger(ctx context.Context, rpcURL string, contractAddr common.Address, hexPrivKey string) (Ledger, uint64, error) {
	cli, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to dial web3 endpoint: %w", err)
	}
	chainID, err := cli.ChainID(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	parsedABI, err := abi.JSON(strings.NewReader(VotingContractABI))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse voting contract ABI: %w", err)
	}
	signer, err := crypto.HexToECDSA(types.TrimHex(hexPrivKey))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse private key: %w", err)
	}
	l := &boundLedger{
		chainID:  chainID.Uint64(),
		addr:     contractAddr,
		contract: bind.NewBoundContract(contractAddr, parsedABI, cli, cli, cli),
		cli:      cli,
		signer:   signer,
		account:  crypto.PubkeyToAddress(signer.PublicKey),
	}
	return l, l.chainID, nil
}

func (l *boundLedger) Account() common.Address {
	return l.account
}

func (l *boundLedger) ProposalCount(ctx context.Context) (uint64, error) {
	var out []any
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "proposalCount"); err != nil {
		return 0, fmt.Errorf("proposalCount call: %w", err)
	}
	count := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return count.Uint64(), nil
}

func (l *boundLedger) Proposal(ctx context.Context, id uint64) (*types.Proposal, error) {
	var out []any
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getProposal", new(big.Int).SetUint64(id)); err != nil {
		return nil, fmt.Errorf("getProposal(%d) call: %w", id, err)
	}
	startTime := *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)
	endTime := *abi.ConvertType(out[4], new(*big.Int)).(**big.Int)
	totalVotes := *abi.ConvertType(out[5], new(*big.Int)).(**big.Int)
	rawResults := *abi.ConvertType(out[9], new([]*big.Int)).(*[]*big.Int)
	results := make([]uint64, len(rawResults))
	for i, r := range rawResults {
		results[i] = r.Uint64()
	}
	return &types.Proposal{
		ID:              id,
		Title:           *abi.ConvertType(out[0], new(string)).(*string),
		Description:     *abi.ConvertType(out[1], new(string)).(*string),
		Options:         *abi.ConvertType(out[2], new([]string)).(*[]string),
		StartTime:       time.Unix(startTime.Int64(), 0),
		EndTime:         time.Unix(endTime.Int64(), 0),
		TotalVotes:      totalVotes.Uint64(),
		Creator:         *abi.ConvertType(out[6], new(common.Address)).(*common.Address),
		Active:          *abi.ConvertType(out[7], new(bool)).(*bool),
		ResultsRevealed: *abi.ConvertType(out[8], new(bool)).(*bool),
		RevealedResults: results,
	}, nil
}

func (l *boundLedger) ActiveProposals(ctx context.Context) ([]*types.Proposal, error) {
	var out []any
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getActiveProposals"); err != nil {
		return nil, fmt.Errorf("getActiveProposals call: %w", err)
	}
	ids := *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int)
	proposals := make([]*types.Proposal, 0, len(ids))
	for _, id := range ids {
		p, err := l.Proposal(ctx, id.Uint64())
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

func (l *boundLedger) HasVoted(ctx context.Context, id uint64, voter common.Address) (bool, error) {
	var out []any
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "hasVoted", new(big.Int).SetUint64(id), voter); err != nil {
		return false, fmt.Errorf("hasVoted(%d) call: %w", id, err)
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (l *boundLedger) IsAuthorizedVoter(ctx context.Context, addr common.Address) (bool, error) {
	var out []any
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isAuthorizedVoter", addr); err != nil {
		return false, fmt.Errorf("isAuthorizedVoter call: %w", err)
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (l *boundLedger) IsAdmin(ctx context.Context, addr common.Address) (bool, error) {
	var out []any
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isAdmin", addr); err != nil {
		return false, fmt.Errorf("isAdmin call: %w", err)
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (l *boundLedger) SubmitVote(ctx context.Context, id uint64, optionIndex uint32, encryptedChoice, proof types.HexBytes) (common.Hash, error) {
	opts, err := l.authTransactOpts(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	tx, err := l.contract.Transact(opts, "castVote",
		new(big.Int).SetUint64(id),
		new(big.Int).SetUint64(uint64(optionIndex)),
		[]byte(encryptedChoice),
		[]byte(proof),
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("castVote(%d) transact: %w", id, err)
	}
	return tx.Hash(), nil
}

func (l *boundLedger) SubmitProposal(ctx context.Context, title, description string, options []string, duration time.Duration) (common.Hash, error) {
	opts, err := l.authTransactOpts(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	tx, err := l.contract.Transact(opts, "createProposal",
		title, description, options,
		new(big.Int).SetInt64(int64(duration.Seconds())),
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("createProposal transact: %w", err)
	}
	return tx.Hash(), nil
}

func (l *boundLedger) RevealResults(ctx context.Context, id uint64) (common.Hash, error) {
	opts, err := l.authTransactOpts(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	tx, err := l.contract.Transact(opts, "revealResults", new(big.Int).SetUint64(id))
	if err != nil {
		return common.Hash{}, fmt.Errorf("revealResults(%d) transact: %w", id, err)
	}
	return tx.Hash(), nil
}

func (l *boundLedger) AuthorizeVoters(ctx context.Context, voters []common.Address) (common.Hash, error) {
	opts, err := l.authTransactOpts(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	tx, err := l.contract.Transact(opts, "authorizeVoters", voters)
	if err != nil {
		return common.Hash{}, fmt.Errorf("authorizeVoters transact: %w", err)
	}
	return tx.Hash(), nil
}

func (l *boundLedger) TxStatus(ctx context.Context, tx common.Hash) (TxState, error) {
	receipt, err := l.cli.TransactionReceipt(ctx, tx)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return TxPending, nil
		}
		return TxPending, fmt.Errorf("transaction receipt: %w", err)
	}
	if receipt.Status == 1 {
		return TxCommitted, nil
	}
	return TxReverted, nil
}

// authTransactOpts creates the transact options with the configured private
// key. It sets the context and the pending nonce; gas estimation is left to
// the bound contract.
func (l *boundLedger) authTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if l.signer == nil {
		return nil, fmt.Errorf("no private key set")
	}
	auth, err := bind.NewKeyedTransactorWithChainID(l.signer, new(big.Int).SetUint64(l.chainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	nonce, err := l.cli.PendingNonceAt(ctx, l.account)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	auth.Nonce = new(big.Int).SetUint64(nonce)
	auth.Context = ctx
	return auth, nil
}
