package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/ethereum/go-ethereum/common"

	"github.com/daovote/fhevote/api"
	"github.com/daovote/fhevote/fhe"
	"github.com/daovote/fhevote/log"
	"github.com/daovote/fhevote/store"
	"github.com/daovote/fhevote/web3"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log.Level, cfg.Log.Output)
	log.Infow("starting fhevote-gateway", "version", Version)

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	network, err := networkConfig(cfg)
	if err != nil {
		log.Fatalf("failed to resolve network configuration: %v", err)
	}
	log.Infow("using network configuration",
		"network", cfg.Web3.Network,
		"chainID", network.ChainID,
		"votingContract", network.VotingContract,
		"gateway", network.GatewayURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect the ledger binding.
	ledger, chainID, err := web3.DialLedger(ctx, cfg.Web3.Rpc,
		common.HexToAddress(network.VotingContract), cfg.Web3.PrivKey)
	if err != nil {
		log.Fatalf("failed to connect to the ledger: %v", err)
	}
	log.Infow("ledger connected", "rpc", cfg.Web3.Rpc, "chainID", chainID)

	// Initialize the encryption adapter. No backend factory is compiled
	// into this binary, so the adapter degrades to the simulated encryptor
	// unless one is wired in; the mode is inspectable via GET /info.
	adapter := fhe.NewAdapter(fhe.Config{
		ChainID:     network.ChainID,
		GatewayURL:  network.GatewayURL,
		ACLContract: common.HexToAddress(network.ACLContract),
	})
	adapter.Initialize(ctx, chainID)
	log.Infow("encryption adapter initialized", "status", adapter.Status().String())

	client := web3.NewClient(chainID, ledger, adapter)

	receipts, err := store.Open(path.Join(cfg.Datadir, "receipts"))
	if err != nil {
		log.Fatalf("failed to open the receipt store: %v", err)
	}
	defer func() {
		if err := receipts.Close(); err != nil {
			log.Warnw("failed to close the receipt store", "error", err.Error())
		}
	}()

	if _, err := api.New(&api.APIConfig{
		Host:     cfg.API.Host,
		Port:     cfg.API.Port,
		Client:   client,
		Receipts: receipts,
		Network:  cfg.Web3.Network,
	}); err != nil {
		log.Fatalf("failed to start the API: %v", err)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", sig.String())
}
