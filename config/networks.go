package config

// NetworkConfig contains the per-network deployment parameters consumed by
// the client: the chain identity the encryption backend must be bound to,
// the voting contract address, the FHE gateway that serves the public
// encryption key and the access-control contract the coprocessor checks.
// Everything here is a default that can be overridden through flags or
// environment variables; nothing is compiled into the call sites.
type NetworkConfig struct {
	ChainID          uint64
	VotingContract   string
	GatewayURL       string
	ACLContract      string
	DecryptionOracle string
}

// DefaultConfig contains the default deployment parameters by network.
var DefaultConfig = map[string]NetworkConfig{
	"zama-devnet": {
		ChainID:          8009,
		VotingContract:   "0x42b7B76bcA9fe081Ba40B2a2af7d3dC3978aD012",
		GatewayURL:       "https://gateway.devnet.zama.ai",
		ACLContract:      "0x2Fb4341027eb1d2aD8B5D9708187df8633cAFA92",
		DecryptionOracle: "0x596E6682c72946AF006B27C131793F2b62527A4b",
	},
	"sep": {
		ChainID:          11155111,
		VotingContract:   "0x8d91F2a4E9A1B9a40C4a1E72C4a74f3CdE54E0b3",
		GatewayURL:       "https://gateway.sepolia.zama.ai",
		ACLContract:      "0xFee8407e2f5e3Ee68ad77cAE98c434e637f516e5",
		DecryptionOracle: "0xa02Cda4Ca3a71D7C46997716F4283aa851C28812",
	},
	"local": {
		ChainID:          31337,
		VotingContract:   "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		GatewayURL:       "http://localhost:7077",
		ACLContract:      "0x0165878A594ca255338adfa4d48449f69242Eb8F",
		DecryptionOracle: "0xDc64a140Aa3E981100a9becA4E685f962f0cF6C9",
	},
}

// AvailableNetworks contains the list of networks with default parameters.
var AvailableNetworks = []string{
	"zama-devnet",
	"sep",
	"local",
}
