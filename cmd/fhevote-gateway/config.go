package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/daovote/fhevote/config"
	"github.com/daovote/fhevote/internal"
)

const (
	defaultNetwork   = "zama-devnet"
	defaultAPIHost   = "0.0.0.0"
	defaultAPIPort   = 9091
	defaultLogLevel  = "info"
	defaultLogOutput = "stdout"
	defaultDatadir   = ".fhevote" // Will be prefixed with user's home directory
)

// Version is the build version, set at build time with -ldflags
var Version = internal.Version

// Config holds the application configuration
type Config struct {
	Web3    Web3Config
	API     APIConfig
	Log     LogConfig
	Datadir string
}

// Web3Config holds the ledger and encryption-gateway configuration
type Web3Config struct {
	PrivKey    string `mapstructure:"privkey"`
	Network    string `mapstructure:"network"`
	Rpc        string `mapstructure:"rpc"`
	VotingAddr string `mapstructure:"voting"`
	GatewayURL string `mapstructure:"gateway"`
	ACLAddr    string `mapstructure:"acl"`
	ChainID    uint64 `mapstructure:"chainid"`
}

// APIConfig holds the API-specific configuration
type APIConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// loadConfig loads configuration from flags, environment variables, and defaults
func loadConfig() (*Config, error) {
	v := viper.New()

	// Get user's home directory for default datadir
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		userHomeDir = "."
	}
	defaultDatadirPath := filepath.Join(userHomeDir, defaultDatadir)

	v.SetDefault("web3.network", defaultNetwork)
	v.SetDefault("api.host", defaultAPIHost)
	v.SetDefault("api.port", defaultAPIPort)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)
	v.SetDefault("datadir", defaultDatadirPath)

	// Configure flags
	flag.StringP("web3.privkey", "k", "", "private key to use for the Ethereum account (required)")
	flag.StringP("web3.network", "n", defaultNetwork, fmt.Sprintf("network to use %v", config.AvailableNetworks))
	flag.StringP("web3.rpc", "w", "", "web3 rpc endpoint (required)")
	flag.String("web3.voting", "", "custom voting contract address (overrides network default)")
	flag.String("web3.gateway", "", "custom FHE gateway endpoint (overrides network default)")
	flag.String("web3.acl", "", "custom access-control contract address (overrides network default)")
	flag.Uint64("web3.chainid", 0, "custom expected chain id (overrides network default)")
	flag.StringP("api.host", "a", defaultAPIHost, "API host")
	flag.IntP("api.port", "p", defaultAPIPort, "API port")
	flag.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	flag.StringP("log.output", "o", defaultLogOutput, "log output (stdout, stderr or filepath)")
	flag.StringP("datadir", "d", defaultDatadirPath, "data directory for the local receipt store")

	// Configure usage information
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "fhevote-gateway v%s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: fhevote-gateway [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as flags,\n")
		fmt.Fprintf(os.Stderr, "  except for dashes (-) and dots (.) which are replaced by underscores (_).\n")
		fmt.Fprintf(os.Stderr, "  For example, FHEVOTE_WEB3_PRIVKEY or FHEVOTE_API_HOST\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Start against the devnet with default contract addresses\n")
		fmt.Fprintf(os.Stderr, "  fhevote-gateway --web3.privkey=0x123... --web3.rpc=https://devnet.zama.ai\n\n")
		fmt.Fprintf(os.Stderr, "  # Start with a custom voting contract\n")
		fmt.Fprintf(os.Stderr, "  fhevote-gateway --web3.privkey=0x123... --web3.rpc=http://localhost:8545 --web3.voting=0x456...\n")
	}

	// Parse flags
	flag.CommandLine.SortFlags = false
	flag.Parse()

	// Configure Viper to use environment variables
	v.SetEnvPrefix("FHEVOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind flags to Viper
	if err := v.BindPFlags(flag.CommandLine); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// validateConfig validates the loaded configuration
func validateConfig(cfg *Config) error {
	if cfg.Web3.PrivKey == "" {
		return fmt.Errorf("private key is required (use --web3.privkey flag or FHEVOTE_WEB3_PRIVKEY environment variable)")
	}
	if cfg.Web3.Rpc == "" {
		return fmt.Errorf("web3 rpc endpoint is required (use --web3.rpc flag or FHEVOTE_WEB3_RPC environment variable)")
	}
	validNetwork := false
	for _, n := range config.AvailableNetworks {
		if cfg.Web3.Network == n {
			validNetwork = true
			break
		}
	}
	if !validNetwork {
		return fmt.Errorf("invalid network %s, available networks: %v", cfg.Web3.Network, config.AvailableNetworks)
	}
	return nil
}

// networkConfig resolves the effective network parameters: the defaults of
// the selected network with any custom overrides applied.
func networkConfig(cfg *Config) (config.NetworkConfig, error) {
	nc, ok := config.DefaultConfig[cfg.Web3.Network]
	if !ok {
		return config.NetworkConfig{}, fmt.Errorf("no configuration found for network %s", cfg.Web3.Network)
	}
	if cfg.Web3.VotingAddr != "" {
		nc.VotingContract = cfg.Web3.VotingAddr
	}
	if cfg.Web3.GatewayURL != "" {
		nc.GatewayURL = cfg.Web3.GatewayURL
	}
	if cfg.Web3.ACLAddr != "" {
		nc.ACLContract = cfg.Web3.ACLAddr
	}
	if cfg.Web3.ChainID != 0 {
		nc.ChainID = cfg.Web3.ChainID
	}
	return nc, nil
}
