package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot   string
	DataDir       string
	ArtifactsDir  string
	MigrationsDir string

	// Context settings
	Namespace string
	Network   *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Timeout        time.Duration

	// Resolved configurations
	FoundryConfig *FoundryConfig
	DeployConfig  *DeployConfig // namespace-specific deploy config
}

// Network represents network configuration
type Network struct {
	ChainID uint64 `json:"chainId"`
	Name    string `json:"name"`
	RPCURL  string `json:"rpcUrl"`
}

// IsLocal reports whether the network is a development chain
// (anvil, hardhat, ganache or a geth dev node)
func (n *Network) IsLocal() bool {
	switch n.ChainID {
	case 31337, 1337, 5777:
		return true
	}
	return false
}
