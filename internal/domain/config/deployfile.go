package config

// SenderType identifies how a sender signs transactions
type SenderType string

const (
	SenderTypePrivateKey SenderType = "private_key"
)

// DeployFile is the parsed migrate.toml
type DeployFile struct {
	Ns map[string]DeployConfig `toml:"ns"`
}

// DeployConfig is the per-namespace section of migrate.toml
type DeployConfig struct {
	Profile  string                  `toml:"profile"`
	Deployer string                  `toml:"deployer"`
	Senders  map[string]SenderConfig `toml:"senders"`
}

// SenderConfig describes a single transaction signer
type SenderConfig struct {
	Type       SenderType `toml:"type"`
	PrivateKey string     `toml:"private_key,omitempty"`
}
