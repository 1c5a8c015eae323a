package config

// LocalConfig holds per-checkout defaults stored in .migrate/config.local.json
type LocalConfig struct {
	Namespace string `json:"namespace"`
	Network   string `json:"network"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNamespace ConfigKey = "namespace"
	ConfigKeyNetwork   ConfigKey = "network"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Namespace: "default",
	}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNamespace,
		ConfigKeyNetwork,
	}
}

// ParseConfigKey normalizes a key ("ns" -> "namespace") and reports whether it is known
func ParseConfigKey(key string) (ConfigKey, bool) {
	if key == "ns" {
		return ConfigKeyNamespace, true
	}
	for _, valid := range ValidConfigKeys() {
		if string(valid) == key {
			return valid, true
		}
	}
	return "", false
}
