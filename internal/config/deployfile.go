package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
)

// DeployFileName is the sender configuration file at the project root
const DeployFileName = "migrate.toml"

// loadDeployFile loads and parses migrate.toml if it exists.
// Returns (nil, nil) when migrate.toml does not exist.
func loadDeployFile(projectRoot string) (*config.DeployFile, error) {
	path := filepath.Join(projectRoot, DeployFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var file config.DeployFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DeployFileName, err)
	}

	for nsName, ns := range file.Ns {
		if ns.Profile == "" {
			ns.Profile = nsName
		}
		for senderName, sender := range ns.Senders {
			sender.PrivateKey = os.ExpandEnv(sender.PrivateKey)
			ns.Senders[senderName] = sender
		}
		file.Ns[nsName] = ns
	}

	return &file, nil
}

// mergeDeployConfig overlays the active namespace on the default namespace
// and returns the result along with the foundry profile to use
func mergeDeployConfig(file *config.DeployFile, namespace string) (*config.DeployConfig, string) {
	merged := &config.DeployConfig{
		Profile: namespace,
		Senders: make(map[string]config.SenderConfig),
	}
	if file == nil {
		return merged, namespace
	}

	if def, ok := file.Ns[DefaultNamespace]; ok {
		maps.Copy(merged.Senders, def.Senders)
		merged.Deployer = def.Deployer
		if namespace == DefaultNamespace {
			merged.Profile = def.Profile
		}
	}

	if namespace != DefaultNamespace {
		if ns, ok := file.Ns[namespace]; ok {
			maps.Copy(merged.Senders, ns.Senders)
			merged.Profile = ns.Profile
			if ns.Deployer != "" {
				merged.Deployer = ns.Deployer
			}
		}
	}

	return merged, merged.Profile
}
