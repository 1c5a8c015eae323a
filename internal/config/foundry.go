package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
)

// foundryTOML is the raw foundry.toml structure
type foundryTOML struct {
	RpcEndpoints map[string]string      `toml:"rpc_endpoints"`
	Profile      map[string]profileTOML `toml:"profile"`
}

type profileTOML struct {
	Src  string   `toml:"src"`
	Out  string   `toml:"out"`
	Libs []string `toml:"libs"`
}

// loadEnvFiles loads .env and .env.local for variable expansion.
// Variables already set in the environment win.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// loadFoundryConfig loads and parses foundry.toml
func loadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	loadEnvFiles(projectRoot)

	var raw foundryTOML
	if _, err := toml.DecodeFile(filepath.Join(projectRoot, "foundry.toml"), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	cfg := &config.FoundryConfig{
		RpcEndpoints: make(map[string]string, len(raw.RpcEndpoints)),
		Profiles:     make(map[string]config.ProfileConfig, len(raw.Profile)),
	}

	for name, url := range raw.RpcEndpoints {
		cfg.RpcEndpoints[name] = os.ExpandEnv(url)
	}

	for name, p := range raw.Profile {
		cfg.Profiles[name] = config.ProfileConfig{
			Src:  p.Src,
			Out:  p.Out,
			Libs: p.Libs,
		}
	}

	return cfg, nil
}
