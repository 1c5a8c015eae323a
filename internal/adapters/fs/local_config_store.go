package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// LocalConfigFile sits next to the registry in the data dir. Viper reads it
// as the lowest layer, so env vars and flags still override what is stored.
const LocalConfigFile = "config.local.json"

// LocalConfigStoreAdapter keeps the per-checkout namespace and network
// defaults in <data dir>/config.local.json
type LocalConfigStoreAdapter struct {
	dataDir    string
	configPath string
}

// NewLocalConfigStoreAdapter creates a store inside the project's data dir
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		dataDir:    cfg.DataDir,
		configPath: filepath.Join(cfg.DataDir, LocalConfigFile),
	}
}

// Exists reports whether defaults have been stored
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.configPath)
	return err == nil
}

// Load returns the stored defaults, or the built-in ones when nothing is stored
func (s *LocalConfigStoreAdapter) Load(ctx context.Context) (*config.LocalConfig, error) {
	data, err := os.ReadFile(s.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return config.DefaultLocalConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.relative(), err)
	}

	var localConfig config.LocalConfig
	if err := json.Unmarshal(data, &localConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.relative(), err)
	}
	if localConfig.Namespace == "" {
		localConfig.Namespace = config.DefaultLocalConfig().Namespace
	}

	return &localConfig, nil
}

// Save stores the defaults. Storing the built-in defaults removes the file
// so a later migrate run falls back to env vars alone.
func (s *LocalConfigStoreAdapter) Save(ctx context.Context, cfg *config.LocalConfig) error {
	if *cfg == *config.DefaultLocalConfig() {
		if err := os.Remove(s.configPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", s.relative(), err)
		}
		return nil
	}

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.dataDir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	// same temp-and-rename write as the deployment registry
	tmpPath := s.configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.relative(), err)
	}
	if err := os.Rename(tmpPath, s.configPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.relative(), err)
	}

	return nil
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.configPath
}

// relative names the file the way users see it, e.g. .migrate/config.local.json
func (s *LocalConfigStoreAdapter) relative() string {
	return filepath.Join(filepath.Base(s.dataDir), LocalConfigFile)
}

var _ usecase.LocalConfigStore = (*LocalConfigStoreAdapter)(nil)
