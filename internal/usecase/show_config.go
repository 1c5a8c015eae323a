package usecase

import (
	"context"

	"github.com/trebuchet-org/simple-storage/internal/domain/config"
)

// ShowConfigResult holds the stored defaults next to the values this run
// resolved after env vars and flags were applied
type ShowConfigResult struct {
	Config     *config.LocalConfig
	ConfigPath string
	Exists     bool

	Namespace     string
	Network       *config.Network // nil when no network is selected
	DataDir       string
	MigrationsDir string
	ArtifactsDir  string

	// Completed counts migrations recorded for Namespace on Network
	Completed int
}

// ShowConfig reports where migrations will run and from which files
type ShowConfig struct {
	config     *config.RuntimeConfig
	store      LocalConfigStore
	migrations MigrationRepository
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigStore, migrations MigrationRepository) *ShowConfig {
	return &ShowConfig{
		config:     cfg,
		store:      store,
		migrations: migrations,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	stored, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowConfigResult{
		Config:        stored,
		ConfigPath:    uc.store.GetPath(),
		Exists:        uc.store.Exists(),
		Namespace:     uc.config.Namespace,
		Network:       uc.config.Network,
		DataDir:       uc.config.DataDir,
		MigrationsDir: uc.config.MigrationsDir,
		ArtifactsDir:  uc.config.ArtifactsDir,
	}

	if uc.config.Network != nil {
		records, err := uc.migrations.CompletedMigrations(ctx, uc.config.Namespace, uc.config.Network.ChainID)
		if err != nil {
			return nil, err
		}
		result.Completed = len(records)
	}

	return result, nil
}
