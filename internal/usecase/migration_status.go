package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
)

// MigrationState is one row of the status table
type MigrationState struct {
	Migration Migration
	Record    *models.MigrationRecord // nil while pending
}

// Completed reports whether the migration has been applied
func (s MigrationState) Completed() bool {
	return s.Record != nil
}

// MigrationStatusResult lists all known migrations for a namespace and chain
type MigrationStatusResult struct {
	Network    *config.Network
	Namespace  string
	Migrations []MigrationState
}

// Pending returns the number of migrations that still have to run
func (r *MigrationStatusResult) Pending() int {
	n := 0
	for _, m := range r.Migrations {
		if !m.Completed() {
			n++
		}
	}
	return n
}

// MigrationStatus reports which migrations have been applied
type MigrationStatus struct {
	config     *config.RuntimeConfig
	source     MigrationSource
	migrations MigrationRepository
}

// NewMigrationStatus creates a new MigrationStatus use case
func NewMigrationStatus(cfg *config.RuntimeConfig, source MigrationSource, migrations MigrationRepository) *MigrationStatus {
	return &MigrationStatus{
		config:     cfg,
		source:     source,
		migrations: migrations,
	}
}

// Run executes the use case
func (uc *MigrationStatus) Run(ctx context.Context) (*MigrationStatusResult, error) {
	if uc.config.Network == nil {
		return nil, fmt.Errorf("%w: use --network to select one", domain.ErrNetworkNotConfigured)
	}

	all, err := uc.source.Migrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	sorted, err := SortMigrations(all)
	if err != nil {
		return nil, err
	}

	records, err := uc.migrations.CompletedMigrations(ctx, uc.config.Namespace, uc.config.Network.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to load migration history: %w", err)
	}
	byID := make(map[uint]*models.MigrationRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	result := &MigrationStatusResult{
		Network:   uc.config.Network,
		Namespace: uc.config.Namespace,
	}
	for _, m := range sorted {
		result.Migrations = append(result.Migrations, MigrationState{Migration: m, Record: byID[m.ID]})
	}
	return result, nil
}
