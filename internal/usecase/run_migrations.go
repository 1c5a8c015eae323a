package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
)

// RunMigrationsParams contains parameters for a migrate run
type RunMigrationsParams struct {
	From   uint // first migration ID to consider, 0 for no bound
	To     uint // last migration ID to consider, 0 for no bound
	Reset  bool // re-run migrations that were already applied
	DryRun bool
}

// MigrationResult describes one executed migration
type MigrationResult struct {
	Migration   Migration
	Deployments []*models.Deployment
	Duration    time.Duration
}

// RunMigrationsResult contains the result of a migrate run
type RunMigrationsResult struct {
	Network   *config.Network
	Namespace string
	DryRun    bool
	Executed  []*MigrationResult
	Skipped   []Migration
}

// TotalDeployments counts the contracts created across all executed migrations
func (r *RunMigrationsResult) TotalDeployments() int {
	return lo.SumBy(r.Executed, func(m *MigrationResult) int { return len(m.Deployments) })
}

// RunMigrations applies pending migrations to the configured network
type RunMigrations struct {
	config          *config.RuntimeConfig
	source          MigrationSource
	artifacts       ArtifactRepository
	deployerFactory ContractDeployerFactory
	deployments     DeploymentRepository
	migrations      MigrationRepository
	confirmer       Confirmer
	progress        ProgressSink
	log             *slog.Logger
}

// NewRunMigrations creates a new RunMigrations use case
func NewRunMigrations(
	cfg *config.RuntimeConfig,
	source MigrationSource,
	artifacts ArtifactRepository,
	deployerFactory ContractDeployerFactory,
	deployments DeploymentRepository,
	migrations MigrationRepository,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *RunMigrations {
	return &RunMigrations{
		config:          cfg,
		source:          source,
		artifacts:       artifacts,
		deployerFactory: deployerFactory,
		deployments:     deployments,
		migrations:      migrations,
		confirmer:       confirmer,
		progress:        progress,
		log:             log,
	}
}

// Run executes pending migrations in ID order. When a migration fails the
// run stops; the returned result still lists the migrations that succeeded.
func (uc *RunMigrations) Run(ctx context.Context, params RunMigrationsParams) (*RunMigrationsResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("%w: use --network to select one", domain.ErrNetworkNotConfigured)
	}

	result := &RunMigrationsResult{
		Network:   network,
		Namespace: uc.config.Namespace,
		DryRun:    params.DryRun,
	}

	pending, skipped, err := uc.plan(ctx, params)
	if err != nil {
		return nil, err
	}
	result.Skipped = skipped

	if len(pending) == 0 {
		uc.log.Debug("nothing to migrate", "network", network.Name, "namespace", uc.config.Namespace)
		return result, nil
	}

	if !params.DryRun && !network.IsLocal() && !uc.config.NonInteractive {
		prompt := fmt.Sprintf("Run %d migration(s) on %s (chain %d)", len(pending), network.Name, network.ChainID)
		ok, err := uc.confirmer.Confirm(ctx, prompt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrAborted
		}
	}

	contracts, closeDeployer, err := uc.deployerFactory.NewDeployer(ctx, network, params.DryRun)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	defer closeDeployer()

	artifacts := NewArtifacts(uc.artifacts)
	for i, migration := range pending {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageMigrating,
			Current: i + 1,
			Total:   len(pending),
			Message: migration.Label(),
		})

		deployer := &migrationDeployer{
			migration: migration,
			namespace: uc.config.Namespace,
			network:   network,
			dryRun:    params.DryRun,
			contracts: contracts,
			repo:      uc.deployments,
			progress:  uc.progress,
			log:       uc.log,
		}

		start := time.Now()
		if err := migration.Up(ctx, artifacts, deployer); err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{
				Stage:    StageFailed,
				Message:  migration.Label(),
				Metadata: FailedStep{Migration: migration.Label(), Contract: deployer.inFlight, Err: err},
			})
			return result, &domain.MigrationFailedErr{ID: migration.ID, Name: migration.Name, Err: err}
		}

		executed := &MigrationResult{
			Migration:   migration,
			Deployments: deployer.deployments,
			Duration:    time.Since(start),
		}
		result.Executed = append(result.Executed, executed)

		if params.DryRun {
			continue
		}

		record := &models.MigrationRecord{
			ID:          migration.ID,
			Name:        migration.Name,
			Namespace:   uc.config.Namespace,
			ChainID:     network.ChainID,
			Deployments: lo.Map(deployer.deployments, func(d *models.Deployment, _ int) string { return d.ID }),
			CompletedAt: time.Now().UTC(),
		}
		if err := uc.migrations.SaveMigration(ctx, record); err != nil {
			return result, fmt.Errorf("failed to record migration %s: %w", migration.Label(), err)
		}
		uc.log.Debug("migration completed", "migration", migration.Label(), "deployments", len(record.Deployments))
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	return result, nil
}

// plan splits the known migrations into the ones to run and the ones to skip
func (uc *RunMigrations) plan(ctx context.Context, params RunMigrationsParams) (pending, skipped []Migration, err error) {
	all, err := uc.source.Migrations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	sorted, err := SortMigrations(all)
	if err != nil {
		return nil, nil, err
	}

	completed := map[uint]bool{}
	if !params.Reset {
		records, err := uc.migrations.CompletedMigrations(ctx, uc.config.Namespace, uc.config.Network.ChainID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load migration history: %w", err)
		}
		completed = lo.SliceToMap(records, func(r *models.MigrationRecord) (uint, bool) { return r.ID, true })
	}

	for _, m := range sorted {
		if params.From > 0 && m.ID < params.From {
			continue
		}
		if params.To > 0 && m.ID > params.To {
			continue
		}
		if completed[m.ID] {
			skipped = append(skipped, m)
			continue
		}
		pending = append(pending, m)
	}
	return pending, skipped, nil
}
