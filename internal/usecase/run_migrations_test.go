package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
)

type runFixture struct {
	cfg       *config.RuntimeConfig
	artifacts *memArtifacts
	deployer  *fakeContractDeployer
	factory   *fakeDeployerFactory
	registry  *memRegistry
	confirmer *fakeConfirmer
	progress  ProgressSink
}

func newRunFixture(chainID uint64) *runFixture {
	deployer := &fakeContractDeployer{failOn: map[string]error{}}
	return &runFixture{
		cfg: &config.RuntimeConfig{
			Namespace: "default",
			Network:   &config.Network{Name: "anvil", ChainID: chainID, RPCURL: "http://localhost:8545"},
		},
		artifacts: newMemArtifacts("SimpleStorage", "Arraylength", "Variables", "Token"),
		deployer:  deployer,
		factory:   &fakeDeployerFactory{deployer: deployer},
		registry:  newMemRegistry(),
		confirmer: &fakeConfirmer{answer: true},
		progress:  NopProgress{},
	}
}

func (f *runFixture) useCase(migrations ...Migration) *RunMigrations {
	return NewRunMigrations(
		f.cfg,
		staticSource(migrations),
		f.artifacts,
		f.factory,
		f.registry,
		f.registry,
		f.confirmer,
		f.progress,
		discardLogger,
	)
}

func TestRunMigrations(t *testing.T) {
	ctx := context.Background()
	first := deployAll(1, "deploy_contracts", "SimpleStorage", "Arraylength", "Variables")
	second := deployAll(2, "deploy_token", "Token")

	t.Run("runs pending migrations and records them", func(t *testing.T) {
		f := newRunFixture(31337)

		result, err := f.useCase(second, first).Run(ctx, RunMigrationsParams{})
		require.NoError(t, err)

		require.Len(t, result.Executed, 2)
		assert.Equal(t, uint(1), result.Executed[0].Migration.ID)
		assert.Equal(t, uint(2), result.Executed[1].Migration.ID)
		assert.Equal(t, 4, result.TotalDeployments())
		assert.ElementsMatch(t, []string{"SimpleStorage", "Arraylength", "Variables", "Token"}, f.deployer.deployed)
		for _, args := range f.deployer.args {
			assert.Empty(t, args)
		}

		require.Len(t, f.registry.migrations, 2)
		assert.ElementsMatch(t, []string{
			"default/31337/SimpleStorage",
			"default/31337/Arraylength",
			"default/31337/Variables",
		}, f.registry.migrations[0].Deployments)
		assert.Len(t, f.registry.deployments, 4)
		assert.True(t, f.factory.closed)
		assert.Empty(t, f.confirmer.asked, "local chains should not prompt")
	})

	t.Run("skips completed migrations", func(t *testing.T) {
		f := newRunFixture(31337)
		uc := f.useCase(first, second)

		_, err := uc.Run(ctx, RunMigrationsParams{To: 1})
		require.NoError(t, err)

		result, err := uc.Run(ctx, RunMigrationsParams{})
		require.NoError(t, err)
		require.Len(t, result.Executed, 1)
		assert.Equal(t, uint(2), result.Executed[0].Migration.ID)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, uint(1), result.Skipped[0].ID)
	})

	t.Run("reset re-runs completed migrations", func(t *testing.T) {
		f := newRunFixture(31337)
		uc := f.useCase(first)

		_, err := uc.Run(ctx, RunMigrationsParams{})
		require.NoError(t, err)
		result, err := uc.Run(ctx, RunMigrationsParams{Reset: true})
		require.NoError(t, err)

		assert.Len(t, result.Executed, 1)
		assert.Len(t, f.deployer.deployed, 6)
		assert.Len(t, f.registry.migrations, 1)
	})

	t.Run("from and to bound the range", func(t *testing.T) {
		f := newRunFixture(31337)
		third := deployAll(3, "noop")

		result, err := f.useCase(first, second, third).Run(ctx, RunMigrationsParams{From: 2, To: 2})
		require.NoError(t, err)
		require.Len(t, result.Executed, 1)
		assert.Equal(t, "2_deploy_token", result.Executed[0].Migration.Label())
	})

	t.Run("failure halts the run and is not recorded", func(t *testing.T) {
		f := newRunFixture(31337)
		f.deployer.failOn["Arraylength"] = errBoom

		result, err := f.useCase(first, second).Run(ctx, RunMigrationsParams{})
		require.Error(t, err)
		assert.ErrorIs(t, err, errBoom)

		var failed *domain.MigrationFailedErr
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, uint(1), failed.ID)

		require.NotNil(t, result)
		assert.Empty(t, result.Executed)
		assert.Empty(t, f.registry.migrations)
		assert.NotContains(t, f.deployer.deployed, "Token")
	})

	t.Run("failure stops progress on the failing contract", func(t *testing.T) {
		f := newRunFixture(31337)
		f.deployer.failOn["Arraylength"] = errBoom
		sink := &recordingSink{}
		f.progress = sink

		_, err := f.useCase(first).Run(ctx, RunMigrationsParams{})
		require.Error(t, err)

		last := sink.last()
		assert.Equal(t, StageFailed, last.Stage)
		assert.False(t, last.Spinner)
		step, ok := last.Metadata.(FailedStep)
		require.True(t, ok)
		assert.Equal(t, "1_deploy_contracts", step.Migration)
		assert.Equal(t, "Arraylength", step.Contract)
		assert.ErrorIs(t, step.Err, errBoom)
		assert.NotContains(t, sink.stages(), StageCompleted)
	})

	t.Run("failure before any deploy names no contract", func(t *testing.T) {
		f := newRunFixture(31337)
		delete(f.artifacts.artifacts, "Variables")
		sink := &recordingSink{}
		f.progress = sink

		_, err := f.useCase(first).Run(ctx, RunMigrationsParams{})
		require.Error(t, err)

		step, ok := sink.last().Metadata.(FailedStep)
		require.True(t, ok)
		assert.Empty(t, step.Contract)
		assert.ErrorIs(t, step.Err, domain.ErrArtifactNotFound)
	})

	t.Run("successful run ends with completed", func(t *testing.T) {
		f := newRunFixture(31337)
		sink := &recordingSink{}
		f.progress = sink

		_, err := f.useCase(first).Run(ctx, RunMigrationsParams{})
		require.NoError(t, err)
		assert.Equal(t, StageCompleted, sink.last().Stage)
		assert.NotContains(t, sink.stages(), StageFailed)
	})

	t.Run("missing artifact aborts the migration", func(t *testing.T) {
		f := newRunFixture(31337)
		delete(f.artifacts.artifacts, "Variables")

		_, err := f.useCase(first).Run(ctx, RunMigrationsParams{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
		assert.Empty(t, f.registry.migrations)
	})

	t.Run("dry run records nothing", func(t *testing.T) {
		f := newRunFixture(1)

		result, err := f.useCase(first).Run(ctx, RunMigrationsParams{DryRun: true})
		require.NoError(t, err)

		require.NotNil(t, f.factory.dryRun)
		assert.True(t, *f.factory.dryRun)
		assert.Equal(t, 3, result.TotalDeployments())
		for _, d := range result.Executed[0].Deployments {
			assert.True(t, d.DryRun)
		}
		assert.Empty(t, f.registry.deployments)
		assert.Empty(t, f.registry.migrations)
		assert.Empty(t, f.confirmer.asked, "dry runs should not prompt")
	})

	t.Run("remote network asks for confirmation", func(t *testing.T) {
		f := newRunFixture(11155111)
		f.confirmer.answer = false

		_, err := f.useCase(first).Run(ctx, RunMigrationsParams{})
		assert.ErrorIs(t, err, domain.ErrAborted)
		assert.Len(t, f.confirmer.asked, 1)
		assert.Empty(t, f.deployer.deployed)
	})

	t.Run("non-interactive skips confirmation", func(t *testing.T) {
		f := newRunFixture(11155111)
		f.cfg.NonInteractive = true
		f.confirmer.answer = false

		_, err := f.useCase(first).Run(ctx, RunMigrationsParams{})
		require.NoError(t, err)
		assert.Empty(t, f.confirmer.asked)
	})

	t.Run("requires a network", func(t *testing.T) {
		f := newRunFixture(31337)
		f.cfg.Network = nil

		_, err := f.useCase(first).Run(ctx, RunMigrationsParams{})
		assert.ErrorIs(t, err, domain.ErrNetworkNotConfigured)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		f := newRunFixture(31337)

		_, err := f.useCase(first, deployAll(1, "other")).Run(ctx, RunMigrationsParams{})
		assert.ErrorIs(t, err, domain.ErrDuplicateMigration)
	})

	t.Run("nothing pending does not connect", func(t *testing.T) {
		f := newRunFixture(31337)
		f.factory.err = errBoom

		result, err := f.useCase().Run(ctx, RunMigrationsParams{})
		require.NoError(t, err)
		assert.Empty(t, result.Executed)
	})
}
