package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
)

const ownableABI = `[{"type":"constructor","inputs":[{"name":"owner","type":"address"}],"stateMutability":"nonpayable"}]`

func newTestDeployer() (*migrationDeployer, *fakeContractDeployer, *memRegistry) {
	contracts := &fakeContractDeployer{failOn: map[string]error{}}
	registry := newMemRegistry()
	return &migrationDeployer{
		migration: Migration{ID: 7, Name: "test"},
		namespace: "staging",
		network:   &config.Network{Name: "sepolia", ChainID: 11155111},
		contracts: contracts,
		repo:      registry,
		progress:  NopProgress{},
		log:       discardLogger,
	}, contracts, registry
}

func TestMigrationDeployer(t *testing.T) {
	ctx := context.Background()

	t.Run("records the deployment", func(t *testing.T) {
		d, contracts, registry := newTestDeployer()
		artifact := &models.Artifact{Name: "SimpleStorage", ABI: []byte(`[]`), Bytecode: models.Bytecode{Object: "0x6080"}}

		dep, err := d.Deploy(ctx, artifact)
		require.NoError(t, err)

		assert.Equal(t, "staging/11155111/SimpleStorage", dep.ID)
		assert.Equal(t, uint(7), dep.MigrationID)
		assert.Equal(t, "sepolia", dep.Network)
		assert.Equal(t, contracts.deployed, []string{"SimpleStorage"})
		assert.Same(t, dep, registry.deployments[dep.ID])
		assert.Len(t, d.deployments, 1)
	})

	t.Run("constructor args must match the ABI", func(t *testing.T) {
		d, contracts, _ := newTestDeployer()
		artifact := &models.Artifact{Name: "Ownable", ABI: []byte(ownableABI), Bytecode: models.Bytecode{Object: "0x6080"}}

		_, err := d.Deploy(ctx, artifact)
		assert.ErrorIs(t, err, domain.ErrConstructorArgs)
		assert.Empty(t, contracts.deployed)

		_, err = d.Deploy(ctx, artifact, "0x0000000000000000000000000000000000000001")
		assert.NoError(t, err)
	})

	t.Run("extra args for an argument-less constructor", func(t *testing.T) {
		d, _, _ := newTestDeployer()
		artifact := &models.Artifact{Name: "Variables", ABI: []byte(`[]`), Bytecode: models.Bytecode{Object: "0x6080"}}

		_, err := d.Deploy(ctx, artifact, 1)
		assert.ErrorIs(t, err, domain.ErrConstructorArgs)
	})

	t.Run("rejects artifacts without bytecode", func(t *testing.T) {
		d, _, _ := newTestDeployer()

		_, err := d.Deploy(ctx, &models.Artifact{Name: "IERC20", ABI: []byte(`[]`)})
		assert.ErrorIs(t, err, domain.ErrNoBytecode)
	})

	t.Run("rejects unlinked bytecode", func(t *testing.T) {
		d, _, _ := newTestDeployer()
		artifact := &models.Artifact{
			Name:     "UsesLib",
			Bytecode: models.Bytecode{Object: "0x73__$fc3a8d6bb0b2b2ac4a8a26b5f0f9e1c8d0$__6080"},
		}

		_, err := d.Deploy(ctx, artifact)
		assert.ErrorIs(t, err, domain.ErrUnlinkedBytecode)
	})

	t.Run("wraps deployer errors", func(t *testing.T) {
		d, contracts, registry := newTestDeployer()
		contracts.failOn["SimpleStorage"] = errBoom

		_, err := d.Deploy(ctx, &models.Artifact{Name: "SimpleStorage", Bytecode: models.Bytecode{Object: "6080"}})
		assert.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "failed to deploy SimpleStorage")
		assert.Empty(t, registry.deployments)
	})
}

func TestSortMigrations(t *testing.T) {
	sorted, err := SortMigrations([]Migration{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1_a", "2_b", "3_c"}, []string{sorted[0].Label(), sorted[1].Label(), sorted[2].Label()})

	_, err = SortMigrations([]Migration{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}})
	assert.ErrorIs(t, err, domain.ErrDuplicateMigration)
}
