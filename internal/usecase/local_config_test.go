package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
)

type memConfigStore struct {
	cfg *config.LocalConfig
}

func (m *memConfigStore) Exists() bool { return m.cfg != nil }

func (m *memConfigStore) Load(ctx context.Context) (*config.LocalConfig, error) {
	if m.cfg == nil {
		return config.DefaultLocalConfig(), nil
	}
	clone := *m.cfg
	return &clone, nil
}

func (m *memConfigStore) Save(ctx context.Context, cfg *config.LocalConfig) error {
	clone := *cfg
	m.cfg = &clone
	return nil
}

func (m *memConfigStore) GetPath() string { return ".migrate/config.local.json" }

func TestLocalConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("show without file", func(t *testing.T) {
		cfg := &config.RuntimeConfig{Namespace: "default", DataDir: "/p/.migrate", MigrationsDir: "/p/migrations"}
		result, err := NewShowConfig(cfg, &memConfigStore{}, newMemRegistry()).Run(ctx)
		require.NoError(t, err)
		assert.False(t, result.Exists)
		assert.Equal(t, "default", result.Config.Namespace)
		assert.Nil(t, result.Network)
		assert.Equal(t, "/p/.migrate", result.DataDir)
		assert.Equal(t, "/p/migrations", result.MigrationsDir)
		assert.Zero(t, result.Completed)
	})

	t.Run("show reports the resolved run", func(t *testing.T) {
		registry := newMemRegistry()
		registry.migrations = []*models.MigrationRecord{
			{ID: 1, Name: "deploy_contracts", Namespace: "prod", ChainID: 11155111},
			{ID: 1, Name: "deploy_contracts", Namespace: "staging", ChainID: 11155111},
		}
		store := &memConfigStore{cfg: &config.LocalConfig{Namespace: "staging", Network: "sepolia"}}
		// a flag overrode the stored namespace
		cfg := &config.RuntimeConfig{Namespace: "prod", Network: &config.Network{Name: "sepolia", ChainID: 11155111}}

		result, err := NewShowConfig(cfg, store, registry).Run(ctx)
		require.NoError(t, err)
		assert.True(t, result.Exists)
		assert.Equal(t, "staging", result.Config.Namespace)
		assert.Equal(t, "prod", result.Namespace)
		assert.Equal(t, uint64(11155111), result.Network.ChainID)
		assert.Equal(t, 1, result.Completed)
	})

	t.Run("set accepts ns alias", func(t *testing.T) {
		store := &memConfigStore{}
		result, err := NewSetConfig(store).Run(ctx, SetConfigParams{Key: "NS", Value: "staging"})
		require.NoError(t, err)
		assert.Equal(t, config.ConfigKeyNamespace, result.Key)
		assert.Equal(t, "staging", store.cfg.Namespace)

		_, err = NewSetConfig(store).Run(ctx, SetConfigParams{Key: "network", Value: "sepolia"})
		require.NoError(t, err)
		assert.Equal(t, &config.LocalConfig{Namespace: "staging", Network: "sepolia"}, store.cfg)
	})

	t.Run("set rejects unknown keys and empty values", func(t *testing.T) {
		_, err := NewSetConfig(&memConfigStore{}).Run(ctx, SetConfigParams{Key: "profile", Value: "x"})
		assert.ErrorContains(t, err, "unknown config key: profile")
		assert.ErrorContains(t, err, "namespace (ns), network")

		_, err = NewSetConfig(&memConfigStore{}).Run(ctx, SetConfigParams{Key: "network", Value: " "})
		assert.ErrorContains(t, err, "must not be empty")
	})

	t.Run("remove", func(t *testing.T) {
		store := &memConfigStore{cfg: &config.LocalConfig{Namespace: "staging", Network: "sepolia"}}

		result, err := NewRemoveConfig(store).Run(ctx, RemoveConfigParams{Key: "namespace"})
		require.NoError(t, err)
		assert.Equal(t, "staging", result.RemovedValue)
		assert.Equal(t, "default", store.cfg.Namespace)

		result, err = NewRemoveConfig(store).Run(ctx, RemoveConfigParams{Key: "network"})
		require.NoError(t, err)
		assert.Equal(t, "sepolia", result.RemovedValue)
		assert.Empty(t, store.cfg.Network)
	})

	t.Run("remove without file", func(t *testing.T) {
		_, err := NewRemoveConfig(&memConfigStore{}).Run(ctx, RemoveConfigParams{Key: "network"})
		assert.ErrorContains(t, err, "no config file found")
	})
}
