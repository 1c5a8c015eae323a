package manifest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
	"github.com/trebuchet-org/simple-storage/internal/migrations"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newSource(t *testing.T, files map[string]string) *Source {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, DefaultDir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return NewSource(&config.RuntimeConfig{ProjectRoot: root}, migrations.NewBuiltin(), testLogger)
}

type recordingDeployer struct {
	deployed []string
}

func (r *recordingDeployer) Deploy(ctx context.Context, artifact *models.Artifact, args ...any) (*models.Deployment, error) {
	r.deployed = append(r.deployed, artifact.Name)
	return &models.Deployment{ContractName: artifact.Name}, nil
}

type namedArtifacts struct{}

func (namedArtifacts) Require(ctx context.Context, name string) (*models.Artifact, error) {
	return &models.Artifact{Name: name}, nil
}

func TestSource_Migrations(t *testing.T) {
	ctx := context.Background()

	t.Run("merges builtin and manifests", func(t *testing.T) {
		src := newSource(t, map[string]string{
			"3_faucet.yml":          "contracts: [Faucet]\n",
			"2_deploy_token.yaml":   "contracts:\n  - Token\n  - TokenVault\n",
			"README.md":             "# not a migration",
			"1_deploy_contracts.js": "module.exports = function (deployer) {}",
		})

		all, err := src.Migrations(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "1_deploy_contracts", all[0].Label())
		assert.Equal(t, "builtin", all[0].Source)
		assert.Equal(t, "2_deploy_token", all[1].Label())
		assert.Equal(t, "3_faucet", all[2].Label())

		deployer := &recordingDeployer{}
		require.NoError(t, all[1].Up(ctx, namedArtifacts{}, deployer))
		assert.Equal(t, []string{"Token", "TokenVault"}, deployer.deployed)
	})

	t.Run("explicit name wins over file name", func(t *testing.T) {
		src := newSource(t, map[string]string{
			"4_x.yaml": "name: vaults\ncontracts: [Vault]\n",
		})

		loaded, err := src.Load()
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "4_vaults", loaded[0].Label())
	})

	t.Run("missing directory", func(t *testing.T) {
		src := NewSource(&config.RuntimeConfig{ProjectRoot: t.TempDir()}, nil, testLogger)

		all, err := src.Migrations(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("empty manifest is an error", func(t *testing.T) {
		src := newSource(t, map[string]string{"2_empty.yaml": "contracts: []\n"})

		_, err := src.Load()
		assert.ErrorContains(t, err, "lists no contracts")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		src := newSource(t, map[string]string{"2_bad.yaml": "contracts: [Token\n"})

		_, err := src.Load()
		assert.ErrorContains(t, err, "failed to parse YAML")
	})
}
