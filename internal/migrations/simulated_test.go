package migrations_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/simple-storage/internal/adapters/artifacts"
	"github.com/trebuchet-org/simple-storage/internal/adapters/blockchain"
	"github.com/trebuchet-org/simple-storage/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/simple-storage/internal/adapters/senders"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
	"github.com/trebuchet-org/simple-storage/internal/migrations"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// returns a single STOP opcode as runtime code
const stopContract = `{"abi": [], "bytecode": {"object": "0x6001600c60003960016000f300"}}`

type deployCall struct {
	contract string
	args     int
}

// recordingFactory wraps a factory and records every deploy it forwards
type recordingFactory struct {
	inner usecase.ContractDeployerFactory

	mu    sync.Mutex
	calls []deployCall
}

func (f *recordingFactory) NewDeployer(ctx context.Context, network *config.Network, dryRun bool) (usecase.ContractDeployer, func(), error) {
	deployer, closeFn, err := f.inner.NewDeployer(ctx, network, dryRun)
	if err != nil {
		return nil, nil, err
	}
	return &recordingDeployer{inner: deployer, factory: f}, closeFn, nil
}

type recordingDeployer struct {
	inner   usecase.ContractDeployer
	factory *recordingFactory
}

func (d *recordingDeployer) DeployContract(ctx context.Context, artifact *models.Artifact, args ...any) (*models.DeployReceipt, error) {
	d.factory.mu.Lock()
	d.factory.calls = append(d.factory.calls, deployCall{contract: artifact.Name, args: len(args)})
	d.factory.mu.Unlock()
	return d.inner.DeployContract(ctx, artifact, args...)
}

type refuseConfirm struct{ t *testing.T }

func (c refuseConfirm) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.t.Errorf("unexpected confirmation prompt: %s", prompt)
	return false, nil
}

func TestDeployContractsOnSimulatedChain(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	balance, _ := new(big.Int).SetString("100000000000000000000", 10)
	backend := simulated.NewBackend(types.GenesisAlloc{from: {Balance: balance}})
	t.Cleanup(func() { _ = backend.Close() })
	client := backend.Client()

	chainID, err := client.ChainID(ctx)
	require.NoError(t, err)

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				backend.Commit()
			}
		}
	}()
	t.Cleanup(func() {
		close(done)
		<-stopped
	})

	root := t.TempDir()
	for _, name := range []string{"SimpleStorage", "Arraylength", "Variables"} {
		path := filepath.Join(root, "out", name+".sol", name+".json")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(stopContract), 0644))
	}

	network := &config.Network{Name: "simulated", ChainID: chainID.Uint64()}
	cfg := &config.RuntimeConfig{
		ProjectRoot: root,
		Namespace:   "default",
		Network:     network,
		DeployConfig: &config.DeployConfig{Senders: map[string]config.SenderConfig{
			"deployer": {Type: config.SenderTypePrivateKey, PrivateKey: common.Bytes2Hex(crypto.FromECDSA(key))},
		}},
	}

	dial := func(ctx context.Context, n *config.Network) (blockchain.Backend, func(), error) {
		return client, func() {}, nil
	}
	factory := &recordingFactory{
		inner: blockchain.NewFactoryWithDialer(senders.NewManager(cfg), dial, log),
	}

	registry, err := deployments.NewFileRepositoryAt(filepath.Join(root, ".migrate"))
	require.NoError(t, err)

	run := usecase.NewRunMigrations(
		cfg,
		migrations.NewBuiltin(),
		artifacts.NewRepository(cfg, log),
		factory,
		registry,
		registry,
		refuseConfirm{t},
		usecase.NopProgress{},
		log,
	)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := run.Run(ctx, usecase.RunMigrationsParams{})
	require.NoError(t, err)
	require.Len(t, result.Executed, 1)
	assert.Equal(t, "1_deploy_contracts", result.Executed[0].Migration.Label())

	assert.Equal(t, []deployCall{
		{contract: "SimpleStorage"},
		{contract: "Arraylength"},
		{contract: "Variables"},
	}, factory.calls)

	deployed := result.Executed[0].Deployments
	require.Len(t, deployed, 3)
	for i, d := range deployed {
		assert.Equal(t, crypto.CreateAddress(from, uint64(i)).Hex(), d.Address, d.ContractName)
		code, err := client.CodeAt(ctx, common.HexToAddress(d.Address), nil)
		require.NoError(t, err)
		assert.NotEmpty(t, code, d.ContractName)
	}

	records, err := registry.CompletedMigrations(ctx, "default", chainID.Uint64())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint(1), records[0].ID)
	assert.Len(t, records[0].Deployments, 3)

	again, err := run.Run(ctx, usecase.RunMigrationsParams{})
	require.NoError(t, err)
	assert.Empty(t, again.Executed)
	assert.Len(t, again.Skipped, 1)
	assert.Len(t, factory.calls, 3)
}
