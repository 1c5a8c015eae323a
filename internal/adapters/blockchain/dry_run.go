package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// SimulationBackend is what a dry run needs from the node
type SimulationBackend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
}

// DryRunDeployer predicts deployment addresses and gas without sending
// anything. Each call advances a local nonce so consecutive deployments get
// the addresses they would have on a real run.
type DryRunDeployer struct {
	backend SimulationBackend
	from    common.Address
	log     *slog.Logger

	mu     sync.Mutex
	nonce  uint64
	loaded bool
}

// NewDryRunDeployer creates a simulating deployer for the given sender
func NewDryRunDeployer(backend SimulationBackend, from common.Address, log *slog.Logger) *DryRunDeployer {
	return &DryRunDeployer{
		backend: backend,
		from:    from,
		log:     log,
	}
}

// DeployContract estimates the creation transaction
func (d *DryRunDeployer) DeployContract(ctx context.Context, artifact *models.Artifact, args ...any) (*models.DeployReceipt, error) {
	parsed, bytecode, err := decodeArtifact(artifact)
	if err != nil {
		return nil, err
	}

	input, err := parsed.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}
	data := append(bytecode, input...)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.loaded {
		nonce, err := d.backend.PendingNonceAt(ctx, d.from)
		if err != nil {
			return nil, fmt.Errorf("failed to get nonce of %s: %w", d.from.Hex(), err)
		}
		d.nonce = nonce
		d.loaded = true
	}

	gas, err := d.backend.EstimateGas(ctx, ethereum.CallMsg{From: d.from, Data: data})
	if err != nil {
		return nil, fmt.Errorf("creation of %s would fail: %w", artifact.Name, err)
	}

	address := crypto.CreateAddress(d.from, d.nonce)
	d.log.Debug("simulated deployment", "contract", artifact.Name, "nonce", d.nonce, "address", address.Hex(), "gas", gas)
	d.nonce++

	return &models.DeployReceipt{
		Address:   address.Hex(),
		GasUsed:   gas,
		Deployer:  d.from.Hex(),
		Simulated: true,
	}, nil
}

var _ usecase.ContractDeployer = (*DryRunDeployer)(nil)
