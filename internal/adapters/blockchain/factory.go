package blockchain

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/simple-storage/internal/adapters/senders"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// DialFunc opens a backend for a network and returns a function that closes it
type DialFunc func(ctx context.Context, network *config.Network) (Backend, func(), error)

// Factory builds contract deployers for a network using the namespace's deployer sender
type Factory struct {
	senders *senders.Manager
	dial    DialFunc
	log     *slog.Logger
}

// NewFactory creates a deployer factory that dials networks over JSON-RPC
func NewFactory(senders *senders.Manager, log *slog.Logger) *Factory {
	return &Factory{
		senders: senders,
		dial:    dialNetwork,
		log:     log,
	}
}

// NewFactoryWithDialer creates a deployer factory using a custom dialer
func NewFactoryWithDialer(senders *senders.Manager, dial DialFunc, log *slog.Logger) *Factory {
	return &Factory{
		senders: senders,
		dial:    dial,
		log:     log,
	}
}

// NewDeployer connects to the network and returns a deployer for it.
// Dry runs only need the sender's address.
func (f *Factory) NewDeployer(ctx context.Context, network *config.Network, dryRun bool) (usecase.ContractDeployer, func(), error) {
	if dryRun {
		from, err := f.senders.DeployerAddress()
		if err != nil {
			return nil, nil, err
		}
		backend, closeFn, err := f.dial(ctx, network)
		if err != nil {
			return nil, nil, err
		}
		f.log.Debug("connected", "network", network.Name, "chain_id", network.ChainID, "deployer", from.Hex(), "dry_run", true)
		return NewDryRunDeployer(backend, from, f.log), closeFn, nil
	}

	key, err := f.senders.DeployerKey()
	if err != nil {
		return nil, nil, err
	}
	backend, closeFn, err := f.dial(ctx, network)
	if err != nil {
		return nil, nil, err
	}
	f.log.Debug("connected", "network", network.Name, "chain_id", network.ChainID, "deployer", crypto.PubkeyToAddress(key.PublicKey).Hex())
	return NewEVMDeployer(backend, key, network.ChainID, f.log), closeFn, nil
}

func dialNetwork(ctx context.Context, network *config.Network) (Backend, func(), error) {
	client, err := Dial(ctx, network.RPCURL, network.ChainID)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

var _ usecase.ContractDeployerFactory = (*Factory)(nil)
