package usecase

import (
	"context"

	"github.com/trebuchet-org/simple-storage/internal/domain/config"
)

// ListNetworksResult lists the configured networks as seen from one namespace
type ListNetworksResult struct {
	Namespace string
	Networks  []NetworkStatus
}

// NetworkStatus is one foundry.toml endpoint. Error is set when its chain ID
// could not be fetched; the other fields are then zero.
type NetworkStatus struct {
	Name      string
	ChainID   uint64
	Error     error
	Selected  bool // the network this run targets
	Local     bool // a dev chain, migrated without confirmation
	Completed int  // migrations recorded for the namespace on this chain
}

// ListNetworks lists every network migrations can target
type ListNetworks struct {
	config     *config.RuntimeConfig
	resolver   NetworkResolver
	migrations MigrationRepository
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver, migrations MigrationRepository) *ListNetworks {
	return &ListNetworks{
		config:     cfg,
		resolver:   resolver,
		migrations: migrations,
	}
}

// Run resolves each network and counts its completed migrations. An
// unreachable network is reported, not returned as an error.
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	names := uc.resolver.GetNetworks(ctx)
	result := &ListNetworksResult{
		Namespace: uc.config.Namespace,
		Networks:  make([]NetworkStatus, 0, len(names)),
	}

	for _, name := range names {
		status := NetworkStatus{
			Name:     name,
			Selected: uc.config.Network != nil && uc.config.Network.Name == name,
		}

		network, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
			result.Networks = append(result.Networks, status)
			continue
		}
		status.ChainID = network.ChainID
		status.Local = network.IsLocal()

		records, err := uc.migrations.CompletedMigrations(ctx, uc.config.Namespace, network.ChainID)
		if err != nil {
			return nil, err
		}
		status.Completed = len(records)

		result.Networks = append(result.Networks, status)
	}

	return result, nil
}
