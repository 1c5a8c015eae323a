package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/simple-storage/internal/adapters/artifacts"
	"github.com/trebuchet-org/simple-storage/internal/adapters/blockchain"
	internalconfig "github.com/trebuchet-org/simple-storage/internal/adapters/config"
	"github.com/trebuchet-org/simple-storage/internal/adapters/fs"
	"github.com/trebuchet-org/simple-storage/internal/adapters/interactive"
	"github.com/trebuchet-org/simple-storage/internal/adapters/manifest"
	"github.com/trebuchet-org/simple-storage/internal/adapters/progress"
	"github.com/trebuchet-org/simple-storage/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/simple-storage/internal/adapters/senders"
	"github.com/trebuchet-org/simple-storage/internal/config"
	domainconfig "github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/migrations"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// ProvideMigrationSource combines the compiled-in migrations with the project's manifests
func ProvideMigrationSource(cfg *domainconfig.RuntimeConfig, log *slog.Logger) *manifest.Source {
	return manifest.NewSource(cfg, migrations.NewBuiltin(), log)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	deployments.NewFileRepository,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),
	wire.Bind(new(usecase.MigrationRepository), new(*deployments.FileRepository)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),
)

// ArtifactSet provides compiled contract lookups
var ArtifactSet = wire.NewSet(
	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),
)

// MigrationSet provides the migrations known to the project
var MigrationSet = wire.NewSet(
	ProvideMigrationSource,
	wire.Bind(new(usecase.MigrationSource), new(*manifest.Source)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),

	interactive.NewConfirmAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// BlockchainSet provides the chain-facing implementations
var BlockchainSet = wire.NewSet(
	senders.NewManager,
	blockchain.NewFactory,
	wire.Bind(new(usecase.ContractDeployerFactory), new(*blockchain.Factory)),
)

// ProgressSet provides progress reporting
var ProgressSet = wire.NewSet(
	progress.ProvideSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ArtifactSet,
	MigrationSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
	ProgressSet,
)
