package usecase

import (
	"context"

	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
)

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	GetArtifact(ctx context.Context, name string) (*models.Artifact, error)
}

// ContractDeployer submits contract creation transactions to a network
type ContractDeployer interface {
	DeployContract(ctx context.Context, artifact *models.Artifact, args ...any) (*models.DeployReceipt, error)
}

// ContractDeployerFactory opens a deployer for the resolved network.
// Dry runs get a deployer that only simulates.
type ContractDeployerFactory interface {
	NewDeployer(ctx context.Context, network *config.Network, dryRun bool) (ContractDeployer, func(), error)
}

// DeploymentRepository handles persistence of deployments
type DeploymentRepository interface {
	GetDeployment(ctx context.Context, id string) (*models.Deployment, error)
	GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error)
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
}

// MigrationRepository tracks which migrations have been applied
type MigrationRepository interface {
	CompletedMigrations(ctx context.Context, namespace string, chainID uint64) ([]*models.MigrationRecord, error)
	SaveMigration(ctx context.Context, record *models.MigrationRecord) error
}

// MigrationSource provides the migrations known to the project
type MigrationSource interface {
	Migrations(ctx context.Context) ([]Migration, error)
}

// NetworkResolver resolves network names to configurations
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*config.Network, error)
}

// Confirmer asks the user to approve an action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// DeploymentSelector lets the user pick one of several deployments
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error)
}

// LocalConfigStore persists the per-checkout defaults
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, cfg *config.LocalConfig) error
	GetPath() string
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}

// Progress stages emitted while migrating
const (
	StageMigrating = "migrating"
	StageDeploying = "deploying"
	StageDeployed  = "deployed"
	StageFailed    = "failed"
	StageCompleted = "completed"
)

// FailedStep describes where a migration stopped. It is the Metadata of a
// StageFailed event; Contract is empty when no deploy was in flight.
type FailedStep struct {
	Migration string
	Contract  string
	Err       error
}
