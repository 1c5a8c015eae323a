package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
)

// migrationDeployer is the Deployer a single migration sees. It checks the
// artifact, delegates the transaction to the ContractDeployer and records
// the resulting deployment.
type migrationDeployer struct {
	migration Migration
	namespace string
	network   *config.Network
	dryRun    bool

	contracts   ContractDeployer
	repo        DeploymentRepository
	progress    ProgressSink
	log         *slog.Logger
	deployments []*models.Deployment

	// contract whose transaction is pending, cleared once it is recorded
	inFlight string
}

// Deploy creates one instance of the artifact's contract
func (d *migrationDeployer) Deploy(ctx context.Context, artifact *models.Artifact, args ...any) (*models.Deployment, error) {
	if artifact == nil {
		return nil, fmt.Errorf("%w: nil artifact", domain.ErrArtifactNotFound)
	}
	if !artifact.HasBytecode() {
		return nil, fmt.Errorf("%w: %s is abstract or an interface", domain.ErrNoBytecode, artifact.Name)
	}
	if artifact.Bytecode.NeedsLinking() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnlinkedBytecode, artifact.Name)
	}
	if err := checkConstructorArgs(artifact, args); err != nil {
		return nil, err
	}

	d.inFlight = artifact.Name
	d.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageDeploying,
		Message:  fmt.Sprintf("Deploying %s", artifact.Name),
		Spinner:  true,
		Metadata: artifact.Name,
	})
	d.log.Debug("deploying contract",
		"contract", artifact.Name,
		"migration", d.migration.Label(),
		"args", len(args),
		"dry_run", d.dryRun)

	receipt, err := d.contracts.DeployContract(ctx, artifact, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", artifact.Name, err)
	}

	deployment := &models.Deployment{
		ID:           models.DeploymentID(d.namespace, d.network.ChainID, artifact.Name),
		MigrationID:  d.migration.ID,
		ContractName: artifact.Name,
		Address:      receipt.Address,
		Namespace:    d.namespace,
		ChainID:      d.network.ChainID,
		Network:      d.network.Name,
		Deployer:     receipt.Deployer,
		ArtifactPath: artifact.ArtifactPath,
		Transaction: models.TxInfo{
			Hash:        receipt.TxHash,
			BlockNumber: receipt.BlockNumber,
			GasUsed:     receipt.GasUsed,
		},
		DryRun:    d.dryRun || receipt.Simulated,
		CreatedAt: time.Now().UTC(),
	}

	if !deployment.DryRun {
		if err := d.repo.SaveDeployment(ctx, deployment); err != nil {
			return nil, fmt.Errorf("failed to record deployment of %s: %w", artifact.Name, err)
		}
	}

	d.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageDeployed,
		Message:  fmt.Sprintf("%s deployed at %s", artifact.Name, deployment.Address),
		Metadata: deployment,
	})
	d.deployments = append(d.deployments, deployment)
	d.inFlight = ""

	return deployment, nil
}

// checkConstructorArgs compares the argument count with the ABI constructor
func checkConstructorArgs(artifact *models.Artifact, args []any) error {
	if len(artifact.ABI) == 0 {
		if len(args) > 0 {
			return fmt.Errorf("%w: %s has no ABI but %d arguments were given",
				domain.ErrConstructorArgs, artifact.Name, len(args))
		}
		return nil
	}

	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return fmt.Errorf("failed to parse ABI of %s: %w", artifact.Name, err)
	}

	if want := len(parsed.Constructor.Inputs); want != len(args) {
		return fmt.Errorf("%w: %s expects %d arguments, got %d",
			domain.ErrConstructorArgs, artifact.Name, want, len(args))
	}
	return nil
}
