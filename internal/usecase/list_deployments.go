package usecase

import (
	"context"
	"sort"

	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// Namespace defaults to the runtime namespace; chain defaults to the
	// selected network when there is one
	ContractName string
	ChainID      uint64
	AllChains    bool
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment
	Summary     DeploymentSummary
}

// DeploymentSummary provides summary statistics
type DeploymentSummary struct {
	Total       int
	ByChain     map[uint64]int
	ByMigration map[uint]int
}

// ListDeployments is the use case for listing deployments
type ListDeployments struct {
	config *config.RuntimeConfig
	repo   DeploymentRepository
	sink   ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, repo DeploymentRepository, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config: cfg,
		repo:   repo,
		sink:   sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	filter := domain.DeploymentFilter{
		Namespace:    uc.config.Namespace,
		ContractName: params.ContractName,
		ChainID:      params.ChainID,
	}
	if filter.ChainID == 0 && !params.AllChains && uc.config.Network != nil {
		filter.ChainID = uc.config.Network.ChainID
	}

	deployments, err := uc.repo.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}
	sortDeployments(deployments)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(deployments),
		Total:   len(deployments),
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

// sortDeployments sorts deployments by chain, migration and contract name
func sortDeployments(deployments []*models.Deployment) {
	sort.Slice(deployments, func(i, j int) bool {
		if deployments[i].ChainID != deployments[j].ChainID {
			return deployments[i].ChainID < deployments[j].ChainID
		}
		if deployments[i].MigrationID != deployments[j].MigrationID {
			return deployments[i].MigrationID < deployments[j].MigrationID
		}
		return deployments[i].ContractName < deployments[j].ContractName
	})
}

func calculateSummary(deployments []*models.Deployment) DeploymentSummary {
	summary := DeploymentSummary{
		Total:       len(deployments),
		ByChain:     make(map[uint64]int),
		ByMigration: make(map[uint]int),
	}
	for _, dep := range deployments {
		summary.ByChain[dep.ChainID]++
		summary.ByMigration[dep.MigrationID]++
	}
	return summary
}
