package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/simple-storage/internal/domain"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
)

// ShowDeploymentParams contains parameters for showing a deployment
type ShowDeploymentParams struct {
	// Ref is a deployment ID (namespace/chain/Contract), a contract name
	// in the current namespace and network, or an address
	Ref string
}

// ShowDeployment is the use case for showing deployment details
type ShowDeployment struct {
	config   *config.RuntimeConfig
	repo     DeploymentRepository
	selector DeploymentSelector
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(cfg *config.RuntimeConfig, repo DeploymentRepository, selector DeploymentSelector) *ShowDeployment {
	return &ShowDeployment{
		config:   cfg,
		repo:     repo,
		selector: selector,
	}
}

// Run resolves the reference to a single deployment
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*models.Deployment, error) {
	ref := strings.TrimSpace(params.Ref)
	if ref == "" {
		return nil, fmt.Errorf("deployment reference is required")
	}

	switch {
	case common.IsHexAddress(ref):
		if uc.config.Network == nil {
			return nil, fmt.Errorf("%w: address lookups need --network", domain.ErrNetworkNotConfigured)
		}
		return uc.repo.GetDeploymentByAddress(ctx, uc.config.Network.ChainID, ref)

	case strings.Count(ref, "/") == 2:
		return uc.repo.GetDeployment(ctx, ref)

	default:
		if uc.config.Network == nil {
			return uc.findByName(ctx, ref)
		}
		return uc.repo.GetDeployment(ctx, models.DeploymentID(uc.config.Namespace, uc.config.Network.ChainID, ref))
	}
}

// findByName looks a contract up across chains when no network is selected
func (uc *ShowDeployment) findByName(ctx context.Context, name string) (*models.Deployment, error) {
	matches, err := uc.repo.ListDeployments(ctx, domain.DeploymentFilter{
		Namespace:    uc.config.Namespace,
		ContractName: name,
	})
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("deployment %s: %w", name, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		if !uc.config.NonInteractive && uc.selector != nil {
			return uc.selector.SelectDeployment(ctx, matches, fmt.Sprintf("%s is deployed on several chains", name))
		}
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, fmt.Errorf("%s is deployed on several chains, use --network or one of: %s",
			name, strings.Join(ids, ", "))
	}
}
