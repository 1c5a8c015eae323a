package migrations

import (
	"context"

	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// Contract names of the artifacts deployed by DeployContracts
const (
	SimpleStorage = "SimpleStorage"
	Arraylength   = "Arraylength"
	Variables     = "Variables"
)

// DeployContracts deploys SimpleStorage, Arraylength and Variables. The three
// contracts are independent: none takes constructor arguments and none needs
// another's address. Errors are returned as-is; the runner reports them.
func DeployContracts(ctx context.Context, artifacts usecase.Artifacts, deployer usecase.Deployer) error {
	simpleStorage, err := artifacts.Require(ctx, SimpleStorage)
	if err != nil {
		return err
	}
	arraylength, err := artifacts.Require(ctx, Arraylength)
	if err != nil {
		return err
	}
	variables, err := artifacts.Require(ctx, Variables)
	if err != nil {
		return err
	}

	if _, err := deployer.Deploy(ctx, simpleStorage); err != nil {
		return err
	}
	if _, err := deployer.Deploy(ctx, arraylength); err != nil {
		return err
	}
	if _, err := deployer.Deploy(ctx, variables); err != nil {
		return err
	}
	return nil
}
