package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
)

// DeploymentRenderer renders detailed information about a single deployment
type DeploymentRenderer struct {
	out  io.Writer
	json bool
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer, json bool) *DeploymentRenderer {
	return &DeploymentRenderer{
		out:  out,
		json: json,
	}
}

// Render renders detailed deployment information
func (r *DeploymentRenderer) Render(deployment *models.Deployment) error {
	if r.json {
		return writeJSON(r.out, deployment)
	}

	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "Deployment: %s\n", deployment.ID)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	fmt.Fprintln(r.out, "\nBasic Information:")
	fmt.Fprintf(r.out, "  Contract: %s\n", color.New(color.FgYellow).Sprint(deployment.ContractName))
	fmt.Fprintf(r.out, "  Address: %s\n", deployment.Address)
	fmt.Fprintf(r.out, "  Namespace: %s\n", deployment.Namespace)
	if deployment.Network != "" {
		fmt.Fprintf(r.out, "  Network: %s (chain %d)\n", deployment.Network, deployment.ChainID)
	} else {
		fmt.Fprintf(r.out, "  Network: chain %d\n", deployment.ChainID)
	}
	fmt.Fprintf(r.out, "  Migration: #%d\n", deployment.MigrationID)

	fmt.Fprintln(r.out, "\nTransaction:")
	if deployment.Transaction.Hash != "" {
		fmt.Fprintf(r.out, "  Hash: %s\n", deployment.Transaction.Hash)
	}
	if deployment.Transaction.BlockNumber != 0 {
		fmt.Fprintf(r.out, "  Block: %d\n", deployment.Transaction.BlockNumber)
	}
	fmt.Fprintf(r.out, "  Gas Used: %d\n", deployment.Transaction.GasUsed)
	if deployment.Deployer != "" {
		fmt.Fprintf(r.out, "  Deployer: %s\n", deployment.Deployer)
	}

	if deployment.ArtifactPath != "" {
		fmt.Fprintln(r.out, "\nArtifact:")
		fmt.Fprintf(r.out, "  Path: %s\n", deployment.ArtifactPath)
	}

	fmt.Fprintf(r.out, "\nDeployed: %s\n", timestampStyle.Sprint(deployment.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	return nil
}

var _ Renderer[*models.Deployment] = (*DeploymentRenderer)(nil)
