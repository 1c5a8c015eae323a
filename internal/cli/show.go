package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/simple-storage/internal/cli/render"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <deployment>",
		Short: "Show detailed deployment information from the registry",
		Long: `Show detailed information about a single deployment.

You can specify deployments using:
- Contract name: "SimpleStorage"
- Full deployment ID: "default/31337/SimpleStorage"
- Contract address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"

A contract name deployed on several chains needs --network, or is
picked interactively.`,
		Example: `  simple-storage show SimpleStorage -n anvil
  simple-storage show default/31337/Variables`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			deployment, err := app.ShowDeployment.Run(cmd.Context(), usecase.ShowDeploymentParams{Ref: args[0]})
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentRenderer(cmd.OutOrStdout(), app.Config.JSON)
			return renderer.Render(deployment)
		},
	}
}
