package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/simple-storage/internal/cli/render"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		params usecase.ListDeploymentsParams
		format string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deployments from the registry",
		Long: `List deployments recorded in .migrate/deployments.json for the current
namespace. When a network is selected only its chain is shown unless --all
or --chain is given.`,
		Example: `  # List deployments on the selected network
  simple-storage list -n anvil

  # Only SimpleStorage, across every chain
  simple-storage list --contract SimpleStorage --all

  # YAML output
  simple-storage list --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			if app.Config.JSON {
				f = render.FormatJSON
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout(), f)
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVar(&params.ContractName, "contract", "", "Filter by contract name")
	cmd.Flags().Uint64Var(&params.ChainID, "chain", 0, "Filter by chain ID")
	cmd.Flags().BoolVar(&params.AllChains, "all", false, "Show every chain, not only the selected network")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")

	return cmd
}
