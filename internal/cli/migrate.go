package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/simple-storage/internal/cli/render"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd() *cobra.Command {
	var params usecase.RunMigrationsParams

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run pending migrations",
		Long: `Run pending migrations in ID order against the selected network.

Built-in migrations are combined with numbered manifests from the
migrations/ directory (e.g. migrations/2_tokens.yaml). Migrations that
already completed in this namespace and chain are skipped unless --reset
is given. A failing migration stops the run and is not recorded.`,
		Example: `  # Deploy everything pending on anvil
  simple-storage migrate -n anvil

  # Simulate without sending transactions
  simple-storage migrate -n sepolia --dry-run

  # Re-run migrations 2 through 3
  simple-storage migrate -n anvil --reset --from 2 --to 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if params.From > 0 && params.To > 0 && params.From > params.To {
				return fmt.Errorf("--from (%d) is greater than --to (%d)", params.From, params.To)
			}

			result, err := app.RunMigrations.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewMigrateRenderer(cmd.OutOrStdout(), app.Config.JSON)
			return renderer.Render(result)
		},
	}

	cmd.Flags().BoolVar(&params.DryRun, "dry-run", false, "Simulate deployments without sending transactions")
	cmd.Flags().BoolVar(&params.Reset, "reset", false, "Re-run migrations that already completed")
	cmd.Flags().UintVar(&params.From, "from", 0, "First migration ID to run")
	cmd.Flags().UintVar(&params.To, "to", 0, "Last migration ID to run")

	return cmd
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which migrations have run",
		Long: `Show every known migration and whether it has completed in the
current namespace on the selected network.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.MigrationStatus.Run(cmd.Context())
			if err != nil {
				return err
			}

			renderer := render.NewStatusRenderer(cmd.OutOrStdout(), app.Config.JSON)
			return renderer.Render(result)
		},
	}
}
