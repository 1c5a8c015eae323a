package render

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	pendingStyle = color.New(color.FgYellow)
	doneStyle    = color.New(color.FgGreen)
)

// MigrateRenderer renders the summary of a migrate run
type MigrateRenderer struct {
	out  io.Writer
	json bool
}

// NewMigrateRenderer creates a new migrate renderer
func NewMigrateRenderer(out io.Writer, json bool) *MigrateRenderer {
	return &MigrateRenderer{out: out, json: json}
}

type migrateJSON struct {
	Network   string          `json:"network"`
	ChainID   uint64          `json:"chainId"`
	Namespace string          `json:"namespace"`
	DryRun    bool            `json:"dryRun"`
	Executed  []migrationJSON `json:"executed"`
	Skipped   []string        `json:"skipped"`
}

type migrationJSON struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	DurationMs  int64                `json:"durationMs"`
	Deployments []*models.Deployment `json:"deployments"`
}

// Render renders the migrate result
func (r *MigrateRenderer) Render(result *usecase.RunMigrationsResult) error {
	if r.json {
		return writeJSON(r.out, r.toJSON(result))
	}

	mode := "broadcast"
	if result.DryRun {
		mode = "dry run"
	}
	headerStyle.Fprintf(r.out, "\n%s on %s (chain %d), namespace %s\n",
		title(mode), result.Network.Name, result.Network.ChainID, result.Namespace)

	if len(result.Executed) == 0 {
		fmt.Fprintln(r.out, "Network up to date, no migrations to run.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Migration", "Contract", "Address", "Tx", "Gas"})
	for _, m := range result.Executed {
		for _, dep := range m.Deployments {
			tx := shortHash(dep.Transaction.Hash)
			if dep.DryRun {
				tx = pendingStyle.Sprint("simulated")
			}
			t.AppendRow(table.Row{m.Migration.Label(), dep.ContractName, dep.Address, tx, dep.Transaction.GasUsed})
		}
	}
	totalGas := lo.SumBy(result.Executed, func(m *usecase.MigrationResult) uint64 {
		return lo.SumBy(m.Deployments, func(d *models.Deployment) uint64 { return d.Transaction.GasUsed })
	})
	t.AppendFooter(table.Row{"", "", "", "Total", totalGas})
	t.Render()

	summary := fmt.Sprintf("%d migration(s), %d contract(s)", len(result.Executed), result.TotalDeployments())
	if result.DryRun {
		fmt.Fprintln(r.out, FormatWarning("Dry run: "+summary+" simulated, nothing recorded"))
	} else {
		fmt.Fprintln(r.out, FormatSuccess("Deployed "+summary))
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(r.out, "Skipped %d completed migration(s)\n", len(result.Skipped))
	}
	return nil
}

func (r *MigrateRenderer) toJSON(result *usecase.RunMigrationsResult) migrateJSON {
	out := migrateJSON{
		Namespace: result.Namespace,
		DryRun:    result.DryRun,
		Executed:  []migrationJSON{},
		Skipped:   lo.Map(result.Skipped, func(m usecase.Migration, _ int) string { return m.Label() }),
	}
	if result.Network != nil {
		out.Network = result.Network.Name
		out.ChainID = result.Network.ChainID
	}
	for _, m := range result.Executed {
		deployments := m.Deployments
		if deployments == nil {
			deployments = []*models.Deployment{}
		}
		out.Executed = append(out.Executed, migrationJSON{
			ID:          m.Migration.ID,
			Name:        m.Migration.Name,
			DurationMs:  m.Duration.Milliseconds(),
			Deployments: deployments,
		})
	}
	return out
}

// StatusRenderer renders the applied/pending state of every migration
type StatusRenderer struct {
	out  io.Writer
	json bool
}

// NewStatusRenderer creates a new status renderer
func NewStatusRenderer(out io.Writer, json bool) *StatusRenderer {
	return &StatusRenderer{out: out, json: json}
}

type statusJSON struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Source      string     `json:"source"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Render renders the migration status table
func (r *StatusRenderer) Render(result *usecase.MigrationStatusResult) error {
	if r.json {
		rows := make([]statusJSON, len(result.Migrations))
		for i, m := range result.Migrations {
			rows[i] = statusJSON{ID: m.Migration.ID, Name: m.Migration.Name, Source: m.Migration.Source, Status: statusName(m)}
			if m.Record != nil {
				completed := m.Record.CompletedAt
				rows[i].CompletedAt = &completed
			}
		}
		return writeJSON(r.out, rows)
	}

	headerStyle.Fprintf(r.out, "Migrations on %s (chain %d), namespace %s\n",
		result.Network.Name, result.Network.ChainID, result.Namespace)

	if len(result.Migrations) == 0 {
		fmt.Fprintln(r.out, "No migrations found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Migration", "Source", "Status", "Completed"})
	for _, m := range result.Migrations {
		status := pendingStyle.Sprint(title(statusName(m)))
		completed := ""
		if m.Completed() {
			status = doneStyle.Sprint(title(statusName(m)))
			completed = m.Record.CompletedAt.Format("2006-01-02 15:04:05")
		}
		t.AppendRow(table.Row{m.Migration.ID, m.Migration.Name, m.Migration.Source, status, completed})
	}
	t.Render()

	fmt.Fprintf(r.out, "%d pending\n", result.Pending())
	return nil
}

func statusName(m usecase.MigrationState) string {
	if m.Completed() {
		return "completed"
	}
	return "pending"
}

var (
	_ Renderer[*usecase.RunMigrationsResult]   = (*MigrateRenderer)(nil)
	_ Renderer[*usecase.MigrationStatusResult] = (*StatusRenderer)(nil)
)
