package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// Color styles for table format
var (
	nsBg            = color.BgYellow
	chainBg         = color.BgCyan
	nsHeader        = color.New(nsBg, color.FgBlack)
	nsHeaderBold    = color.New(nsBg, color.FgBlack, color.Bold)
	chainHeader     = color.New(chainBg, color.FgBlack)
	chainHeaderBold = color.New(chainBg, color.FgBlack, color.Bold)
	contractStyle   = color.New(color.FgGreen, color.Bold)
	addressStyle    = color.New(color.FgWhite)
	migrationStyle  = color.New(color.FgMagenta)
	timestampStyle  = color.New(color.Faint)
)

type TableData [][]string

// DeploymentsRenderer renders deployment lists as a tree of namespace and chain tables
type DeploymentsRenderer struct {
	out    io.Writer
	format Format
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, format Format) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out:    out,
		format: format,
	}
}

// Render renders deployments in the requested format
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if r.format != FormatTable {
		deployments := result.Deployments
		if deployments == nil {
			deployments = []*models.Deployment{}
		}
		return writeMachine(r.out, r.format, deployments)
	}

	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	r.displayTableFormat(result.Deployments)
	return nil
}

// displayTableFormat shows deployments grouped by namespace and chain
func (r *DeploymentsRenderer) displayTableFormat(deployments []*models.Deployment) {
	byNamespace := lo.GroupBy(deployments, func(d *models.Deployment) string { return d.Namespace })

	namespaces := lo.Keys(byNamespace)
	sort.Strings(namespaces)

	// Build every table first so columns line up across chains
	tables := make(map[string]TableData)
	for _, ns := range namespaces {
		for chainID, chainDeployments := range groupByChain(byNamespace[ns]) {
			tables[tableKey(ns, chainID)] = r.buildDeploymentTable(chainDeployments)
		}
	}
	widths := calculateTableColumnWidths(lo.Values(tables))

	for _, ns := range namespaces {
		nsLabel := fmt.Sprintf("%-12s", "namespace:")
		nsValue := fmt.Sprintf("%-30s", strings.ToUpper(ns))
		fmt.Fprintln(r.out, nsHeader.Sprintf("   ◎ %s %s", nsLabel, nsHeaderBold.Sprint(nsValue)))

		chains := groupByChain(byNamespace[ns])
		chainIDs := lo.Keys(chains)
		sort.Slice(chainIDs, func(i, j int) bool { return chainIDs[i] < chainIDs[j] })

		for idx, chainID := range chainIDs {
			isLast := idx == len(chainIDs)-1
			treePrefix := "├─"
			continuationPrefix := "│ "
			if isLast {
				treePrefix = "└─"
				continuationPrefix = "  "
			}

			chainLabel := fmt.Sprintf("%-12s", "chain:")
			chainValue := fmt.Sprintf("%-30s", chainDisplayName(chains[chainID][0]))
			fmt.Fprintf(r.out, "%s%s%s\n",
				treePrefix,
				chainHeader.Sprintf(" ⛓ %s ", chainLabel),
				chainHeaderBold.Sprint(chainValue))
			fmt.Fprintln(r.out, continuationPrefix)

			fmt.Fprint(r.out, renderTableWithWidths(tables[tableKey(ns, chainID)], widths, continuationPrefix))
			fmt.Fprintln(r.out)

			if !isLast {
				fmt.Fprintln(r.out, continuationPrefix)
			} else {
				fmt.Fprintln(r.out)
			}
		}
	}

	fmt.Fprintf(r.out, "Total deployments: %d\n", len(deployments))
}

// buildDeploymentTable creates a TableData for the deployments of one chain
func (r *DeploymentsRenderer) buildDeploymentTable(deployments []*models.Deployment) TableData {
	sorted := make([]*models.Deployment, len(deployments))
	copy(sorted, deployments)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].MigrationID != sorted[j].MigrationID {
			return sorted[i].MigrationID < sorted[j].MigrationID
		}
		return sorted[i].ContractName < sorted[j].ContractName
	})

	tableData := make(TableData, 0, len(sorted))
	for _, dep := range sorted {
		tableData = append(tableData, []string{
			contractStyle.Sprint(dep.ContractName),
			addressStyle.Sprint(dep.Address),
			migrationStyle.Sprintf("#%d", dep.MigrationID),
			timestampStyle.Sprint(dep.CreatedAt.Format("2006-01-02 15:04:05")),
		})
	}
	return tableData
}

func groupByChain(deployments []*models.Deployment) map[uint64][]*models.Deployment {
	return lo.GroupBy(deployments, func(d *models.Deployment) uint64 { return d.ChainID })
}

func tableKey(namespace string, chainID uint64) string {
	return fmt.Sprintf("%s/%d", namespace, chainID)
}

func chainDisplayName(dep *models.Deployment) string {
	if dep.Network == "" {
		return fmt.Sprintf("%d", dep.ChainID)
	}
	return fmt.Sprintf("%d (%s)", dep.ChainID, dep.Network)
}

// renderTableWithWidths renders a table with fixed column widths under a tree prefix
func renderTableWithWidths(tableData TableData, columnWidths []int, continuationPrefix string) string {
	if len(tableData) == 0 {
		return ""
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	colConfigs := make([]table.ColumnConfig, len(columnWidths))
	for i, width := range columnWidths {
		if i == 0 {
			width += len([]rune(continuationPrefix))
		}
		colConfigs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    text.AlignLeft,
			WidthMin: width,
			WidthMax: width,
		}
	}
	t.SetColumnConfigs(colConfigs)

	for _, row := range tableData {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			if i == 0 {
				tableRow[i] = continuationPrefix + cell
			} else {
				tableRow[i] = cell
			}
		}
		t.AppendRow(tableRow)
	}

	return t.Render()
}

// calculateTableColumnWidths returns the widest cell of each column across tables
func calculateTableColumnWidths(tables []TableData) []int {
	maxCols := 0
	for _, tbl := range tables {
		for _, row := range tbl {
			maxCols = max(maxCols, len(row))
		}
	}

	widths := make([]int, maxCols)
	for _, tbl := range tables {
		for _, row := range tbl {
			for colIdx, cell := range row {
				widths[colIdx] = max(widths[colIdx], len([]rune(stripAnsiCodes(cell))))
			}
		}
	}
	return widths
}

var _ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)
