package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out  io.Writer
	json bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, json bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:  out,
		json: json,
	}
}

type networkJSON struct {
	Name      string `json:"name"`
	ChainID   uint64 `json:"chainId,omitempty"`
	Selected  bool   `json:"selected,omitempty"`
	Local     bool   `json:"local,omitempty"`
	Completed int    `json:"completedMigrations"`
	Error     string `json:"error,omitempty"`
}

// Render renders the list of configured networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if r.json {
		out := make([]networkJSON, len(result.Networks))
		for i, n := range result.Networks {
			out[i] = networkJSON{Name: n.Name, ChainID: n.ChainID, Selected: n.Selected, Local: n.Local, Completed: n.Completed}
			if n.Error != nil {
				out[i].Error = n.Error.Error()
			}
		}
		return writeJSON(r.out, out)
	}

	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in foundry.toml [rpc_endpoints]")
		return nil
	}

	fmt.Fprintf(r.out, "🌐 Available Networks (namespace %s):\n", result.Namespace)
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		marker := "  "
		if network.Selected {
			marker = "* "
		}
		if network.Error != nil {
			fmt.Fprintf(r.out, "%s❌ %s - Error: %v\n", marker, network.Name, network.Error)
			continue
		}
		local := ""
		if network.Local {
			local = timestampStyle.Sprint(" (local)")
		}
		fmt.Fprintf(r.out, "%s✅ %s - Chain ID: %s%s - %d migration(s) completed\n",
			marker, network.Name, color.New(color.FgCyan).Sprint(network.ChainID), local, network.Completed)
	}

	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
