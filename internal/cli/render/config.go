package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}

// RenderConfig renders the stored defaults and the resolved run settings
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if result.Exists {
		fmt.Fprintln(r.out, "📋 Stored defaults:")
		fmt.Fprintf(r.out, "Namespace: %s\n", result.Config.Namespace)
		fmt.Fprintf(r.out, "Network:   %s\n", orNotSet(result.Config.Network))
		fmt.Fprintf(r.out, "📁 config file: %s\n", getRelativePath(result.ConfigPath))
	} else {
		fmt.Fprintf(r.out, "❌ No %s file found\n", getRelativePath(result.ConfigPath))
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "🚀 This run:")
	fmt.Fprintf(r.out, "Namespace:  %s\n", result.Namespace)
	if result.Network != nil {
		fmt.Fprintf(r.out, "Network:    %s (chain %d), %d migration(s) completed\n",
			result.Network.Name, result.Network.ChainID, result.Completed)
	} else {
		fmt.Fprintf(r.out, "Network:    %s\n", "(not set)")
		fmt.Fprintln(r.out, FormatWarning("migrate and status need --network or a stored network"))
	}
	fmt.Fprintf(r.out, "Migrations: %s\n", getRelativePath(result.MigrationsDir))
	fmt.Fprintf(r.out, "Artifacts:  %s\n", getRelativePath(result.ArtifactsDir))
	fmt.Fprintf(r.out, "Registry:   %s\n", getRelativePath(result.DataDir))
	return nil
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	switch result.Key {
	case config.ConfigKeyNamespace:
		fmt.Fprintf(r.out, "✅ Reset namespace to: default\n")
	case config.ConfigKeyNetwork:
		fmt.Fprintf(r.out, "✅ Removed network from config (will be required as flag)\n")
	}

	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}
