package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/simple-storage/internal/app"
	"github.com/trebuchet-org/simple-storage/internal/config"
)

func TestRootCmdTree(t *testing.T) {
	root := NewRootCmd()

	groups := map[string]string{
		"migrate":  "main",
		"status":   "main",
		"list":     "main",
		"show":     "main",
		"networks": "management",
		"config":   "management",
		"version":  "",
	}
	for name, group := range groups {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
			assert.Equal(t, group, cmd.GroupID)
		})
	}

	for _, flag := range []string{"debug", "non-interactive", "json", "namespace", "network", "timeout"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
	assert.Equal(t, "n", root.PersistentFlags().Lookup("network").Shorthand)
	assert.Equal(t, "s", root.PersistentFlags().Lookup("namespace").Shorthand)
}

func TestMigrateCmdFlags(t *testing.T) {
	cmd := NewMigrateCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--dry-run", "--reset", "--from", "2", "--to", "3"}))

	dryRun, err := cmd.Flags().GetBool("dry-run")
	require.NoError(t, err)
	assert.True(t, dryRun)

	from, err := cmd.Flags().GetUint("from")
	require.NoError(t, err)
	assert.Equal(t, uint(2), from)
}

func TestListCmdDefaults(t *testing.T) {
	cmd := NewListCmd()
	assert.Equal(t, "table", cmd.Flags().Lookup("format").DefValue)
	assert.Contains(t, cmd.Aliases, "ls")
}

func TestVersionCmdSkipsProjectSetup(t *testing.T) {
	config.SetBuildFlags("1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { config.SetBuildFlags("dev", "unknown", "unknown") })

	// Run from a directory with no foundry.toml
	t.Chdir(t.TempDir())

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "simple-storage version 1.2.3 (commit abc123, built 2026-01-01)\n", out.String())
}

func TestCommandsFailOutsideProject(t *testing.T) {
	t.Chdir(t.TempDir())

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"status"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foundry.toml")
}

func TestGetApp(t *testing.T) {
	t.Run("not initialized", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.SetContext(context.Background())

		_, err := getApp(cmd)
		assert.EqualError(t, err, "app not initialized")
	})

	t.Run("wrong type", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.SetContext(context.WithValue(context.Background(), appKey, "nope"))

		_, err := getApp(cmd)
		assert.EqualError(t, err, "invalid app instance")
	})

	t.Run("stored app", func(t *testing.T) {
		want := &app.App{}
		cmd := &cobra.Command{}
		cmd.SetContext(context.WithValue(context.Background(), appKey, want))

		got, err := getApp(cmd)
		require.NoError(t, err)
		assert.Same(t, want, got)
	})
}
