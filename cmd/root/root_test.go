package root_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-csv/cmd/root"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "statement-csv", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "ZKB and Revolut")
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	root.Init()

	flags := root.Cmd.PersistentFlags()
	require.NotNil(t, flags.Lookup("input"))
	assert.Equal(t, "i", flags.Lookup("input").Shorthand)
	require.NotNil(t, flags.Lookup("output"))
	assert.Equal(t, "o", flags.Lookup("output").Shorthand)
	assert.NotNil(t, flags.Lookup("enrich"))
	assert.NotNil(t, flags.Lookup("config"))
	assert.NotNil(t, flags.Lookup("log-level"))
}

func TestRootCommand_BuildsAndClosesContainer(t *testing.T) {
	root.Init()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`categorization:
  rules_file: `+filepath.Join(dir, "none.yaml")+`
  merchant_map_file: `+filepath.Join(dir, "merchants.yaml")+`
storage:
  database: `+filepath.Join(dir, "ledger.db")+`
`), 0600))

	var seen bool
	noop := &cobra.Command{
		Use: "noop",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := root.GetContainer()
			require.NotNil(t, c)
			assert.Equal(t, filepath.Join(dir, "merchants.yaml"), c.GetMerchantStore().Path())
			assert.Equal(t, "debug", c.GetConfig().Log.Level)
			seen = true
			return nil
		},
	}
	root.Cmd.AddCommand(noop)
	t.Cleanup(func() { root.Cmd.RemoveCommand(noop) })

	var stderr bytes.Buffer
	root.Cmd.SetErr(&stderr)
	root.Cmd.SetArgs([]string{"noop", "--config", cfgPath, "--log-level", "debug"})
	t.Cleanup(func() {
		root.Cmd.SetArgs(nil)
		root.ConfigFile = ""
		root.LogLevel = ""
	})

	require.NoError(t, root.Cmd.Execute())
	assert.True(t, seen)
	assert.Nil(t, root.GetContainer())
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	root.Init()
	noop := &cobra.Command{Use: "noop-missing", RunE: func(*cobra.Command, []string) error { return nil }}
	root.Cmd.AddCommand(noop)
	t.Cleanup(func() { root.Cmd.RemoveCommand(noop) })

	root.Cmd.SetErr(&bytes.Buffer{})
	root.Cmd.SetArgs([]string{"noop-missing", "--config", filepath.Join(t.TempDir(), "absent.yaml")})
	t.Cleanup(func() {
		root.Cmd.SetArgs(nil)
		root.ConfigFile = ""
	})

	err := root.Cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}
