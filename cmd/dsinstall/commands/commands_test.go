package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "dsinstall", cmd.Use)
	assert.Equal(t, "Provision directory server instances", cmd.Short)
	assert.True(t, cmd.SilenceUsage)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range []string{"init", "create", "update", "validate", "paths", "version", "completion"} {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
	assert.Len(t, cmd.Commands(), 7)
}

func TestRoot_PersistentFlags(t *testing.T) {
	cmd := Root()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"verbose", "v", "false"},
		{"log-format", "", "text"},
		{"metrics-file", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag, "%s flag should exist", tt.name)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestConfigFlag(t *testing.T) {
	for _, cmd := range []*cobra.Command{Create(), Update(), Validate(), Paths()} {
		t.Run(cmd.Name(), func(t *testing.T) {
			flag := cmd.Flags().Lookup("config")
			require.NotNil(t, flag, "config flag should exist")
			assert.Equal(t, "c", flag.Shorthand)
			assert.Equal(t, DefaultConfigPath, flag.DefValue)
			assert.NotNil(t, cmd.RunE)
		})
	}
}

func TestInit_Flags(t *testing.T) {
	cmd := Init()

	require.NotNil(t, cmd)
	assert.Equal(t, "init", cmd.Use)
	assert.Equal(t, "Interactively create an instance configuration", cmd.Short)

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
	assert.Equal(t, DefaultConfigPath, output.DefValue)

	advanced := cmd.Flags().Lookup("advanced")
	require.NotNil(t, advanced)
	assert.Equal(t, "a", advanced.Shorthand)
	assert.Equal(t, "false", advanced.DefValue)

	full := cmd.Flags().Lookup("full")
	require.NotNil(t, full)
	assert.Equal(t, "f", full.Shorthand)
}

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer func() {
		version, commit, date = origVersion, origCommit, origDate
	}()

	SetVersionInfo("1.2.3", "abc123", "2024-01-01")

	var out bytes.Buffer
	cmd := Version()
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "dsinstall 1.2.3")
	assert.Contains(t, out.String(), "commit: abc123")
	assert.Contains(t, out.String(), "built:  2024-01-01")
	assert.Contains(t, out.String(), "go:     go")
}

func TestCompletion(t *testing.T) {
	cmd := Completion()

	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)
	assert.True(t, cmd.DisableFlagsInUseLine)
}

func TestCompletion_Output(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := Root()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})

			require.NoError(t, root.Execute())
			assert.True(t, strings.Contains(out.String(), "dsinstall"), "completion script should name the binary")
		})
	}
}

func TestCompletion_InvalidShell(t *testing.T) {
	root := Root()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"completion", "tcsh"})

	assert.Error(t, root.Execute())
}
