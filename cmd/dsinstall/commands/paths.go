package commands

import (
	"github.com/spf13/cobra"

	"github.com/dsforge/dsinstall/cmd/dsinstall/handlers"
)

// Paths returns the command that prints the derived instance layout.
func Paths() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the directories an instance uses",
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Paths(configPath, globalOpts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", DefaultConfigPath, "Path to instance configuration file")

	return cmd
}
