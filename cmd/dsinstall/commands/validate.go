package commands

import (
	"github.com/spf13/cobra"

	"github.com/dsforge/dsinstall/cmd/dsinstall/handlers"
)

// Validate returns the command for checking a configuration without
// changing the host.
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an instance configuration against this host",
		Long: `Check an instance configuration against this host without writing anything.

Ports are probed only when the server would be started after creation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), configPath, globalOpts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", DefaultConfigPath, "Path to instance configuration file")

	return cmd
}
