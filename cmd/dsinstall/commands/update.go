package commands

import (
	"github.com/spf13/cobra"

	"github.com/dsforge/dsinstall/cmd/dsinstall/handlers"
)

// Update returns the command for regenerating an instance's scripts.
func Update() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Regenerate the scripts of an existing instance",
		Long: `Regenerate the control and maintenance scripts of an existing instance.

Existing scripts are kept as .bak files. Configuration files, directories
and the running server are left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Update(cmd.Context(), configPath, globalOpts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", DefaultConfigPath, "Path to instance configuration file")

	return cmd
}
