package commands

import (
	"github.com/spf13/cobra"

	"github.com/dsforge/dsinstall/cmd/dsinstall/handlers"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "instance.yaml"

// Create returns the command for provisioning a new instance.
//
// Optional flags:
//
//	--config, -c: Path to the instance configuration file (default "instance.yaml")
func Create() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new directory server instance",
		Long: `Create a new directory server instance.

This command validates the configuration against the host, creates the
instance directories, writes the control scripts and configuration files,
and starts the server if requested. With cfg_sspt set, the server is
registered with the management topology after it starts.

The outcome is reported as a single line, either "Created new Directory
Server" or "<field>.error:could not create server <id> - <reason>".

Examples:
  # Create the instance described in instance.yaml
  dsinstall create

  # Use a specific file and JSON progress logs
  dsinstall create -c ldap1.yaml --log-format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), configPath, globalOpts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", DefaultConfigPath, "Path to instance configuration file")

	return cmd
}
