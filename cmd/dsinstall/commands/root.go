// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/dsforge/dsinstall/cmd/dsinstall/handlers"
)

// globalOpts is bound to the root command's persistent flags.
var globalOpts handlers.Options

// Root returns the root command for the dsinstall CLI.
//
// The root command serves as the entry point and parent for all subcommands.
// It owns the flags shared by every command:
//
//	--verbose, -v: Log per-resource events
//	--log-format: Progress log format, text or json
//	--metrics-file: Write run metrics in node-exporter textfile format
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "dsinstall",
		Short:        "Provision directory server instances",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "Log per-resource events")
	cmd.PersistentFlags().StringVar(&globalOpts.LogFormat, "log-format", handlers.LogFormatText, "Progress log format (text or json)")
	cmd.PersistentFlags().StringVar(&globalOpts.MetricsFile, "metrics-file", "", "Write run metrics to this textfile")

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Create())
	cmd.AddCommand(Update())
	cmd.AddCommand(Validate())

	// Utility commands
	cmd.AddCommand(Paths())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
