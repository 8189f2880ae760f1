package commands

import (
	"github.com/spf13/cobra"

	"github.com/dsforge/dsinstall/cmd/dsinstall/handlers"
)

// Init returns the command for interactively creating an instance configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "instance.yaml")
//	--advanced, -a: Show advanced configuration options
//	--full, -f: Output full YAML with all options (default: minimal output)
func Init() *cobra.Command {
	var (
		outputPath string
		advanced   bool
		fullOutput bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create an instance configuration",
		Long: `Interactively create an instance configuration file.

This command guides you through configuring a directory server instance
step by step. It will ask about:

  - Server identity (id, host name, port)
  - Suffix and Directory Manager DN
  - Directory Manager password and storage scheme
  - Run-as user, start-up and initial LDIF
  - Management topology registration

Use --advanced for thread counts, schema checking and LDAPI.

Use --full to output the complete YAML with all configuration
options (useful for manual editing). By default, a minimal
YAML is generated with only the answered values.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, advanced, fullOutput)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", DefaultConfigPath, "Output file path")
	cmd.Flags().BoolVarP(&advanced, "advanced", "a", false, "Show advanced configuration options")
	cmd.Flags().BoolVarP(&fullOutput, "full", "f", false, "Output full YAML with all options")

	return cmd
}
