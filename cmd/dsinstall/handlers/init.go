package handlers

import (
	"context"
	"fmt"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists       = wizard.FileExists
	wizardConfirmOverwrite = wizard.ConfirmOverwrite
	wizardRunWizard        = wizard.RunWizard
	wizardBuildConfig      = wizard.BuildConfig
	wizardWriteConfig      = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string, advanced, fullOutput bool) error {
	if wizardFileExists(outputPath) {
		ok, err := wizardConfirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	printWelcome(advanced, fullOutput)

	result, err := wizardRunWizard(ctx, advanced)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg, err := wizardBuildConfig(result)
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}

	if err := wizardWriteConfig(cfg, outputPath, fullOutput); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome(advanced, fullOutput bool) {
	fmt.Println()
	fmt.Println("dsinstall - Directory Server instance setup")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("This wizard will help you create an instance configuration.")
	if advanced {
		fmt.Println("Running in advanced mode: tuning options will be shown.")
	}
	if fullOutput {
		fmt.Println("Full output mode: every setting will be written.")
	} else {
		fmt.Println("Minimal output mode: only the answered settings will be written.")
	}
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.InstanceConfig) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Instance Summary")
	fmt.Println("----------------")
	fmt.Printf("  Server:      %s\n", cfg.ServerID)
	fmt.Printf("  Host:        %s:%d\n", cfg.ServerName, cfg.Port)
	fmt.Printf("  Suffix:      %s\n", cfg.Suffix)
	fmt.Printf("  Manager DN:  %s\n", cfg.RootDN)
	if cfg.ServerUser != "" {
		fmt.Printf("  Runs as:     %s\n", cfg.ServerUser)
	}
	if cfg.RegisterManagement {
		fmt.Printf("  Management:  registered as %s\n", cfg.AdminUID)
	}
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Check the host and settings:")
	fmt.Printf("     dsinstall validate -c %s\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Create the instance:")
	fmt.Printf("     dsinstall create -c %s\n", outputPath)
	fmt.Println()
}
