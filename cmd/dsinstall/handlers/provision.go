package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/orchestration"
	"github.com/dsforge/dsinstall/internal/platform"
	"github.com/dsforge/dsinstall/internal/provisioning"
	"github.com/dsforge/dsinstall/internal/ui/render"
)

// InstanceCreator runs the create and update flows. It matches
// orchestration.Creator.
type InstanceCreator interface {
	Create(ctx context.Context, cfg *config.InstanceConfig) (*orchestration.Result, error)
	Update(ctx context.Context, cfg *config.InstanceConfig) (*orchestration.Result, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads an instance configuration file.
	loadConfig = config.LoadFile

	// newOps returns the operations of the host platform.
	newOps = platform.Default

	// newCreator creates the provisioning workflow.
	newCreator = func(ops platform.Ops, opts ...orchestration.Option) InstanceCreator {
		return orchestration.NewCreator(ops, opts...)
	}
)

// Create provisions a new directory server instance.
//
// This function:
//  1. Loads the instance configuration
//  2. Builds the observer for the selected log format
//  3. Runs the create flow (validate, directories, scripts, configs, start)
//  4. Prints the result line and summary
//  5. Writes the metrics textfile if requested
func Create(ctx context.Context, configPath string, opts Options) error {
	return provision(ctx, orchestration.FlowCreate, configPath, opts)
}

// Update regenerates the scripts of an existing instance.
func Update(ctx context.Context, configPath string, opts Options) error {
	return provision(ctx, orchestration.FlowUpdate, configPath, opts)
}

func provision(ctx context.Context, flow orchestration.Flow, configPath string, opts Options) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	observer, err := newObserver(opts)
	if err != nil {
		return err
	}
	metrics := provisioning.NewMetrics()

	creator := newCreator(newOps(),
		orchestration.WithObserver(observer),
		orchestration.WithMetrics(metrics),
		orchestration.WithVerbose(opts.Verbose),
	)

	run := creator.Create
	if flow == orchestration.FlowUpdate {
		run = creator.Update
	}
	result, runErr := run(ctx, cfg)

	printResult(opts.printer(), result)

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			if runErr == nil {
				return fmt.Errorf("failed to write metrics: %w", err)
			}
			log.Printf("Warning: failed to write metrics: %v", err)
		}
	}

	if runErr != nil {
		return ErrProvisioningFailed
	}
	return nil
}

// printResult prints the outcome line followed by a short summary.
func printResult(p *render.Printer, result *orchestration.Result) {
	if result == nil {
		return
	}
	if !result.Succeeded() {
		p.Failure(result.Message)
		return
	}

	p.Success(result.Message)
	if result.Layout == nil || result.State == nil {
		return
	}

	rows := [][2]string{
		{"Server", result.ServerID},
		{"Instance", result.Layout.Instance},
		{"Files written", strconv.Itoa(len(result.State.Written()))},
	}
	if result.Flow == orchestration.FlowCreate {
		rows = append(rows, [2]string{"Running", strconv.FormatBool(result.State.ServerRunning)})
		if result.State.LDIFLoaded != "" {
			rows = append(rows, [2]string{"LDIF loaded", result.State.LDIFLoaded})
		}
		if n := result.State.Integration.Added + result.State.Integration.Existed; n > 0 {
			rows = append(rows, [2]string{"Management entries", strconv.Itoa(n)})
		}
	}
	p.Rows(rows)

	if len(result.State.Advisories) > 0 {
		p.Section("Advisories")
		for _, a := range result.State.Advisories {
			p.Warning(a)
		}
	}
}
