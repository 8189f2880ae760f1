package handlers

import (
	"context"
	"fmt"

	"github.com/dsforge/dsinstall/internal/orchestration"
	"github.com/dsforge/dsinstall/internal/provisioning/validation"
)

// Validate checks an instance configuration against the host without
// writing anything. Port probes only run when the server would be started.
func Validate(ctx context.Context, configPath string, opts Options) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	p := opts.printer()
	report, ferr := validation.Validate(ctx, cfg, newOps(), p.Warning)
	if ferr != nil {
		p.Failure(orchestration.FailureMessage(orchestration.FlowCreate, ferr.Field, cfg.ServerID, ferr.Message))
		return ErrValidationFailed
	}

	p.Success(fmt.Sprintf("Configuration for server %s is valid", cfg.ServerID))

	owner := ""
	if report.Owner != nil {
		owner = report.Owner.Name
	}
	ports := "skipped"
	if report.PortsVerified {
		ports = "free"
	}
	p.Rows([][2]string{
		{"Ports", ports},
		{"Files owned by", owner},
	})
	return nil
}
