package validation

import (
	"fmt"

	"github.com/dsforge/dsinstall/internal/platform"
	"github.com/dsforge/dsinstall/internal/provisioning"
)

// Phase runs Validate and stores its report in the provisioning state.
type Phase struct{}

// NewPhase creates a validation phase.
func NewPhase() *Phase {
	return &Phase{}
}

// Name implements provisioning.Phase.
func (p *Phase) Name() string {
	return "validate"
}

// Provision implements provisioning.Phase.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	report, ferr := Validate(ctx, ctx.Config, ctx.Platform, ctx.Advisor(p.Name()))
	if ferr != nil {
		ctx.Observer.Event(provisioning.Event{
			Type:    provisioning.EventValidationError,
			Phase:   p.Name(),
			Message: ferr.Message,
			Fields:  map[string]string{"field": ferr.Field},
		})
		return ferr
	}
	ctx.State.PortsVerified = report.PortsVerified
	ctx.State.Owner = report.Owner
	return nil
}

// PrecheckPhase refuses to continue when a service with the instance's
// name is already registered. Only platforms with a service manager run it.
type PrecheckPhase struct{}

// NewPrecheckPhase creates the platform pre-check.
func NewPrecheckPhase() *PrecheckPhase {
	return &PrecheckPhase{}
}

// Name implements provisioning.Phase.
func (p *PrecheckPhase) Name() string {
	return "precheck"
}

// Enabled implements provisioning.Conditional.
func (p *PrecheckPhase) Enabled(ctx *provisioning.Context) bool {
	return ctx.Platform.Kind() == platform.Windows
}

// Provision implements provisioning.Phase.
func (p *PrecheckPhase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	name := platform.ServiceName(cfg.ProductName, cfg.ServerID)
	exists, err := ctx.Platform.ServiceExists(name)
	if err != nil {
		return provisioning.Wrap(provisioning.KindService, fmt.Errorf("failed to query service %s: %w", name, err))
	}
	if exists {
		return &provisioning.FieldError{
			Field: "servid",
			Message: fmt.Sprintf("Server %s already exists: cannot create another.  "+
				"Please choose a different name or delete the existing server.", cfg.ServerID),
			Kind: provisioning.KindService,
		}
	}
	return nil
}
