package service

import (
	"github.com/dsforge/dsinstall/internal/platform"
	"github.com/dsforge/dsinstall/internal/provisioning"
)

const phase = "scripts"

// Provisioner handles service registration and script generation.
type Provisioner struct{}

// NewProvisioner creates a new service provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	// 1. Register with the service manager (no-op on POSIX)
	if err := p.register(ctx); err != nil {
		return err
	}

	gen := ctx.Generator(phase)

	// 2. start/stop/restart helpers
	control, err := gen.WriteControlScripts()
	ctx.RecordArtifacts(phase, control)
	if err != nil {
		return provisioning.Wrap(provisioning.KindResource, err)
	}

	// 3. Maintenance scripts from templates
	maintenance, err := gen.WriteMaintenanceScripts()
	ctx.RecordArtifacts(phase, maintenance)
	if err != nil {
		return provisioning.Wrap(provisioning.KindResource, err)
	}

	ctx.Observer.Printf("[%s] Wrote %d scripts to %s", phase, len(control)+len(maintenance), ctx.Layout.Instance)
	return nil
}

func (p *Provisioner) register(ctx *provisioning.Context) error {
	cfg, l := ctx.Config, ctx.Layout
	spec := platform.ServiceSpec{
		ServerID:    cfg.ServerID,
		ServerRoot:  l.ServerRoot,
		InstanceDir: l.Instance,
		ConfigDir:   l.Config,
		ServerBin:   l.ServerBin,
		ProductName: cfg.ProductName,
		BrandName:   cfg.BrandName,
	}
	if err := ctx.Platform.RegisterService(spec); err != nil {
		return provisioning.Wrap(provisioning.KindService, err)
	}
	if ctx.Platform.Kind() == platform.Windows {
		name := platform.ServiceName(cfg.ProductName, cfg.ServerID)
		provisioning.LogResource(ctx.Observer, provisioning.EventResourceCreated, phase, "service", name)
	}
	return nil
}
