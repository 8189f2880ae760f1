package configs

import (
	"fmt"

	"github.com/dsforge/dsinstall/internal/artifacts"
	"github.com/dsforge/dsinstall/internal/provisioning"
)

const phase = "confs"

// Provisioner handles configuration file generation.
type Provisioner struct{}

// NewProvisioner creates a new configs provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	secrets, err := artifacts.HashSecrets(ctx.Config)
	if err != nil {
		return provisioning.Wrap(provisioning.KindValidation, fmt.Errorf("could not hash passwords: %w", err))
	}
	ctx.State.Secrets = secrets

	gen := ctx.Generator(phase)

	results, err := gen.WriteConfigs(secrets)
	ctx.RecordArtifacts(phase, results)
	if err != nil {
		return provisioning.Wrap(provisioning.KindResource, err)
	}

	info, err := gen.WriteLDAPInfo()
	if err != nil {
		return provisioning.Wrap(provisioning.KindResource, err)
	}
	ctx.RecordArtifacts(phase, []artifacts.Result{info})

	return nil
}
