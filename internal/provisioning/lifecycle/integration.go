package lifecycle

import (
	"errors"
	"fmt"

	"github.com/dsforge/dsinstall/internal/artifacts"
	"github.com/dsforge/dsinstall/internal/password"
	"github.com/dsforge/dsinstall/internal/provisioning"
)

// Integration adds the suffix root, the management tree and the consumer
// entry to a running instance.
type Integration struct{}

// NewIntegration creates the integration phase.
func NewIntegration() *Integration {
	return &Integration{}
}

// Name implements the provisioning.Phase interface.
func (p *Integration) Name() string {
	return "integration"
}

// Enabled implements the provisioning.Conditional interface.
func (p *Integration) Enabled(ctx *provisioning.Context) bool {
	return ctx.Config.RegisterManagement && ctx.State.ServerRunning
}

// Provision implements the provisioning.Phase interface.
func (p *Integration) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	if cfg.RootPW == "" {
		return provisioning.Wrap(provisioning.KindService,
			errors.New("a clear text root password is required to add the management entries"))
	}

	adminPW, err := hashed(cfg.PasswordScheme, cfg.AdminPW)
	if err != nil {
		return provisioning.Wrap(provisioning.KindValidation, fmt.Errorf("hash admin password: %w", err))
	}
	consumerPW, err := hashed(cfg.PasswordScheme, cfg.ConsumerPW)
	if err != nil {
		return provisioning.Wrap(provisioning.KindValidation, fmt.Errorf("hash consumer password: %w", err))
	}

	entries, err := artifacts.IntegrationEntries(cfg, adminPW, consumerPW)
	if err != nil {
		return provisioning.Wrap(provisioning.KindValidation, err)
	}
	if len(entries) == 0 {
		return nil
	}

	dir := ctx.Directory(DirectoryURL(cfg), ctx.Timeouts.LDAPProbe)
	summary, err := dir.EnsureEntries(ctx, cfg.RootDN, cfg.RootPW, entries)
	ctx.State.Integration = summary
	if err != nil {
		return provisioning.Wrap(provisioning.KindService, fmt.Errorf("could not add management entries: %w", err))
	}
	ctx.Observer.Printf("[%s] Added %d entries, %d already present", p.Name(), summary.Added, summary.Existed)
	return nil
}

func hashed(scheme, value string) (string, error) {
	if value == "" || password.IsHashed(value) {
		return value, nil
	}
	s, err := password.ParseScheme(scheme)
	if err != nil {
		return "", err
	}
	return password.Hash(value, s)
}
