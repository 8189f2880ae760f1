package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dsforge/dsinstall/internal/platform/s3"
	"github.com/dsforge/dsinstall/internal/provisioning"
)

// LoadLDIF imports the configured initial LDIF into the user suffix with
// the instance's ldif2db script. Remote s3:// sources are downloaded into
// the instance's LDIF directory first.
type LoadLDIF struct{}

// NewLoadLDIF creates the load-ldif phase.
func NewLoadLDIF() *LoadLDIF {
	return &LoadLDIF{}
}

// Name implements the provisioning.Phase interface.
func (p *LoadLDIF) Name() string {
	return "load-ldif"
}

// Enabled implements the provisioning.Conditional interface.
func (p *LoadLDIF) Enabled(ctx *provisioning.Context) bool {
	return ctx.Config.InstallLDIF != ""
}

// Provision implements the provisioning.Phase interface.
func (p *LoadLDIF) Provision(ctx *provisioning.Context) error {
	source := ctx.Config.InstallLDIF
	failed := func(reason error) error {
		ctx.Observer.Printf("[%s] %s: %v", p.Name(), source, reason)
		ctx.Advise(p.Name(), fmt.Sprintf("The file %s could not be loaded", source))
		return nil
	}

	local, err := p.localize(ctx, source)
	if err != nil {
		return failed(err)
	}
	if _, err := os.Stat(local); err != nil {
		return failed(err)
	}

	script := filepath.Join(ctx.Layout.Instance, "ldif2db")
	runCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.ScriptRun)
	defer cancel()

	status, err := ctx.Platform.RunScript(runCtx, script, "-s", ctx.Config.Suffix, "-i", local)
	if err != nil {
		return failed(err)
	}
	if status != 0 {
		return failed(fmt.Errorf("ldif2db exited with status %d", status))
	}

	ctx.State.LDIFLoaded = local
	ctx.Notify(p.Name(), fmt.Sprintf("The file %s was successfully loaded", source))
	return nil
}

func (p *LoadLDIF) localize(ctx *provisioning.Context, source string) (string, error) {
	if !s3.IsS3URL(source) {
		return source, nil
	}
	fetcher, err := ctx.Fetcher(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create S3 client: %w", err)
	}
	local, err := fetcher.Fetch(ctx, source, ctx.Layout.LDIF)
	if err != nil {
		return "", err
	}
	provisioning.LogResource(ctx.Observer, provisioning.EventResourceCreated, p.Name(), "ldif", local)
	return local, nil
}
