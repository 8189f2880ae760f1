package provisioning

import (
	"context"

	"github.com/dsforge/dsinstall/internal/artifacts"
	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/fsutil"
	"github.com/dsforge/dsinstall/internal/paths"
	"github.com/dsforge/dsinstall/internal/platform"

	"github.com/google/uuid"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config    *config.InstanceConfig
	Layout    *paths.Layout
	Platform  platform.Ops
	State     *State
	Observer  Observer
	Timeouts  *config.Timeouts
	Metrics   *Metrics
	Directory DirectoryFactory
	Fetcher   FetcherFactory
	RunID     string
	Verbose   bool
}

// NewContext creates a new provisioning context with console logging and
// the real LDAP and S3 collaborators.
func NewContext(
	ctx context.Context,
	cfg *config.InstanceConfig,
	layout *paths.Layout,
	ops platform.Ops,
) *Context {
	runID := uuid.NewString()
	return &Context{
		Context:   ctx,
		Config:    cfg,
		Layout:    layout,
		Platform:  ops,
		State:     NewState(),
		Observer:  NewConsoleObserver().WithFields(map[string]string{"run": runID}),
		Timeouts:  config.LoadTimeouts(),
		Directory: DefaultDirectory,
		Fetcher:   DefaultFetcher,
		RunID:     runID,
	}
}

// Advise records a non-fatal advisory for phase.
func (c *Context) Advise(phase, message string) {
	c.State.Advisories = append(c.State.Advisories, message)
	LogAdvisory(c.Observer, phase, message)
	c.Metrics.RecordAdvisory(phase)
}

// Notify records an informational notice for phase.
func (c *Context) Notify(phase, message string) {
	c.State.Notices = append(c.State.Notices, message)
	LogNotice(c.Observer, phase, message)
}

// Advisor returns a callback that records advisories for phase.
func (c *Context) Advisor(phase string) func(string) {
	return func(msg string) { c.Advise(phase, msg) }
}

// RecordArtifacts adds generated files to the state and reports them.
func (c *Context) RecordArtifacts(phase string, results []artifacts.Result) {
	for _, r := range results {
		c.State.Artifacts = append(c.State.Artifacts, r)
		c.Metrics.RecordArtifact(r.Outcome.String())
		switch r.Outcome {
		case fsutil.Written:
			LogResource(c.Observer, EventResourceCreated, phase, r.Name, r.Path)
		case fsutil.Replaced:
			LogResource(c.Observer, EventResourceReplaced, phase, r.Name, r.Path)
		case fsutil.Skipped:
			LogResource(c.Observer, EventResourceExists, phase, r.Name, r.Path)
		}
	}
}

// Owner returns the account generated files should belong to, or nil.
func (c *Context) Owner() *platform.Account {
	return c.State.Owner
}

// ChownFunc returns a chown callback for the resolved owner, or nil when
// ownership is left alone.
func (c *Context) ChownFunc() func(string) error {
	owner := c.State.Owner
	if owner == nil || c.Platform == nil {
		return nil
	}
	return func(path string) error { return c.Platform.Chown(path, owner) }
}

// Generator returns an artifact generator for this instance that reports
// advisories under phase and hands files to the resolved owner.
func (c *Context) Generator(phase string) *artifacts.Generator {
	return &artifacts.Generator{
		Config:         c.Config,
		Layout:         c.Layout,
		Kind:           c.Platform.Kind(),
		MaxDescriptors: c.Platform.MaxDescriptors(),
		Chown:          c.ChownFunc(),
		Dirs:           fsutil.NewBuilder(c.Platform),
		Owner:          c.Owner(),
		Advise:         c.Advisor(phase),
	}
}
