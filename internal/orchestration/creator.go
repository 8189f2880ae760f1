package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/paths"
	"github.com/dsforge/dsinstall/internal/platform"
	"github.com/dsforge/dsinstall/internal/provisioning"
	"github.com/dsforge/dsinstall/internal/provisioning/configs"
	"github.com/dsforge/dsinstall/internal/provisioning/layout"
	"github.com/dsforge/dsinstall/internal/provisioning/lifecycle"
	"github.com/dsforge/dsinstall/internal/provisioning/service"
	"github.com/dsforge/dsinstall/internal/provisioning/validation"
)

// Flow names a provisioning workflow.
type Flow string

const (
	FlowCreate Flow = "create"
	FlowUpdate Flow = "update"
)

// Success messages.
const (
	CreatedMessage = "Created new Directory Server"
	UpdatedMessage = "Updated Directory Server"
)

// Result is the outcome of one run.
type Result struct {
	Flow     Flow
	ServerID string
	// Message is the operator-facing summary line.
	Message string
	// Field names the configuration parameter responsible for a failure.
	Field  string
	Layout *paths.Layout
	State  *provisioning.State
	Err    error
}

// Succeeded reports whether the run completed.
func (r *Result) Succeeded() bool {
	return r.Err == nil
}

// Option configures a Creator.
type Option func(*Creator)

// WithObserver replaces the console observer.
func WithObserver(o provisioning.Observer) Option {
	return func(c *Creator) { c.observer = o }
}

// WithMetrics records phase and run metrics.
func WithMetrics(m *provisioning.Metrics) Option {
	return func(c *Creator) { c.metrics = m }
}

// WithDirectory replaces the LDAP client used to reach the new instance.
func WithDirectory(f provisioning.DirectoryFactory) Option {
	return func(c *Creator) { c.directory = f }
}

// WithFetcher replaces the remote LDIF downloader.
func WithFetcher(f provisioning.FetcherFactory) Option {
	return func(c *Creator) { c.fetcher = f }
}

// WithTimeouts replaces the environment-derived timeouts.
func WithTimeouts(t *config.Timeouts) Option {
	return func(c *Creator) { c.timeouts = t }
}

// WithVerbose asks the start primitive for verbose output.
func WithVerbose(v bool) Option {
	return func(c *Creator) { c.verbose = v }
}

// Creator orchestrates the instance provisioning workflows.
type Creator struct {
	ops       platform.Ops
	observer  provisioning.Observer
	metrics   *provisioning.Metrics
	directory provisioning.DirectoryFactory
	fetcher   provisioning.FetcherFactory
	timeouts  *config.Timeouts
	verbose   bool
}

// NewCreator creates a Creator on top of the platform operations.
func NewCreator(ops platform.Ops, opts ...Option) *Creator {
	c := &Creator{ops: ops}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreatePhases returns the create workflow.
func CreatePhases() []provisioning.Phase {
	return []provisioning.Phase{
		validation.NewPrecheckPhase(),
		validation.NewPhase(),
		layout.NewProvisioner(),
		service.NewProvisioner(),
		configs.NewProvisioner(),
		lifecycle.NewLoadLDIF(),
		lifecycle.NewStart(),
		lifecycle.NewIntegration(),
	}
}

// UpdatePhases returns the update workflow.
func UpdatePhases() []provisioning.Phase {
	return []provisioning.Phase{
		validation.NewPhase(),
		service.NewProvisioner(),
	}
}

// Create provisions a new instance. The returned Result is never nil; its
// Message is what the operator is shown. The error is the failure cause.
func (c *Creator) Create(ctx context.Context, cfg *config.InstanceConfig) (*Result, error) {
	return c.run(ctx, FlowCreate, cfg, CreatePhases())
}

// Update regenerates the scripts of an existing instance.
func (c *Creator) Update(ctx context.Context, cfg *config.InstanceConfig) (*Result, error) {
	return c.run(ctx, FlowUpdate, cfg, UpdatePhases())
}

func (c *Creator) run(ctx context.Context, flow Flow, cfg *config.InstanceConfig, phases []provisioning.Phase) (*Result, error) {
	result := &Result{Flow: flow, ServerID: cfg.ServerID}

	l, err := paths.ForConfig(cfg)
	if err != nil {
		if errors.Is(err, paths.ErrNoServerID) {
			err = provisioning.NewFieldError("servid", "No value specified for the parameter.")
		}
		c.fail(result, nil, err)
		return result, err
	}
	result.Layout = l

	pCtx := c.newContext(ctx, cfg, l)
	result.State = pCtx.State
	pCtx.Observer.Printf("Provisioning %s of server %s (run %s)", flow, cfg.ServerID, pCtx.RunID)

	if err := provisioning.NewPipeline(phases...).Run(pCtx); err != nil {
		c.fail(result, pCtx.Observer, err)
		return result, err
	}

	result.Message = CreatedMessage
	if flow == FlowUpdate {
		result.Message = UpdatedMessage
	}
	pCtx.Notify(string(flow), result.Message)
	c.metrics.RecordRun(string(flow), "succeeded")
	return result, nil
}

func (c *Creator) newContext(ctx context.Context, cfg *config.InstanceConfig, l *paths.Layout) *provisioning.Context {
	pCtx := provisioning.NewContext(ctx, cfg, l, c.ops)
	if c.observer != nil {
		pCtx.Observer = c.observer.WithFields(map[string]string{"run": pCtx.RunID})
	}
	if c.directory != nil {
		pCtx.Directory = c.directory
	}
	if c.fetcher != nil {
		pCtx.Fetcher = c.fetcher
	}
	if c.timeouts != nil {
		pCtx.Timeouts = c.timeouts
	}
	pCtx.Metrics = c.metrics
	pCtx.Verbose = c.verbose
	return pCtx
}

func (c *Creator) fail(result *Result, observer provisioning.Observer, err error) {
	field, msg := provisioning.Describe(err)
	result.Err = err
	result.Field = field
	result.Message = FailureMessage(result.Flow, field, result.ServerID, msg)
	if observer == nil {
		observer = c.observer
	}
	if observer == nil {
		observer = provisioning.NewConsoleObserver()
	}
	observer.Event(provisioning.Event{
		Type:    provisioning.EventNotice,
		Phase:   string(result.Flow),
		Message: result.Message,
	})
	c.metrics.RecordRun(string(result.Flow), "failed")
}

// FailureMessage formats the failure line, prefixed with "<field>.error:"
// when the responsible parameter is known.
func FailureMessage(flow Flow, field, serverID, cause string) string {
	verb := "create"
	if flow == FlowUpdate {
		verb = "update"
	}
	msg := fmt.Sprintf("error:could not %s server %s - %s", verb, serverID, cause)
	if field != "" {
		msg = field + "." + msg
	}
	return msg
}
