package lifecycle

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/dsforge/dsinstall/internal/platform"
	"github.com/dsforge/dsinstall/internal/provisioning"
	"github.com/dsforge/dsinstall/internal/provisioning/validation"
	"github.com/dsforge/dsinstall/internal/util/retry"
)

// StartedMessage is reported after the server was brought up.
const StartedMessage = "Your new directory server has been started."

// ErrNotRunning is returned when the server accepted a start request but
// never answered.
var ErrNotRunning = errors.New("server did not answer after start")

// StartMessage explains a start outcome to the operator.
func StartMessage(status platform.StartStatus) string {
	switch status {
	case platform.StartPortInUse:
		return "The server could not be started because the port is in use."
	case platform.StartMaxSemaphores:
		return "No more servers may be installed on this system.\n" +
			"Please refer to documentation for information about how to\n" +
			"increase the number of installed servers per system."
	case platform.StartCorruptedDB:
		return "The server could not be started because the database is corrupted."
	case platform.StartNoResources:
		return "The server could not be started because the operating system is out of resources (e.g. CPU memory)."
	case platform.StartCouldNotStart:
		return "The server could not be started due to invalid command syntax or operating system resource limits."
	}
	return "The server could not be started."
}

// Start brings the new instance up and waits until it answers LDAP.
type Start struct{}

// NewStart creates the start phase.
func NewStart() *Start {
	return &Start{}
}

// Name implements the provisioning.Phase interface.
func (p *Start) Name() string {
	return "start"
}

// Enabled implements the provisioning.Conditional interface. The server is
// only started when asked to and when validation proved the ports free.
func (p *Start) Enabled(ctx *provisioning.Context) bool {
	return ctx.Config.NeedsStart() && ctx.State.PortsVerified
}

// Provision implements the provisioning.Phase interface.
func (p *Start) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config

	dir := ctx.Directory(DirectoryURL(cfg), ctx.Timeouts.LDAPProbe)
	if dir.Running(ctx) {
		ctx.State.ServerRunning = true
		ctx.Observer.Printf("[%s] Server %s is already running", p.Name(), cfg.ServerID)
		return nil
	}

	// A port taken since validation only blocks the run when management
	// integration needs the server.
	if ferr := validation.CheckPrimaryPort(ctx, cfg, ctx.Platform, ctx.Advisor(p.Name())); ferr != nil {
		if cfg.RegisterManagement {
			return ferr
		}
		ctx.Advise(p.Name(), ferr.Message)
		return nil
	}

	status, err := ctx.Platform.StartServer(ctx, platform.StartRequest{
		InstanceDir: ctx.Layout.Instance,
		ServiceName: platform.ServiceName(cfg.ProductName, cfg.ServerID),
		Verbose:     ctx.Verbose,
		ErrorLog:    filepath.Join(ctx.Layout.Log, "errors"),
		Timeout:     ctx.Timeouts.ServiceStart,
	})
	if err != nil {
		ctx.Observer.Printf("[%s] start request failed: %v", p.Name(), err)
		status = platform.StartFailed
	}
	if status.Succeeded() {
		if err := p.waitRunning(ctx, dir); err != nil {
			ctx.Observer.Printf("[%s] %v", p.Name(), err)
			status = platform.StartFailed
		}
	}

	if !status.Succeeded() {
		msg := StartMessage(status)
		if cfg.RegisterManagement {
			return provisioning.Wrap(provisioning.KindService, errors.New(msg))
		}
		ctx.Advise(p.Name(), msg)
		return nil
	}

	ctx.State.ServerRunning = true
	ctx.Notify(p.Name(), StartedMessage)
	return nil
}

func (p *Start) waitRunning(ctx *provisioning.Context, dir provisioning.Directory) error {
	t := ctx.Timeouts
	err := retry.Poll(ctx, func(c context.Context) (bool, error) {
		return dir.Running(c), nil
	},
		retry.WithMaxRetries(t.StartAttempts),
		retry.WithInitialDelay(t.StartDelay),
		retry.WithMaxDelay(maxDuration(t.StartDelay, t.StartMaxDelay)),
		retry.WithOnRetry(func(attempt int, _ error) {
			if ctx.Verbose {
				ctx.Observer.Printf("[%s] Server not answering yet (attempt %d of %d)", p.Name(), attempt, t.StartAttempts)
			}
		}),
	)
	if err != nil {
		return errors.Join(ErrNotRunning, err)
	}
	return nil
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
