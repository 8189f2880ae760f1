//go:build unix

package platform

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dsforge/dsinstall/internal/netutil"
)

// POSIXOps implements Ops for Unix-like systems. There is no OS-level
// service registration; the instance is controlled by its generated scripts.
type POSIXOps struct {
	ProbeTimeout time.Duration
}

// NewPOSIX creates the POSIX implementation.
func NewPOSIX() *POSIXOps {
	return &POSIXOps{ProbeTimeout: defaultProbeTimeout}
}

// Kind implements Ops.
func (p *POSIXOps) Kind() Kind { return POSIX }

// BindTest implements Ops.
func (p *POSIXOps) BindTest(ctx context.Context, address string, port int) (netutil.PortState, error) {
	return netutil.ProbePort(ctx, address, port, p.ProbeTimeout)
}

// LookupUser implements Ops.
func (p *POSIXOps) LookupUser(name string) (*Account, error) {
	u, err := user.Lookup(name)
	if err != nil {
		var unknown user.UnknownUserError
		if errors.As(err, &unknown) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user %s: %w", name, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return nil, fmt.Errorf("user %s has non-numeric uid %q", name, u.Uid)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return nil, fmt.Errorf("user %s has non-numeric gid %q", name, u.Gid)
	}
	return &Account{Name: u.Username, UID: uid, GID: gid}, nil
}

// Chown implements Ops.
func (p *POSIXOps) Chown(path string, owner *Account) error {
	if owner == nil {
		return nil
	}
	return os.Chown(path, owner.UID, owner.GID)
}

// IsPrivileged implements Ops.
func (p *POSIXOps) IsPrivileged() bool {
	return os.Geteuid() == 0
}

// MaxDescriptors implements Ops. An unlimited soft limit is capped at
// math.MaxInt32.
func (p *POSIXOps) MaxDescriptors() int {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return 0
	}
	if uint64(rl.Cur) > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(rl.Cur)
}

// ServiceExists implements Ops. POSIX instances are not registered services.
func (p *POSIXOps) ServiceExists(string) (bool, error) { return false, nil }

// RegisterService implements Ops as a no-op.
func (p *POSIXOps) RegisterService(ServiceSpec) error { return nil }

// StartServer runs the instance's start-slapd script. Exit status 0 means
// started, 2 means it was already running; anything else is explained from
// the error log.
func (p *POSIXOps) StartServer(ctx context.Context, req StartRequest) (StartStatus, error) {
	script := filepath.Join(req.InstanceDir, "start-slapd")
	var args []string
	if req.Verbose {
		args = append(args, "-d", "1")
	}
	status, err := runCommand(ctx, script, args...)
	if err != nil {
		return StartFailed, err
	}
	switch status {
	case 0:
		return StartOK, nil
	case 2:
		return StartAlreadyRunning, nil
	}
	return ClassifyStartFailure(req.ErrorLog), nil
}

// RunScript implements Ops.
func (p *POSIXOps) RunScript(ctx context.Context, path string, args ...string) (int, error) {
	return runCommand(ctx, path, args...)
}
