package platform

import (
	"context"
	"errors"
	"time"

	"github.com/dsforge/dsinstall/internal/netutil"
)

// Kind identifies the active platform family.
type Kind string

const (
	// POSIX systems control the server through generated shell scripts.
	POSIX Kind = "posix"
	// Windows systems register the server with the service manager.
	Windows Kind = "windows"
)

// ErrUserNotFound is returned by LookupUser when no account matches.
var ErrUserNotFound = errors.New("user not found")

// Account is a resolved OS account.
type Account struct {
	Name string
	UID  int
	GID  int
}

// StartStatus is the outcome of a start request.
type StartStatus int

const (
	StartOK StartStatus = iota
	StartAlreadyRunning
	StartPortInUse
	StartMaxSemaphores
	StartCorruptedDB
	StartNoResources
	StartCouldNotStart
	StartFailed
)

// Succeeded reports whether the server is running after the request.
func (s StartStatus) Succeeded() bool {
	return s == StartOK || s == StartAlreadyRunning
}

// ServiceSpec describes the OS service registration of an instance.
type ServiceSpec struct {
	ServerID    string
	ServerRoot  string
	InstanceDir string
	ConfigDir   string
	ServerBin   string
	ProductName string
	BrandName   string
}

// StartRequest asks the platform to start an instance.
type StartRequest struct {
	InstanceDir string
	ServiceName string
	Verbose     bool
	ErrorLog    string
	// Timeout bounds how long a start request may stay pending. Zero
	// selects DefaultStartTimeout.
	Timeout time.Duration
}

// Ops is the capability interface to the host OS.
type Ops interface {
	// Kind returns the platform family.
	Kind() Kind

	// BindTest probes address:port. Connect success means in use.
	BindTest(ctx context.Context, address string, port int) (netutil.PortState, error)

	// LookupUser resolves an account name, returning ErrUserNotFound if absent.
	LookupUser(name string) (*Account, error)

	// Chown changes ownership of path. A nil owner is a no-op.
	Chown(path string, owner *Account) error

	// IsPrivileged reports whether the process runs with elevated privilege.
	IsPrivileged() bool

	// MaxDescriptors returns the descriptor limit to configure, or 0 to omit it.
	MaxDescriptors() int

	// ServiceExists reports whether a service with this name is registered.
	ServiceExists(name string) (bool, error)

	// RegisterService registers the instance with the OS service manager.
	RegisterService(spec ServiceSpec) error

	// StartServer starts the instance and reports the outcome.
	StartServer(ctx context.Context, req StartRequest) (StartStatus, error)

	// RunScript runs a helper script and returns its exit status.
	RunScript(ctx context.Context, path string, args ...string) (int, error)
}

// ServiceName returns the service name used for an instance.
func ServiceName(productName, serverID string) string {
	return productName + "-" + serverID
}

const defaultProbeTimeout = 2 * time.Second
