//go:build windows

package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/eventlog"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/dsforge/dsinstall/internal/netutil"
)

const (
	snmpExtensionAgentsKey = `SYSTEM\CurrentControlSet\Services\SNMP\Parameters\ExtensionAgents`
	serviceDeleteTimeout   = 30 * time.Second
)

// WindowsOps implements Ops on top of the Windows service manager and registry.
type WindowsOps struct {
	ProbeTimeout time.Duration
	PollInterval time.Duration
}

// NewWindows creates the Windows implementation.
func NewWindows() *WindowsOps {
	return &WindowsOps{ProbeTimeout: defaultProbeTimeout, PollInterval: time.Second}
}

// Kind implements Ops.
func (w *WindowsOps) Kind() Kind { return Windows }

// BindTest implements Ops.
func (w *WindowsOps) BindTest(ctx context.Context, address string, port int) (netutil.PortState, error) {
	return netutil.ProbePort(ctx, address, port, w.ProbeTimeout)
}

// LookupUser implements Ops. The service runs as LocalSystem, so no run-as
// account is resolved.
func (w *WindowsOps) LookupUser(string) (*Account, error) { return nil, nil }

// Chown implements Ops as a no-op.
func (w *WindowsOps) Chown(string, *Account) error { return nil }

// IsPrivileged implements Ops.
func (w *WindowsOps) IsPrivileged() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// MaxDescriptors implements Ops. The descriptor limit is not configured on Windows.
func (w *WindowsOps) MaxDescriptors() int { return 0 }

// ServiceExists implements Ops.
func (w *WindowsOps) ServiceExists(name string) (bool, error) {
	m, err := mgr.Connect()
	if err != nil {
		return false, fmt.Errorf("failed to connect to service manager: %w", err)
	}
	defer func() { _ = m.Disconnect() }()

	s, err := m.OpenService(name)
	if err != nil {
		if errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open service %s: %w", name, err)
	}
	_ = s.Close()
	return true, nil
}

// RegisterService creates the hidden support directories, writes the
// product and SNMP registry entries and (re)installs the service.
func (w *WindowsOps) RegisterService(spec ServiceSpec) error {
	if err := createSupportDirs(spec.InstanceDir); err != nil {
		return err
	}
	if err := writeProductKeys(spec); err != nil {
		return err
	}
	if err := registerSNMPAgent(spec); err != nil {
		return err
	}
	return w.installService(spec)
}

func createSupportDirs(instanceDir string) error {
	authdb := filepath.Join(instanceDir, "authdb")
	for _, dir := range []string{authdb, filepath.Join(authdb, "default")} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("mkdir %s failed (%w)", dir, err)
		}
	}
	p, err := windows.UTF16PtrFromString(authdb)
	if err != nil {
		return err
	}
	if err := windows.SetFileAttributes(p, windows.FILE_ATTRIBUTE_HIDDEN); err != nil {
		return fmt.Errorf("failed to hide %s: %w", authdb, err)
	}
	return nil
}

func productKeyPath(spec ServiceSpec) string {
	return `SOFTWARE\` + spec.BrandName + `\Directory Server\` + ServiceName(spec.ProductName, spec.ServerID)
}

func snmpKeyPath(spec ServiceSpec) string {
	return `SOFTWARE\` + spec.BrandName + `\SNMP\` + ServiceName(spec.ProductName, spec.ServerID) + `\CurrentVersion`
}

func writeProductKeys(spec ServiceSpec) error {
	k, _, err := registry.CreateKey(registry.LOCAL_MACHINE, productKeyPath(spec), registry.ALL_ACCESS)
	if err != nil {
		return fmt.Errorf("failed to create registry key %s: %w", productKeyPath(spec), err)
	}
	defer k.Close()

	values := map[string]string{
		"ConfigurationPath": spec.ConfigDir,
		"InstanceDir":       spec.InstanceDir,
		"ServerRoot":        spec.ServerRoot,
	}
	for name, value := range values {
		if err := k.SetStringValue(name, value); err != nil {
			return fmt.Errorf("failed to set registry value %s: %w", name, err)
		}
	}
	return nil
}

// registerSNMPAgent adds the instance's agent to the SNMP extension agent
// list unless an index already points at it.
func registerSNMPAgent(spec ServiceSpec) error {
	agent, _, err := registry.CreateKey(registry.LOCAL_MACHINE, snmpKeyPath(spec), registry.ALL_ACCESS)
	if err != nil {
		return fmt.Errorf("failed to create registry key %s: %w", snmpKeyPath(spec), err)
	}
	pathname := filepath.Join(spec.InstanceDir, "ldap-agent.dll")
	err = agent.SetStringValue("Pathname", pathname)
	_ = agent.Close()
	if err != nil {
		return fmt.Errorf("failed to set SNMP agent path: %w", err)
	}

	agents, _, err := registry.CreateKey(registry.LOCAL_MACHINE, snmpExtensionAgentsKey, registry.ALL_ACCESS)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", snmpExtensionAgentsKey, err)
	}
	defer agents.Close()

	names, err := agents.ReadValueNames(-1)
	if err != nil {
		return fmt.Errorf("failed to list SNMP extension agents: %w", err)
	}
	next := 1
	for _, name := range names {
		value, _, err := agents.GetStringValue(name)
		if err == nil && value == snmpKeyPath(spec) {
			return nil
		}
		if idx, err := strconv.Atoi(name); err == nil && idx >= next {
			next = idx + 1
		}
	}
	if err := agents.SetStringValue(strconv.Itoa(next), snmpKeyPath(spec)); err != nil {
		return fmt.Errorf("failed to register SNMP extension agent: %w", err)
	}
	return nil
}

func (w *WindowsOps) waitDeleted(m *mgr.Mgr, name string) error {
	return pollUntil(context.Background(), serviceDeleteTimeout, w.PollInterval, func() (bool, error) {
		s, err := m.OpenService(name)
		if err != nil {
			if errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST) {
				return true, nil
			}
			return false, err
		}
		_ = s.Close()
		return false, nil
	})
}

func (w *WindowsOps) installService(spec ServiceSpec) error {
	name := ServiceName(spec.ProductName, spec.ServerID)
	m, err := mgr.Connect()
	if err != nil {
		return serviceError(name, err)
	}
	defer func() { _ = m.Disconnect() }()

	if existing, err := m.OpenService(name); err == nil {
		delErr := existing.Delete()
		_ = existing.Close()
		if delErr != nil {
			return serviceError(name, delErr)
		}
		// The service manager removes a deleted service once every handle
		// is closed; creating it again before that fails.
		if err := w.waitDeleted(m, name); err != nil {
			return serviceError(name, err)
		}
	}

	binary := filepath.Join(spec.ServerBin, "ns-slapd.exe")
	s, err := m.CreateService(name, binary, mgr.Config{
		DisplayName: fmt.Sprintf("Directory Server (%s)", spec.ServerID),
		StartType:   mgr.StartAutomatic,
	}, "-D", spec.ConfigDir)
	if err != nil {
		return serviceError(name, err)
	}
	defer s.Close()

	// Event log registration is best effort; the source may already exist.
	_ = eventlog.InstallAsEventCreate(name, eventlog.Error|eventlog.Warning|eventlog.Info)
	return nil
}

func serviceError(name string, err error) error {
	code := 0
	var errno syscall.Errno
	if errors.As(err, &errno) {
		code = int(errno)
	}
	return fmt.Errorf("While installing %s Service, the NT Service Manager reported error %d (%w)", name, code, err)
}

// StartServer starts the registered service and waits for it to run.
func (w *WindowsOps) StartServer(ctx context.Context, req StartRequest) (StartStatus, error) {
	name := req.ServiceName
	m, err := mgr.Connect()
	if err != nil {
		return StartFailed, fmt.Errorf("failed to connect to service manager: %w", err)
	}
	defer func() { _ = m.Disconnect() }()

	s, err := m.OpenService(name)
	if err != nil {
		return StartFailed, fmt.Errorf("failed to open service %s: %w", name, err)
	}
	defer s.Close()

	if st, err := s.Query(); err == nil && st.State == svc.Running {
		return StartAlreadyRunning, nil
	}
	if err := s.Start(); err != nil {
		return ClassifyStartFailure(req.ErrorLog), nil
	}

	state, err := waitForService(ctx, req.Timeout, w.PollInterval, func() (ServiceState, error) {
		st, err := s.Query()
		if err != nil {
			return ServicePending, fmt.Errorf("failed to query service %s: %w", name, err)
		}
		switch st.State {
		case svc.Running:
			return ServiceRunning, nil
		case svc.Stopped:
			return ServiceStopped, nil
		}
		return ServicePending, nil
	})
	switch {
	case errors.Is(err, ErrTimeout):
		return StartCouldNotStart, fmt.Errorf("service %s still pending after %s: %w", name, req.Timeout, err)
	case err != nil:
		return StartFailed, err
	case state == ServiceRunning:
		return StartOK, nil
	}
	return ClassifyStartFailure(req.ErrorLog), nil
}

// RunScript runs a batch script through the command interpreter.
func (w *WindowsOps) RunScript(ctx context.Context, path string, args ...string) (int, error) {
	return runCommand(ctx, "cmd", append([]string{"/C", path}, args...)...)
}
