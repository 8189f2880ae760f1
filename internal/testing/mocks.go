package testing

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dsforge/dsinstall/internal/ldapclient"
	"github.com/dsforge/dsinstall/internal/ldif"
	"github.com/dsforge/dsinstall/internal/netutil"
	"github.com/dsforge/dsinstall/internal/platform"
)

// MockOps is a mock implementation of platform.Ops. Unset funcs fall back to
// a healthy POSIX host: ports free, users present, starts succeed.
type MockOps struct {
	KindValue       platform.Kind
	Privileged      bool
	Descriptors     int
	BindTestFunc    func(ctx context.Context, address string, port int) (netutil.PortState, error)
	LookupUserFunc  func(name string) (*platform.Account, error)
	ChownFunc       func(path string, owner *platform.Account) error
	ServiceExistsFn func(name string) (bool, error)
	RegisterFunc    func(spec platform.ServiceSpec) error
	StartServerFunc func(ctx context.Context, req platform.StartRequest) (platform.StartStatus, error)
	RunScriptFunc   func(ctx context.Context, path string, args ...string) (int, error)

	mu    sync.Mutex
	Calls []string
}

// NewMockOps creates a POSIX MockOps.
func NewMockOps() *MockOps {
	return &MockOps{KindValue: platform.POSIX, Descriptors: 1024}
}

func (m *MockOps) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// Called returns how many times method was invoked.
func (m *MockOps) Called(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}

func (m *MockOps) Kind() platform.Kind { return m.KindValue }

func (m *MockOps) BindTest(ctx context.Context, address string, port int) (netutil.PortState, error) {
	m.record("BindTest")
	if m.BindTestFunc != nil {
		return m.BindTestFunc(ctx, address, port)
	}
	return netutil.PortFree, nil
}

func (m *MockOps) LookupUser(name string) (*platform.Account, error) {
	m.record("LookupUser")
	if m.LookupUserFunc != nil {
		return m.LookupUserFunc(name)
	}
	return &platform.Account{Name: name, UID: 389, GID: 389}, nil
}

func (m *MockOps) Chown(path string, owner *platform.Account) error {
	m.record("Chown")
	if m.ChownFunc != nil {
		return m.ChownFunc(path, owner)
	}
	return nil
}

func (m *MockOps) IsPrivileged() bool { return m.Privileged }

func (m *MockOps) MaxDescriptors() int { return m.Descriptors }

func (m *MockOps) ServiceExists(name string) (bool, error) {
	m.record("ServiceExists")
	if m.ServiceExistsFn != nil {
		return m.ServiceExistsFn(name)
	}
	return false, nil
}

func (m *MockOps) RegisterService(spec platform.ServiceSpec) error {
	m.record("RegisterService")
	if m.RegisterFunc != nil {
		return m.RegisterFunc(spec)
	}
	return nil
}

func (m *MockOps) StartServer(ctx context.Context, req platform.StartRequest) (platform.StartStatus, error) {
	m.record("StartServer")
	if m.StartServerFunc != nil {
		return m.StartServerFunc(ctx, req)
	}
	return platform.StartOK, nil
}

func (m *MockOps) RunScript(ctx context.Context, path string, args ...string) (int, error) {
	m.record("RunScript")
	if m.RunScriptFunc != nil {
		return m.RunScriptFunc(ctx, path, args...)
	}
	return 0, nil
}

// MockDirectory is a mock implementation of provisioning.Directory.
type MockDirectory struct {
	mock.Mock
}

// Running reports the mocked running state.
func (m *MockDirectory) Running(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// EnsureEntries returns the mocked summary.
func (m *MockDirectory) EnsureEntries(ctx context.Context, bindDN, bindPW string, entries []*ldif.Entry) (ldapclient.Summary, error) {
	args := m.Called(ctx, bindDN, bindPW, entries)
	return args.Get(0).(ldapclient.Summary), args.Error(1)
}

// MockFetcher is a mock implementation of provisioning.Fetcher.
type MockFetcher struct {
	FetchFunc func(ctx context.Context, source, dir string) (string, error)
	Sources   []string
}

// Fetch implements provisioning.Fetcher.
func (m *MockFetcher) Fetch(ctx context.Context, source, dir string) (string, error) {
	m.Sources = append(m.Sources, source)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, source, dir)
	}
	return dir + "/fetched.ldif", nil
}
