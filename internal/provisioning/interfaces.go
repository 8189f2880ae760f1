package provisioning

import (
	"context"
	"time"

	"github.com/dsforge/dsinstall/internal/ldapclient"
	"github.com/dsforge/dsinstall/internal/ldif"
	"github.com/dsforge/dsinstall/internal/platform/s3"
)

// Logger is the minimal printf-style sink every observer provides.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Conditional is implemented by phases that only run for some configurations.
// A phase whose Enabled returns false is reported as skipped.
type Conditional interface {
	Enabled(ctx *Context) bool
}

// Directory is the LDAP view of a running instance.
// Implemented by internal/ldapclient.Client.
type Directory interface {
	// Running reports whether the server answers a root DSE read.
	Running(ctx context.Context) bool

	// EnsureEntries binds and adds entries, skipping ones that already exist.
	EnsureEntries(ctx context.Context, bindDN, bindPW string, entries []*ldif.Entry) (ldapclient.Summary, error)
}

// DirectoryFactory connects a Directory to an LDAP URL.
type DirectoryFactory func(url string, timeout time.Duration) Directory

// Fetcher downloads a remote LDIF source into a local directory.
// Implemented by internal/platform/s3.Client.
type Fetcher interface {
	Fetch(ctx context.Context, source, dir string) (string, error)
}

// FetcherFactory builds a Fetcher on first use.
type FetcherFactory func(ctx context.Context) (Fetcher, error)

// DefaultDirectory dials real LDAP servers.
func DefaultDirectory(url string, timeout time.Duration) Directory {
	return ldapclient.New(url, timeout)
}

// DefaultFetcher builds an S3 client from the environment.
func DefaultFetcher(ctx context.Context) (Fetcher, error) {
	return s3.NewClient(ctx, s3.OptionsFromEnv())
}
