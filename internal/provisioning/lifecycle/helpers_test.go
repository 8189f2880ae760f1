package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/provisioning"
	testutil "github.com/dsforge/dsinstall/internal/testing"
)

func fastTimeouts() *config.Timeouts {
	return &config.Timeouts{
		StartAttempts: 2,
		StartDelay:    time.Millisecond,
		StartMaxDelay: 2 * time.Millisecond,
		ServiceStart:  time.Second,
		PortProbe:     time.Second,
		LDAPProbe:     time.Second,
		ScriptRun:     5 * time.Second,
	}
}

func newContext(t *testing.T, cfg *config.InstanceConfig, dir *testutil.MockDirectory) (*testutil.InstanceFixture, *provisioning.Context) {
	t.Helper()
	f := testutil.NewInstanceFixture(t, cfg)
	ctx := f.Context(context.Background())
	ctx.Timeouts = fastTimeouts()
	if dir != nil {
		ctx.Directory = func(string, time.Duration) provisioning.Directory { return dir }
	}
	return f, ctx
}
