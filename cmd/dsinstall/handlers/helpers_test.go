package handlers

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/orchestration"
	"github.com/dsforge/dsinstall/internal/platform"
	testutil "github.com/dsforge/dsinstall/internal/testing"
)

// saveAndRestoreFactories saves and restores the provisioning factory functions.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLoadConfig := loadConfig
	origNewOps := newOps
	origNewCreator := newCreator

	t.Cleanup(func() {
		loadConfig = origLoadConfig
		newOps = origNewOps
		newCreator = origNewCreator
	})
}

// stubConfig makes loadConfig return cfg for any path.
func stubConfig(cfg *config.InstanceConfig) {
	loadConfig = func(string) (*config.InstanceConfig, error) {
		return cfg, nil
	}
}

// stubOps makes newOps return ops.
func stubOps(ops platform.Ops) {
	newOps = func() platform.Ops { return ops }
}

type fakeCreator struct {
	result  *orchestration.Result
	err     error
	created int
	updated int
}

func (f *fakeCreator) Create(_ context.Context, cfg *config.InstanceConfig) (*orchestration.Result, error) {
	f.created++
	f.result.ServerID = cfg.ServerID
	return f.result, f.err
}

func (f *fakeCreator) Update(_ context.Context, cfg *config.InstanceConfig) (*orchestration.Result, error) {
	f.updated++
	f.result.ServerID = cfg.ServerID
	return f.result, f.err
}

// stubCreator installs creator and records how many options it was built with.
func stubCreator(creator *fakeCreator, optCount *int) {
	newCreator = func(_ platform.Ops, opts ...orchestration.Option) InstanceCreator {
		if optCount != nil {
			*optCount = len(opts)
		}
		return creator
	}
}

func testConfig() *config.InstanceConfig {
	return testutil.NewConfigBuilder().WithServerID("ldap1").WithStart(false).Build()
}

func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}
