package testing

import (
	"context"
	"os"
	"path/filepath"

	"github.com/stretchr/testify/require"

	"github.com/dsforge/dsinstall/internal/artifacts"
	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/paths"
	"github.com/dsforge/dsinstall/internal/platform"
	"github.com/dsforge/dsinstall/internal/provisioning"
)

// T is the part of *testing.T the fixtures use. GinkgoT() satisfies it too.
type T interface {
	require.TestingT
	Helper()
	TempDir() string
}

// InstanceFixture is an instance rooted in a temporary install prefix.
type InstanceFixture struct {
	Config   *config.InstanceConfig
	Layout   *paths.Layout
	Ops      *MockOps
	Observer *RecordingObserver
}

// NewInstanceFixture roots cfg under a fresh temporary prefix and resolves
// its layout. Template sources are not created; see WithTemplates.
func NewInstanceFixture(t T, cfg *config.InstanceConfig) *InstanceFixture {
	t.Helper()
	cfg.Prefix = t.TempDir()
	l, err := paths.ForConfig(cfg)
	require.NoError(t, err)
	return &InstanceFixture{
		Config:   cfg,
		Layout:   l,
		Ops:      NewMockOps(),
		Observer: NewRecordingObserver(),
	}
}

// WithTemplates populates the script, config and schema template sources.
func (f *InstanceFixture) WithTemplates(t T) *InstanceFixture {
	t.Helper()
	for _, s := range artifacts.MaintenanceScripts(platform.POSIX) {
		if s.Source != artifacts.TemplateFile {
			continue
		}
		f.WriteScriptTemplate(t, s.Name, "#!/bin/sh\n# {{SERV-ID}} on {{SERVER-NAME}}:{{SERVER-PORT}}\ncd {{SERVER-DIR}}\n")
	}
	write(t, filepath.Join(f.Layout.ConfigTemplates, "certmap.conf"), "certmap default default\n")
	write(t, filepath.Join(f.Layout.ConfigTemplates, f.Config.ProductName+"-collations.conf"), "collation en\n")
	write(t, filepath.Join(f.Layout.SchemaTemplates, "00core.ldif"), "dn: cn=schema\n")
	write(t, filepath.Join(f.Layout.SchemaTemplates, "99user.ldif"), "dn: cn=schema\n")
	return f
}

// WriteScriptTemplate writes one maintenance script template.
func (f *InstanceFixture) WriteScriptTemplate(t T, name, body string) {
	t.Helper()
	write(t, filepath.Join(f.Layout.ScriptTemplates, artifacts.TemplateName(name)), body)
}

// Context returns a provisioning context wired to the fixture's mocks.
func (f *InstanceFixture) Context(ctx context.Context) *provisioning.Context {
	pctx := provisioning.NewContext(ctx, f.Config, f.Layout, f.Ops)
	pctx.Observer = f.Observer
	pctx.Metrics = provisioning.NewMetrics()
	return pctx
}

func write(t T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}
