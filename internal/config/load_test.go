package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load([]byte("servid: test1\nservname: ldap.example.com\nrootpw: secret123\n"))
	require.NoError(t, err)

	assert.Equal(t, "test1", cfg.ServerID)
	assert.Equal(t, 389, cfg.Port)
	assert.Equal(t, 636, cfg.SecurePort)
	assert.Equal(t, "dc=example, dc=com", cfg.Suffix)
	assert.Equal(t, "cn=Directory Manager", cfg.RootDN)
	assert.Equal(t, "4", cfg.NumProcs)
	assert.Equal(t, "32", cfg.MaxThreads)
	assert.Equal(t, "4", cfg.MinThreads)
	assert.Equal(t, "dirsrv", cfg.PackageName)
	assert.Equal(t, "slapd", cfg.ProductName)
	assert.Equal(t, "SSHA", cfg.PasswordScheme)
	assert.Equal(t, 40, cfg.MaxFilterNestLevel)
	assert.True(t, cfg.StartServer)
}

func TestLoad_ExplicitFalseWins(t *testing.T) {
	cfg, err := Load([]byte("servid: test1\nservname: h\nstart_server: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.StartServer)
	assert.False(t, cfg.NeedsStart())
}

func TestLoad_WeakTyping(t *testing.T) {
	cfg, err := Load([]byte("servid: test1\nservname: h\nservport: \"1389\"\nmaxthreads: 64\nminthreads: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 1389, cfg.Port)
	assert.Equal(t, "64", cfg.MaxThreads)
	assert.Equal(t, "8", cfg.MinThreads)
}

func TestLoad_Dirs(t *testing.T) {
	cfg, err := Load([]byte("servid: test1\nservname: h\ndirs:\n  localstatedir: /srv/var\n  log: /logs/ds\n"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/var", cfg.Dirs.LocalStateDir)
	assert.Equal(t, "/logs/ds", cfg.Dirs.Log)
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load([]byte("servid: test1\nserverport: 389\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load([]byte("servid: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "instance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("servid: fromfile\nservname: h\n"), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.ServerID)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestApplyEnvironment(t *testing.T) {
	t.Parallel()
	env := map[string]string{
		"NETSITE_ROOT":       "/opt/netsite",
		"DSINSTALL_SERVUSER": "dirsrv",
	}
	cfg := &InstanceConfig{}
	ApplyEnvironment(cfg, func(k string) string { return env[k] })
	assert.Equal(t, "/opt/netsite", cfg.Prefix)
	assert.Equal(t, "dirsrv", cfg.ServerUser)

	env["DSINSTALL_PREFIX"] = "/opt/ds"
	cfg = &InstanceConfig{}
	ApplyEnvironment(cfg, func(k string) string { return env[k] })
	assert.Equal(t, "/opt/ds", cfg.Prefix)

	cfg = &InstanceConfig{Prefix: "/keep"}
	ApplyEnvironment(cfg, func(k string) string { return env[k] })
	assert.Equal(t, "/keep", cfg.Prefix)
}

func TestNew_HostDefaults(t *testing.T) {
	orig := hostname
	hostname = func() (string, error) { return "ldap1.example.com", nil }
	defer func() { hostname = orig }()

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "ldap1.example.com", cfg.ServerName)
	assert.Equal(t, "ldap1", cfg.ServerID)
}
