package testing

import (
	"github.com/dsforge/dsinstall/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.InstanceConfig
}

// NewConfigBuilder creates a new ConfigBuilder with a minimal valid instance.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.InstanceConfig{
			ServerID:       "test1",
			ServerName:     "ldap.example.com",
			PackageName:    "dirsrv",
			ProductName:    "slapd",
			BrandName:      "dirsrv",
			Port:           389,
			SecurePort:     636,
			Suffix:         "dc=example,dc=com",
			RootDN:         "cn=Directory Manager",
			RootPW:         "secret123",
			NumProcs:       "4",
			MaxThreads:     "32",
			MinThreads:     "4",
			PasswordScheme: "SSHA",
			StartServer:    true,

			MaxFilterNestLevel: 40,
		},
	}
}

// WithServerID sets the instance id.
func (b *ConfigBuilder) WithServerID(id string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.ServerID = id
	return nb
}

// WithPrefix sets the install prefix.
func (b *ConfigBuilder) WithPrefix(prefix string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Prefix = prefix
	return nb
}

// WithPort sets the clear port.
func (b *ConfigBuilder) WithPort(port int) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Port = port
	return nb
}

// WithSecurePort enables the secure port.
func (b *ConfigBuilder) WithSecurePort(port int) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Secure = true
	nb.cfg.SecurePort = port
	return nb
}

// WithSuffix sets the user suffix.
func (b *ConfigBuilder) WithSuffix(suffix string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Suffix = suffix
	return nb
}

// WithThreads sets the process and thread counts as raw strings.
func (b *ConfigBuilder) WithThreads(numProcs, minThreads, maxThreads string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.NumProcs = numProcs
	nb.cfg.MinThreads = minThreads
	nb.cfg.MaxThreads = maxThreads
	return nb
}

// WithStart sets whether the server starts after installation.
func (b *ConfigBuilder) WithStart(start bool) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.StartServer = start
	return nb
}

// WithManagement enables management integration with an admin identity.
func (b *ConfigBuilder) WithManagement(netscapeRoot, uid, password string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.RegisterManagement = true
	nb.cfg.NetscapeRoot = netscapeRoot
	nb.cfg.AdminUID = uid
	nb.cfg.AdminPW = password
	return nb
}

// WithInstallLDIF sets the initial LDIF source.
func (b *ConfigBuilder) WithInstallLDIF(source string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.InstallLDIF = source
	return nb
}

// WithServerUser sets the run-as user.
func (b *ConfigBuilder) WithServerUser(user string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.ServerUser = user
	return nb
}

// With applies an arbitrary change.
func (b *ConfigBuilder) With(fn func(*config.InstanceConfig)) *ConfigBuilder {
	nb := b.clone()
	fn(&nb.cfg)
	return nb
}

// Build returns a copy of the configuration.
func (b *ConfigBuilder) Build() *config.InstanceConfig {
	cfg := b.cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	return &ConfigBuilder{cfg: b.cfg}
}
