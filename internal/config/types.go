package config

// InstanceConfig describes one directory server instance to be created.
//
// Thread counts are kept as the raw strings the operator supplied; the
// validator checks that they are all-digit positive integers.
type InstanceConfig struct {
	// Identity
	ServerID    string `mapstructure:"servid" yaml:"servid"`
	ServerName  string `mapstructure:"servname" yaml:"servname"`
	Prefix      string `mapstructure:"prefix" yaml:"prefix,omitempty"`
	PackageName string `mapstructure:"package_name" yaml:"package_name" default:"dirsrv"`
	ProductName string `mapstructure:"product_name" yaml:"product_name" default:"slapd"`
	BrandName   string `mapstructure:"brand_name" yaml:"brand_name" default:"dirsrv"`

	// Network
	BindAddress   string `mapstructure:"bind_address" yaml:"bind_address,omitempty"`
	Port          int    `mapstructure:"servport" yaml:"servport" default:"389"`
	Secure        bool   `mapstructure:"secure" yaml:"secure,omitempty"`
	SecurePort    int    `mapstructure:"secservport" yaml:"secservport,omitempty" default:"636"`
	LDAPIEnabled  bool   `mapstructure:"ldapi_enabled" yaml:"ldapi_enabled,omitempty"`
	LDAPIPath     string `mapstructure:"ldapi_path" yaml:"ldapi_path,omitempty"`
	LDAPIAutoBind bool   `mapstructure:"ldapi_autobind" yaml:"ldapi_autobind,omitempty"`

	// Naming
	Suffix          string `mapstructure:"suffix" yaml:"suffix" default:"dc=example, dc=com"`
	RootDN          string `mapstructure:"rootdn" yaml:"rootdn" default:"cn=Directory Manager"`
	RootPW          string `mapstructure:"rootpw" yaml:"rootpw"`
	RootPWHashed    string `mapstructure:"rootpw_hashed" yaml:"rootpw_hashed,omitempty"`
	SampleSuffix    string `mapstructure:"samplesuffix" yaml:"samplesuffix,omitempty"`
	TestSuffix      string `mapstructure:"testconfig_suffix" yaml:"testconfig_suffix,omitempty"`
	ReplicationDN   string `mapstructure:"replicationdn" yaml:"replicationdn,omitempty"`
	ReplicationPW   string `mapstructure:"replicationpw" yaml:"replicationpw,omitempty"`
	ConsumerDN      string `mapstructure:"consumerdn" yaml:"consumerdn,omitempty"`
	ConsumerPW      string `mapstructure:"consumerpw" yaml:"consumerpw,omitempty"`
	ChangelogSuffix string `mapstructure:"changelogsuffix" yaml:"changelogsuffix,omitempty"`
	ChangelogDir    string `mapstructure:"changelogdir" yaml:"changelogdir,omitempty"`
	NetscapeRoot    string `mapstructure:"netscaperoot" yaml:"netscaperoot,omitempty"`
	AdminUID        string `mapstructure:"cfg_sspt_uid" yaml:"cfg_sspt_uid,omitempty"`
	AdminPW         string `mapstructure:"cfg_sspt_uidpw" yaml:"cfg_sspt_uidpw,omitempty"`

	// Filesystem layout overrides; empty fields are derived.
	Dirs DirsConfig `mapstructure:"dirs" yaml:"dirs,omitempty"`

	// Policy
	NumProcs              string `mapstructure:"numprocs" yaml:"numprocs" default:"4"`
	MaxThreads            string `mapstructure:"maxthreads" yaml:"maxthreads" default:"32"`
	MinThreads            string `mapstructure:"minthreads" yaml:"minthreads" default:"4"`
	DisableSchemaChecking bool   `mapstructure:"disable_schema_checking" yaml:"disable_schema_checking,omitempty"`
	StartServer           bool   `mapstructure:"start_server" yaml:"start_server" default:"true"`
	RegisterManagement    bool   `mapstructure:"cfg_sspt" yaml:"cfg_sspt,omitempty"`
	UseExistingConfigDS   bool   `mapstructure:"use_existing_config_ds" yaml:"use_existing_config_ds,omitempty"`
	UseExistingUserDS     bool   `mapstructure:"use_existing_user_ds" yaml:"use_existing_user_ds,omitempty"`
	ConfigDSURL           string `mapstructure:"config_ds_url" yaml:"config_ds_url,omitempty"`
	UserDSURL             string `mapstructure:"user_ds_url" yaml:"user_ds_url,omitempty"`
	InstallLDIF           string `mapstructure:"install_ldif_file" yaml:"install_ldif_file,omitempty"`
	PasswordScheme        string `mapstructure:"password_scheme" yaml:"password_scheme,omitempty" default:"SSHA"`
	MaxFilterNestLevel    int    `mapstructure:"max_filter_nest_level" yaml:"max_filter_nest_level,omitempty" default:"40"`

	// OS identity (POSIX only)
	ServerUser string `mapstructure:"servuser" yaml:"servuser,omitempty"`
}

// DirsConfig holds base directory and per-category overrides.
type DirsConfig struct {
	LibDir        string `mapstructure:"libdir" yaml:"libdir,omitempty"`
	SysConfDir    string `mapstructure:"sysconfdir" yaml:"sysconfdir,omitempty"`
	LocalStateDir string `mapstructure:"localstatedir" yaml:"localstatedir,omitempty"`
	DataDir       string `mapstructure:"datadir" yaml:"datadir,omitempty"`
	SbinDir       string `mapstructure:"sbindir" yaml:"sbindir,omitempty"`

	Instance string `mapstructure:"instance" yaml:"instance,omitempty"`
	Config   string `mapstructure:"config" yaml:"config,omitempty"`
	Schema   string `mapstructure:"schema" yaml:"schema,omitempty"`
	Lock     string `mapstructure:"lock" yaml:"lock,omitempty"`
	Log      string `mapstructure:"log" yaml:"log,omitempty"`
	Run      string `mapstructure:"run" yaml:"run,omitempty"`
	Tmp      string `mapstructure:"tmp" yaml:"tmp,omitempty"`
	DB       string `mapstructure:"db" yaml:"db,omitempty"`
	Bak      string `mapstructure:"bak" yaml:"bak,omitempty"`
	LDIF     string `mapstructure:"ldif" yaml:"ldif,omitempty"`
	Cert     string `mapstructure:"cert" yaml:"cert,omitempty"`
	SASL     string `mapstructure:"sasl" yaml:"sasl,omitempty"`
	Plugin   string `mapstructure:"plugin" yaml:"plugin,omitempty"`
}

// NeedsStart reports whether the instance must be startable right after
// installation, either because the operator asked for it or because
// management integration needs a running server.
func (c *InstanceConfig) NeedsStart() bool {
	return c.StartServer || c.RegisterManagement
}

// ExistingDirectoryURL returns the URL of an external directory the new
// instance should pass authentication through to, if any.
func (c *InstanceConfig) ExistingDirectoryURL() string {
	if c.UseExistingConfigDS && c.ConfigDSURL != "" {
		return c.ConfigDSURL
	}
	if c.UseExistingUserDS && c.UserDSURL != "" {
		return c.UserDSURL
	}
	return ""
}
