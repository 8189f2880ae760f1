package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/dsforge/dsinstall/internal/config"
)

// Category names a logical directory of an instance.
type Category string

// Directory categories, in the order the installer creates them.
const (
	Instance Category = "instance"
	Config   Category = "config"
	Schema   Category = "schema"
	Lock     Category = "lock"
	Log      Category = "log"
	Run      Category = "run"
	Tmp      Category = "tmp"
	DB       Category = "db"
	Bak      Category = "bak"
	LDIF     Category = "ldif"
	Cert     Category = "cert"
	SASL     Category = "sasl"
	Plugin   Category = "plugin"
)

// Categories lists every directory category.
var Categories = []Category{Instance, Config, Schema, Lock, Log, Run, Tmp, DB, Bak, LDIF, Cert, SASL, Plugin}

// Default base directories, relative to the install prefix.
const (
	DefaultLibDir        = "/usr/lib"
	DefaultSysConfDir    = "/etc"
	DefaultLocalStateDir = "/var"
	DefaultDataDir       = "/usr/share"
	DefaultSbinDir       = "/usr/sbin"
)

// Bases holds the base directories categories are derived from.
type Bases struct {
	LibDir        string
	SysConfDir    string
	LocalStateDir string
	DataDir       string
	SbinDir       string
}

// Input is everything Resolve needs.
type Input struct {
	Prefix      string
	PackageName string
	ProductName string
	ServerID    string
	Bases       Bases
	Overrides   map[Category]string
	// GOOS selects platform specific defaults; empty means runtime.GOOS.
	GOOS string
}

// Layout is the derived set of absolute paths for one instance.
type Layout struct {
	ServerRoot string
	Instance   string
	Config     string
	Schema     string
	Lock       string
	Log        string
	Run        string
	Tmp        string
	DB         string
	Bak        string
	LDIF       string
	Cert       string
	SASL       string
	Plugin     string

	ConfBak         string
	ScriptTemplates string
	ConfigTemplates string
	SchemaTemplates string
	SharedConfig    string
	ServerBin       string
}

// ErrNoServerID is returned when the instance id is empty.
var ErrNoServerID = errors.New("server id is required to derive instance paths")

// Resolve derives the instance layout.
//
// An override is used verbatim when absolute and joined under the prefix
// otherwise. Without an override each category follows
// {base}/{package}/{product}-{servid}[/subpath].
func Resolve(in Input) (*Layout, error) {
	if in.ServerID == "" {
		return nil, ErrNoServerID
	}
	if in.PackageName == "" || in.ProductName == "" {
		return nil, fmt.Errorf("package and product names are required")
	}

	goos := in.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	root := absolute(in.Prefix)
	base := func(v, def string) string {
		if v == "" {
			v = def
		}
		return filepath.Join(root, v)
	}
	libDir := base(in.Bases.LibDir, DefaultLibDir)
	sysConfDir := base(in.Bases.SysConfDir, DefaultSysConfDir)
	stateDir := base(in.Bases.LocalStateDir, DefaultLocalStateDir)
	dataDir := base(in.Bases.DataDir, DefaultDataDir)
	sbinDir := base(in.Bases.SbinDir, DefaultSbinDir)

	pkg := in.PackageName
	inst := in.ProductName + "-" + in.ServerID
	sroot := filepath.Join(libDir, pkg)

	pick := func(c Category, derived string) string {
		if v, ok := in.Overrides[c]; ok && v != "" {
			if filepath.IsAbs(v) {
				return filepath.Clean(v)
			}
			return filepath.Join(root, v)
		}
		return derived
	}

	l := &Layout{ServerRoot: sroot}
	l.Instance = pick(Instance, filepath.Join(sroot, inst))
	l.Config = pick(Config, filepath.Join(sysConfDir, pkg, inst))
	l.Schema = pick(Schema, filepath.Join(l.Config, "schema"))
	l.Cert = pick(Cert, l.Config)
	l.Lock = pick(Lock, filepath.Join(stateDir, "lock", pkg, inst))
	l.Log = pick(Log, filepath.Join(stateDir, "log", pkg, inst))
	l.Run = pick(Run, filepath.Join(stateDir, "run", pkg))
	l.Tmp = pick(Tmp, filepath.Join(stateDir, "tmp", pkg, inst))
	l.DB = pick(DB, filepath.Join(stateDir, "lib", pkg, inst, "db"))
	l.Bak = pick(Bak, filepath.Join(stateDir, "lib", pkg, inst, "bak"))
	l.LDIF = pick(LDIF, filepath.Join(dataDir, pkg, "ldif"))
	l.Plugin = pick(Plugin, filepath.Join(sroot, "plugins"))

	// The SASL mechanisms ship with the OS on Linux.
	sasl := ""
	if goos != "linux" {
		sasl = filepath.Join(sroot, "sasl2")
	}
	l.SASL = pick(SASL, sasl)

	l.ConfBak = filepath.Join(l.Config, "confbak")
	l.ScriptTemplates = filepath.Join(dataDir, pkg, "script-templates")
	l.ConfigTemplates = filepath.Join(sysConfDir, pkg, "config")
	l.SchemaTemplates = filepath.Join(sysConfDir, pkg, "schema")
	l.SharedConfig = filepath.Join(sroot, "shared", "config")
	l.ServerBin = sbinDir

	return l, nil
}

// FromConfig builds the resolver input for an instance configuration.
func FromConfig(cfg *config.InstanceConfig) Input {
	d := cfg.Dirs
	overrides := map[Category]string{
		Instance: d.Instance,
		Config:   d.Config,
		Schema:   d.Schema,
		Lock:     d.Lock,
		Log:      d.Log,
		Run:      d.Run,
		Tmp:      d.Tmp,
		DB:       d.DB,
		Bak:      d.Bak,
		LDIF:     d.LDIF,
		Cert:     d.Cert,
		SASL:     d.SASL,
		Plugin:   d.Plugin,
	}
	return Input{
		Prefix:      cfg.Prefix,
		PackageName: cfg.PackageName,
		ProductName: cfg.ProductName,
		ServerID:    cfg.ServerID,
		Bases: Bases{
			LibDir:        d.LibDir,
			SysConfDir:    d.SysConfDir,
			LocalStateDir: d.LocalStateDir,
			DataDir:       d.DataDir,
			SbinDir:       d.SbinDir,
		},
		Overrides: overrides,
	}
}

// ForConfig resolves the layout of an instance configuration.
func ForConfig(cfg *config.InstanceConfig) (*Layout, error) {
	return Resolve(FromConfig(cfg))
}

// Dir returns the path of a category, or "" for an unknown one.
func (l *Layout) Dir(c Category) string {
	switch c {
	case Instance:
		return l.Instance
	case Config:
		return l.Config
	case Schema:
		return l.Schema
	case Lock:
		return l.Lock
	case Log:
		return l.Log
	case Run:
		return l.Run
	case Tmp:
		return l.Tmp
	case DB:
		return l.DB
	case Bak:
		return l.Bak
	case LDIF:
		return l.LDIF
	case Cert:
		return l.Cert
	case SASL:
		return l.SASL
	case Plugin:
		return l.Plugin
	}
	return ""
}

// ErrorLog returns the path of the server error log.
func (l *Layout) ErrorLog() string {
	return filepath.Join(l.Log, "errors")
}

func absolute(p string) string {
	if p == "" {
		return string(filepath.Separator)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(string(filepath.Separator), p)
}
