package artifacts

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/ldif"
	"github.com/dsforge/dsinstall/internal/paths"
	"github.com/dsforge/dsinstall/internal/platform"
)

// DSEParams carries everything the configuration catalog is rendered from.
type DSEParams struct {
	Config         *config.InstanceConfig
	Layout         *paths.Layout
	Kind           platform.Kind
	MaxDescriptors int

	// Hashed credentials; the catalog never hashes on its own.
	RootPW        string
	ReplicationPW string
}

// Backend is a suffix served by an ldbm database instance.
type Backend struct {
	Name   string
	Suffix string
}

// Backends returns the database instances to create, in catalog order.
func Backends(cfg *config.InstanceConfig) []Backend {
	var out []Backend
	if cfg.NetscapeRoot != "" && !cfg.UseExistingConfigDS {
		out = append(out, Backend{Name: "NetscapeRoot", Suffix: cfg.NetscapeRoot})
	}
	if !cfg.UseExistingUserDS {
		out = append(out, Backend{Name: "userRoot", Suffix: cfg.Suffix})
	}
	if cfg.SampleSuffix != "" && !strings.EqualFold(cfg.SampleSuffix, cfg.Suffix) {
		out = append(out, Backend{Name: "sampleRoot", Suffix: cfg.SampleSuffix})
	}
	if cfg.TestSuffix != "" && !strings.EqualFold(cfg.TestSuffix, cfg.Suffix) {
		out = append(out, Backend{Name: "testRoot", Suffix: cfg.TestSuffix})
	}
	return out
}

const (
	ldbmDN    = "cn=ldbm database," + pluginsDN
	chainDN   = "cn=chaining database," + pluginsDN
	mappingDN = "cn=mapping tree,cn=config"
	tasksDN   = "cn=tasks,cn=config"
)

// BuildDSE renders the global configuration catalog.
func BuildDSE(p DSEParams) ([]*ldif.Entry, error) {
	if p.Config == nil || p.Layout == nil {
		return nil, fmt.Errorf("dse: config and layout are required")
	}
	cfg, l := p.Config, p.Layout

	entries := []*ldif.Entry{
		globalEntry(p),
		ldif.NewEntry(pluginsDN, "top", "nsContainer").Add("cn", "plugins"),
		ldif.NewEntry(pwdStorageDN, "top", "nsContainer").Add("cn", "Password Storage Schemes"),
	}

	uniqueness := cfg.Suffix
	if cfg.UseExistingUserDS {
		uniqueness = cfg.NetscapeRoot
	}
	plugins, err := SortPlugins(pluginCatalog(catalogInput{
		kind:              p.Kind,
		configDir:         l.Config,
		logDir:            l.Log,
		productName:       cfg.ProductName,
		uniquenessSubtree: uniqueness,
		passThroughArg:    passThroughURL(cfg),
		netscapeRoot:      cfg.NetscapeRoot,
	}))
	if err != nil {
		return nil, err
	}
	ext := sharedLibExt(p.Kind)
	for _, pl := range plugins {
		entries = append(entries, pl.Entry(l.Plugin, ext))
	}

	entries = append(entries,
		ldif.NewEntry("cn=config,"+ldbmDN, "top", "extensibleObject").
			Add("cn", "config").
			Add("nsslapd-lookthroughlimit", "5000").
			Add("nsslapd-mode", "600").
			Add("nsslapd-directory", l.DB).
			Add("nsslapd-dbcachesize", "10485760"),
		ldif.NewEntry("cn=default indexes,cn=config,"+ldbmDN, "top", "extensibleObject").
			Add("cn", "default indexes"),
	)
	entries = append(entries, indexEntries("cn=default indexes,cn=config,"+ldbmDN)...)
	entries = append(entries,
		ldif.NewEntry("cn=monitor,"+ldbmDN, "top", "extensibleObject").Add("cn", "monitor"),
		ldif.NewEntry("cn=database,cn=monitor,"+ldbmDN, "top", "extensibleObject").Add("cn", "database"),
		chainingConfig(),
		ldif.NewEntry(mappingDN, "top", "extensibleObject").Add("cn", "mapping tree"),
		ldif.NewEntry(tasksDN, "top", "extensibleObject").Add("cn", "tasks"),
	)

	for _, be := range Backends(cfg) {
		entries = append(entries, backendEntries(be)...)
	}

	for _, task := range []string{"import", "export", "backup", "restore", "upgradedb"} {
		entries = append(entries, ldif.NewEntry("cn="+task+","+tasksDN, "top", "extensibleObject").Add("cn", task))
	}

	entries = append(entries, ldif.NewEntry("cn=replication,cn=config", "top", "extensibleObject").Add("cn", "replication"))
	if cfg.ReplicationDN != "" {
		entries = append(entries, ldif.NewEntry("cn=replication4,cn=replication,cn=config", "top", "nsConsumer4Config").
			Add("cn", "replication4").
			Add("nsslapd-updatedn", cfg.ReplicationDN).
			AddNonEmpty("nsslapd-updatepw", p.ReplicationPW))
	}
	if cfg.ChangelogDir != "" {
		entries = append(entries, ldif.NewEntry("cn=changelog4,cn=config", "top", "nsChangelog4Config").
			Add("cn", "changelog4").
			Add("nsslapd-changelogdir", cfg.ChangelogDir).
			AddNonEmpty("nsslapd-changelogsuffix", cfg.ChangelogSuffix).
			Add("nsslapd-changelogmaxage", "2d"))
	}
	return entries, nil
}

func globalEntry(p DSEParams) *ldif.Entry {
	cfg, l := p.Config, p.Layout
	logDir := l.Log
	e := ldif.NewEntry("cn=config", "top", "extensibleObject", "nsslapdConfig").
		Add("cn", "config").
		Add("nsslapd-schemadir", l.Schema).
		Add("nsslapd-lockdir", l.Lock).
		Add("nsslapd-tmpdir", l.Tmp).
		Add("nsslapd-certdir", l.Cert).
		AddNonEmpty("nsslapd-saslpath", l.SASL)

	e.Add("nsslapd-accesslog-logging-enabled", "on").
		Add("nsslapd-accesslog-maxlogsperdir", "10").
		Add("nsslapd-accesslog-mode", "600").
		Add("nsslapd-accesslog-maxlogsize", "100").
		Add("nsslapd-accesslog-logrotationtime", "1").
		Add("nsslapd-accesslog-logrotationtimeunit", "day").
		Add("nsslapd-accesslog-logrotationsync-enabled", "off").
		Add("nsslapd-accesslog-logrotationsynchour", "0").
		Add("nsslapd-accesslog-logrotationsyncmin", "0").
		Add("nsslapd-accesslog", filepath.Join(logDir, "access"))

	e.Add("nsslapd-enquote-sup-oc", "off").
		Add("nsslapd-localhost", cfg.ServerName).
		Add("nsslapd-schemacheck", onOff(!cfg.DisableSchemaChecking)).
		Add("nsslapd-rewrite-rfc1274", "off").
		Add("nsslapd-return-exact-case", "on").
		Add("nsslapd-ssl-check-hostname", "on").
		Add("nsslapd-port", strconv.Itoa(cfg.Port))
	if cfg.Secure {
		e.Add("nsslapd-security", "on").
			Add("nsslapd-secureport", strconv.Itoa(cfg.SecurePort))
	}

	if cfg.LDAPIEnabled {
		socket := cfg.LDAPIPath
		if socket == "" {
			socket = filepath.Join(l.Run, platform.ServiceName(cfg.ProductName, cfg.ServerID)+".socket")
		}
		e.Add("nsslapd-ldapifilepath", socket).
			Add("nsslapd-ldapilisten", "on").
			AddIf(cfg.LDAPIAutoBind, "nsslapd-ldapiautobind", "on").
			Add("nsslapd-ldapimaprootdn", cfg.RootDN).
			Add("nsslapd-ldapimaptoentries", "off").
			Add("nsslapd-ldapiuidnumbertype", "uidNumber").
			Add("nsslapd-ldapigidnumbertype", "gidNumber").
			Add("nsslapd-ldapientrysearchbase", cfg.Suffix).
			Add("nsslapd-ldapiautodnsuffix", "cn=peercred,cn=external,cn=auth")
	}

	if p.Kind != platform.Windows {
		e.AddNonEmpty("nsslapd-localuser", cfg.ServerUser)
	}

	e.Add("nsslapd-errorlog-logging-enabled", "on").
		Add("nsslapd-errorlog-mode", "600").
		Add("nsslapd-errorlog-maxlogsperdir", "2").
		Add("nsslapd-errorlog-maxlogsize", "100").
		Add("nsslapd-errorlog-logrotationtime", "1").
		Add("nsslapd-errorlog-logrotationtimeunit", "week").
		Add("nsslapd-errorlog-logrotationsync-enabled", "off").
		Add("nsslapd-errorlog-logrotationsynchour", "0").
		Add("nsslapd-errorlog-logrotationsyncmin", "0").
		Add("nsslapd-errorlog", l.ErrorLog())

	e.Add("nsslapd-auditlog", filepath.Join(logDir, "audit")).
		Add("nsslapd-auditlog-mode", "600").
		Add("nsslapd-auditlog-maxlogsize", "100").
		Add("nsslapd-auditlog-logrotationtime", "1").
		Add("nsslapd-auditlog-logrotationtimeunit", "day")

	e.Add("nsslapd-rootdn", cfg.RootDN)
	if p.MaxDescriptors > 0 {
		e.Add("nsslapd-maxdescriptors", strconv.Itoa(p.MaxDescriptors))
	}
	e.Add("nsslapd-max-filter-nest-level", strconv.Itoa(cfg.MaxFilterNestLevel)).
		Add("nsslapd-rootpw", p.RootPW)
	return e
}

func chainingConfig() *ldif.Entry {
	return ldif.NewEntry("cn=config,"+chainDN, "top", "extensibleObject").
		Add("cn", "config").
		Add("nsTransmittedControls",
			"2.16.840.1.113730.3.4.2",
			"2.16.840.1.113730.3.4.9",
			"1.2.840.113556.1.4.473",
			"1.3.6.1.4.1.1466.29539.12").
		Add("nsPossibleChainingComponents",
			"cn=resource limits,cn=components,cn=config",
			"cn=certificate-based authentication,cn=components,cn=config",
			"cn=ACL Plugin,cn=plugins,cn=config",
			"cn=old plugin,cn=plugins,cn=config",
			"cn=referential integrity postoperation,cn=plugins,cn=config",
			"cn=attribute uniqueness,cn=plugins,cn=config")
}

func backendEntries(be Backend) []*ldif.Entry {
	base := "cn=" + be.Name + "," + ldbmDN
	quoted := `"` + be.Suffix + `"`
	entries := []*ldif.Entry{
		ldif.NewEntry(base, "top", "extensibleObject", "nsBackendInstance").
			Add("nsslapd-cachesize", "-1").
			Add("nsslapd-cachememsize", "10485760").
			Add("nsslapd-suffix", be.Suffix).
			Add("cn", be.Name),
		ldif.NewEntry("cn=monitor,"+base, "top", "extensibleObject").Add("cn", "monitor"),
		ldif.NewEntry("cn="+quoted+","+mappingDN, "top", "extensibleObject", "nsMappingTree").
			Add("cn", quoted).
			Add("nsslapd-state", "backend").
			Add("nsslapd-backend", be.Name),
		ldif.NewEntry("cn=encrypted attributes,"+base, "top", "extensibleObject").
			Add("cn", "encrypted attributes"),
		ldif.NewEntry("cn=encrypted attribute keys,"+base, "top", "extensibleObject").
			Add("cn", "encrypted attribute keys"),
		ldif.NewEntry("cn=index,"+base, "top", "extensibleObject").Add("cn", "index"),
	}
	return append(entries, indexEntries("cn=index,"+base)...)
}

type index struct {
	attr   string
	system bool
	types  []string
}

var (
	pres        = []string{"pres"}
	eq          = []string{"eq"}
	presEqSub   = []string{"pres", "eq", "sub"}
	defaultIdxs = []index{
		{"aci", true, pres},
		{"cn", false, presEqSub},
		{"entrydn", true, eq},
		{"givenName", false, presEqSub},
		{"mail", false, presEqSub},
		{"mailAlternateAddress", false, eq},
		{"mailHost", false, eq},
		{"member", false, eq},
		{"nsCalXItemId", false, presEqSub},
		{"nsLIProfileName", false, eq},
		{"nsUniqueId", true, eq},
		{"nswcalCALID", false, eq},
		{"numsubordinates", true, pres},
		{"objectclass", true, eq},
		{"owner", false, eq},
		{"parentid", true, eq},
		{"pipstatus", false, eq},
		{"pipuid", false, pres},
		{"seeAlso", false, eq},
		{"sn", false, presEqSub},
		{"telephoneNumber", false, presEqSub},
		{"uid", false, eq},
		{"ntUniqueId", false, eq},
		{"ntUserDomainId", false, eq},
		{"uniquemember", false, eq},
	}
)

// indexEntries renders the fixed default index set below parent.
func indexEntries(parent string) []*ldif.Entry {
	out := make([]*ldif.Entry, 0, len(defaultIdxs))
	for _, ix := range defaultIdxs {
		out = append(out, ldif.NewEntry("cn="+ix.attr+","+parent, "top", "nsIndex").
			Add("cn", ix.attr).
			Add("nssystemindex", strconv.FormatBool(ix.system)).
			Add("nsindextype", ix.types...))
	}
	return out
}

// passThroughURL returns the pass-through authentication target, or "" when
// the instance does not reuse an existing directory.
func passThroughURL(cfg *config.InstanceConfig) string {
	raw := cfg.ExistingDirectoryURL()
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := "ldap"
	if strings.EqualFold(u.Scheme, "ldaps") {
		scheme = "ldaps"
	}
	port := u.Port()
	if port == "" {
		port = "389"
		if scheme == "ldaps" {
			port = "636"
		}
	}
	suffix := strings.TrimPrefix(u.Path, "/")
	if cfg.UseExistingConfigDS && cfg.ConfigDSURL != "" {
		suffix = cfg.NetscapeRoot
	}
	return fmt.Sprintf("%s://%s:%s/%s", scheme, u.Hostname(), port, url.PathEscape(suffix))
}
