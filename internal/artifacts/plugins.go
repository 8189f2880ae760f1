package artifacts

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dsforge/dsinstall/internal/ldif"
	"github.com/dsforge/dsinstall/internal/platform"
)

const (
	pluginsDN        = "cn=plugins,cn=config"
	pwdStorageDN     = "cn=Password Storage Schemes," + pluginsDN
	pluginObjectType = "nsSlapdPlugin"
)

// Plugin is one server plugin registration in dse.ldif.
type Plugin struct {
	Name    string
	Parent  string // defaults to cn=plugins,cn=config
	Classes []string
	Library string
	Init    string
	Type    string
	Enabled bool
	Args    []string
	ID      string

	// DependsOnType is emitted for the server; it does not affect ordering.
	DependsOnType []string
	// DependsOnNamed lists plugins that must be emitted before this one.
	DependsOnNamed []string

	Extra []ldif.Attr
}

// DN returns the plugin entry DN.
func (p Plugin) DN() string {
	parent := p.Parent
	if parent == "" {
		parent = pluginsDN
	}
	return "cn=" + p.Name + "," + parent
}

// Entry renders the plugin entry. pluginDir and ext locate the shared library.
func (p Plugin) Entry(pluginDir, ext string) *ldif.Entry {
	classes := append([]string{"top", pluginObjectType}, p.Classes...)
	e := ldif.NewEntry(p.DN(), classes...).
		Add("cn", p.Name).
		Add("nsslapd-pluginpath", filepath.Join(pluginDir, p.Library+ext)).
		Add("nsslapd-plugininitfunc", p.Init).
		Add("nsslapd-plugintype", p.Type).
		Add("nsslapd-pluginenabled", onOff(p.Enabled))
	for i, a := range p.Args {
		e.Add("nsslapd-pluginarg"+strconv.Itoa(i), a)
	}
	e.AddNonEmpty("nsslapd-pluginid", p.ID)
	e.Add("nsslapd-plugin-depends-on-type", p.DependsOnType...)
	e.Add("nsslapd-plugin-depends-on-named", p.DependsOnNamed...)
	e.Attrs = append(e.Attrs, p.Extra...)
	return e
}

// SortPlugins orders plugins so every plugin follows the plugins it names
// in DependsOnNamed. Among plugins whose dependencies are satisfied the
// catalog order is kept. Dependencies on plugins outside the list are
// ignored.
func SortPlugins(plugins []Plugin) ([]Plugin, error) {
	index := make(map[string]int, len(plugins))
	for i, p := range plugins {
		if _, dup := index[p.Name]; dup {
			return nil, fmt.Errorf("duplicate plugin %q", p.Name)
		}
		index[p.Name] = i
	}

	emitted := make([]bool, len(plugins))
	ready := func(p Plugin) bool {
		for _, dep := range p.DependsOnNamed {
			if i, ok := index[dep]; ok && !emitted[i] {
				return false
			}
		}
		return true
	}

	sorted := make([]Plugin, 0, len(plugins))
	for len(sorted) < len(plugins) {
		progressed := false
		for i, p := range plugins {
			if emitted[i] || !ready(p) {
				continue
			}
			emitted[i] = true
			sorted = append(sorted, p)
			progressed = true
			// Restart from the top so earlier catalog entries unblocked by
			// this one keep their relative position.
			break
		}
		if !progressed {
			var stuck []string
			for i, p := range plugins {
				if !emitted[i] {
					stuck = append(stuck, p.Name)
				}
			}
			return nil, fmt.Errorf("plugin dependency cycle among: %s", strings.Join(stuck, ", "))
		}
	}
	return sorted, nil
}

type catalogInput struct {
	kind              platform.Kind
	configDir         string
	logDir            string
	productName       string
	uniquenessSubtree string
	passThroughArg    string
	netscapeRoot      string
}

var passwordSchemes = []struct {
	name, init string
}{
	{"SSHA", "ssha_pwd_storage_scheme_init"},
	{"SSHA256", "ssha256_pwd_storage_scheme_init"},
	{"SSHA384", "ssha384_pwd_storage_scheme_init"},
	{"SSHA512", "ssha512_pwd_storage_scheme_init"},
	{"SHA", "sha_pwd_storage_scheme_init"},
	{"SHA256", "sha256_pwd_storage_scheme_init"},
	{"SHA384", "sha384_pwd_storage_scheme_init"},
	{"SHA512", "sha512_pwd_storage_scheme_init"},
	{"CRYPT", "crypt_pwd_storage_scheme_init"},
	{"MD5", "md5_pwd_storage_scheme_init"},
	{"CLEAR", "clear_pwd_storage_scheme_init"},
	{"NS-MTA-MD5", "ns_mta_md5_pwd_storage_scheme_init"},
}

var syntaxes = []struct {
	name, init string
}{
	{"Case Ignore String Syntax", "cis_init"},
	{"Case Exact String Syntax", "ces_init"},
	{"Space Insensitive String Syntax", "sicis_init"},
	{"Binary Syntax", "bin_init"},
	{"Octet String Syntax", "octetstring_init"},
	{"Boolean Syntax", "boolean_init"},
	{"Generalized Time Syntax", "time_init"},
	{"Telephone Syntax", "tel_init"},
	{"Integer Syntax", "int_init"},
	{"Distinguished Name Syntax", "dn_init"},
	{"OID Syntax", "oid_init"},
	{"URI Syntax", "uri_init"},
	{"JPEG Syntax", "jpeg_init"},
	{"Country String Syntax", "country_init"},
	{"Postal Address Syntax", "postal_init"},
}

var database = []string{"database"}

// pluginCatalog returns the plugin registrations in catalog order.
func pluginCatalog(in catalogInput) []Plugin {
	var out []Plugin

	for _, s := range passwordSchemes {
		if s.name == "CRYPT" && in.kind == platform.Windows {
			continue
		}
		out = append(out, Plugin{
			Name: s.name, Parent: pwdStorageDN,
			Library: "libpwdstorage-plugin", Init: s.init,
			Type: "pwdstoragescheme", Enabled: true,
		})
	}
	out = append(out, Plugin{
		Name: "DES", Parent: pwdStorageDN, Classes: []string{"extensibleObject"},
		Library: "libdes-plugin", Init: "des_init",
		Type: "reverpwdstoragescheme", Enabled: true,
		Args: []string{"nsmultiplexorcredentials", "nsds5ReplicaCredentials"},
		ID:   "des-storage-scheme",
	})

	for _, s := range syntaxes {
		out = append(out, Plugin{
			Name: s.name, Classes: []string{"extensibleObject"},
			Library: "libsyntax-plugin", Init: s.init,
			Type: "syntax", Enabled: true,
		})
	}

	ext := []string{"extensibleObject"}
	out = append(out,
		Plugin{
			Name: "State Change Plugin", Classes: ext,
			Library: "libstatechange-plugin", Init: "statechange_init",
			Type: "postoperation", Enabled: true,
		},
		Plugin{
			Name: "Roles Plugin", Classes: ext,
			Library: "libroles-plugin", Init: "roles_init",
			Type: "object", Enabled: true,
			DependsOnType:  database,
			DependsOnNamed: []string{"State Change Plugin", "Views"},
		},
		Plugin{
			Name: "ACL Plugin", Classes: ext,
			Library: "libacl-plugin", Init: "acl_init",
			Type: "accesscontrol", Enabled: true,
			DependsOnType: database,
		},
		Plugin{
			Name: "ACL preoperation", Classes: ext,
			Library: "libacl-plugin", Init: "acl_preopInit",
			Type: "preoperation", Enabled: true,
			DependsOnType: database,
		},
		Plugin{
			Name: "Legacy Replication Plugin", Classes: ext,
			Library: "libreplication-plugin", Init: "replication_legacy_plugin_init",
			Type: "object", Enabled: true,
			DependsOnType:  database,
			DependsOnNamed: []string{"Multimaster Replication Plugin", "Class of Service"},
		},
		Plugin{
			Name: "Multimaster Replication Plugin", Classes: ext,
			Library: "libreplication-plugin", Init: "replication_multimaster_plugin_init",
			Type: "object", Enabled: true,
			DependsOnNamed: []string{"ldbm database", "DES", "Class of Service"},
		},
		Plugin{
			Name: "Retro Changelog Plugin", Classes: ext,
			Library: "libretrocl-plugin", Init: "retrocl_plugin_init",
			Type: "object", Enabled: false,
			DependsOnType:  database,
			DependsOnNamed: []string{"Class of Service"},
		},
		Plugin{
			Name: "Class of Service", Classes: ext,
			Library: "libcos-plugin", Init: "cos_init",
			Type: "object", Enabled: true,
			DependsOnType:  database,
			DependsOnNamed: []string{"State Change Plugin", "Views"},
		},
		Plugin{
			Name: "Views", Classes: ext,
			Library: "libviews-plugin", Init: "views_init",
			Type: "object", Enabled: true,
			DependsOnType:  database,
			DependsOnNamed: []string{"State Change Plugin"},
		},
		Plugin{
			Name: "referential integrity postoperation", Classes: ext,
			Library: "libreferint-plugin", Init: "referint_postop_init",
			Type: "postoperation", Enabled: false,
			Args: []string{
				"0", filepath.Join(in.logDir, "referint"), "0",
				"member", "uniquemember", "owner", "seeAlso",
			},
			DependsOnType: database,
		},
		Plugin{
			Name: "attribute uniqueness", Classes: ext,
			Library: "libattr-unique-plugin", Init: "NSUniqueAttr_Init",
			Type: "preoperation", Enabled: false,
			Args:          []string{"uid", in.uniquenessSubtree},
			DependsOnType: database,
		},
		Plugin{
			Name: "7-bit check", Classes: ext,
			Library: "libattr-unique-plugin", Init: "NS7bitAttr_Init",
			Type: "preoperation", Enabled: true,
			Args:          []string{"uid", "mail", "userpassword", ",", in.uniquenessSubtree},
			DependsOnType: database,
		},
		Plugin{
			Name: "Internationalization Plugin", Classes: ext,
			Library: "libcollation-plugin", Init: "orderingRule_init",
			Type: "matchingRule", Enabled: true,
			Args: []string{filepath.Join(in.configDir, in.productName+"-collations.conf")},
		},
		Plugin{
			Name: "HTTP Client", Classes: ext,
			Library: "libhttp-client-plugin", Init: "http_client_init",
			Type: "preoperation", Enabled: true,
			DependsOnType: database,
		},
	)

	pta := Plugin{
		Name: "Pass Through Authentication", Classes: ext,
		Library: "libpassthru-plugin", Init: "passthruauth_init",
		Type: "preoperation", Enabled: in.passThroughArg != "",
		DependsOnType: database,
	}
	if in.passThroughArg != "" {
		pta.Args = []string{in.passThroughArg}
	}
	out = append(out, pta)

	if in.kind != platform.Windows {
		pam := Plugin{
			Name: "PAM Pass Through Auth", Classes: []string{"extensibleObject", "pamConfig"},
			Library: "libpam-passthru-plugin", Init: "pam_passthruauth_init",
			Type: "preoperation", Enabled: false,
			DependsOnType: database,
		}
		pam.Extra = append(pam.Extra,
			ldif.Attr{Name: "nsslapd-pluginLoadGlobal", Value: "true"},
			ldif.Attr{Name: "pamMissingSuffix", Value: "ALLOW"},
		)
		if in.netscapeRoot != "" {
			pam.Extra = append(pam.Extra, ldif.Attr{Name: "pamExcludeSuffix", Value: in.netscapeRoot})
		}
		pam.Extra = append(pam.Extra,
			ldif.Attr{Name: "pamExcludeSuffix", Value: "cn=config"},
			ldif.Attr{Name: "pamIDMapMethod", Value: "RDN"},
			ldif.Attr{Name: "pamIDAttr", Value: "notUsedWithRDNMethod"},
			ldif.Attr{Name: "pamFallback", Value: "FALSE"},
			ldif.Attr{Name: "pamSecure", Value: "TRUE"},
			ldif.Attr{Name: "pamService", Value: "ldapserver"},
		)
		out = append(out, pam)
	}

	out = append(out,
		Plugin{
			Name: "Distributed Numeric Assignment Plugin", Classes: []string{"extensibleObject", "nsContainer"},
			Library: "libdna-plugin", Init: "dna_init",
			Type: "preoperation", Enabled: false,
		},
		Plugin{
			Name: "ldbm database", Classes: ext,
			Library: "libback-ldbm", Init: "ldbm_back_init",
			Type: "database", Enabled: true,
			DependsOnType: []string{"Syntax", "matchingRule"},
		},
		Plugin{
			Name: "chaining database", Classes: ext,
			Library: "libchainingdb-plugin", Init: "chaining_back_init",
			Type: "database", Enabled: true,
		},
	)
	return out
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func sharedLibExt(kind platform.Kind) string {
	if kind == platform.Windows {
		return ".dll"
	}
	return ".so"
}
