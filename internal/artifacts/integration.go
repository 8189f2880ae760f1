package artifacts

import (
	"fmt"
	"strings"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/dn"
	"github.com/dsforge/dsinstall/internal/ldif"
)

// Management tree containers below the netscape root suffix.
const (
	TopologyOU       = "ou=TopologyManagement"
	AdministratorsOU = "ou=Administrators," + TopologyOU
)

var rootObjectClasses = map[string]string{
	"dc": "domain",
	"o":  "organization",
	"ou": "organizationalUnit",
	"c":  "country",
	"l":  "locality",
}

// SuffixEntry returns the root entry of a suffix.
func SuffixEntry(suffix string) (*ldif.Entry, error) {
	typ, val, err := dn.LeadingRDN(suffix)
	if err != nil {
		return nil, fmt.Errorf("suffix %q: %w", suffix, err)
	}
	class, ok := rootObjectClasses[strings.ToLower(typ)]
	if !ok {
		class = "extensibleObject"
	}
	return ldif.NewEntry(dn.Normalize(suffix), "top", class).Add(typ, val), nil
}

// AdminDN returns the DN of the management administrator. A configured
// value that already is a DN is used as is.
func AdminDN(cfg *config.InstanceConfig) string {
	if cfg.AdminUID == "" {
		return ""
	}
	if dn.IsValid(cfg.AdminUID) {
		return dn.Normalize(cfg.AdminUID)
	}
	return "uid=" + cfg.AdminUID + "," + AdministratorsOU + "," + dn.Normalize(cfg.NetscapeRoot)
}

// IntegrationEntries returns the entries added to a running server when it
// is registered with the management layer: the user suffix root, the
// management tree with its administrator and the replication consumer.
// Passwords must already be hashed.
func IntegrationEntries(cfg *config.InstanceConfig, adminPW, consumerPW string) ([]*ldif.Entry, error) {
	var out []*ldif.Entry

	if !cfg.UseExistingUserDS && cfg.Suffix != "" {
		e, err := SuffixEntry(cfg.Suffix)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	if cfg.NetscapeRoot != "" && !cfg.UseExistingConfigDS {
		root, err := SuffixEntry(cfg.NetscapeRoot)
		if err != nil {
			return nil, err
		}
		base := root.DN
		out = append(out,
			root,
			ldif.NewEntry(TopologyOU+","+base, "top", "organizationalUnit").
				Add("ou", "TopologyManagement").
				Add("description", "Branch for managing topology information"),
			ldif.NewEntry(AdministratorsOU+","+base, "top", "organizationalUnit").
				Add("ou", "Administrators").
				Add("description", "Administrators of the management layer"),
		)
		if cfg.AdminUID != "" && !dn.IsValid(cfg.AdminUID) {
			out = append(out, ldif.NewEntry(AdminDN(cfg), "top", "person", "organizationalPerson", "inetorgperson").
				Add("uid", cfg.AdminUID).
				Add("cn", cfg.AdminUID).
				Add("sn", cfg.AdminUID).
				AddNonEmpty("userPassword", adminPW))
		}
	}

	if cfg.ConsumerDN != "" {
		typ, val, err := dn.LeadingRDN(cfg.ConsumerDN)
		if err != nil {
			return nil, fmt.Errorf("consumer dn %q: %w", cfg.ConsumerDN, err)
		}
		e := ldif.NewEntry(dn.Normalize(cfg.ConsumerDN), "top", "person").
			Add(typ, val)
		if !strings.EqualFold(typ, "cn") {
			e.Add("cn", val)
		}
		out = append(out, e.Add("sn", val).AddNonEmpty("userPassword", consumerPW))
	}
	return out, nil
}
