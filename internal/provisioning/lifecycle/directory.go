package lifecycle

import (
	"net/url"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/ldapclient"
)

// DirectoryURL is the LDAP URL the installer uses to reach the new
// instance. Instances without a clear port are reached over LDAPI.
func DirectoryURL(cfg *config.InstanceConfig) string {
	if cfg.Port == 0 && cfg.LDAPIEnabled && cfg.LDAPIPath != "" {
		return "ldapi://" + url.PathEscape(cfg.LDAPIPath)
	}
	host := cfg.BindAddress
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return ldapclient.URL(host, cfg.Port)
}
