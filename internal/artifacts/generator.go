// Package artifacts renders the files that make up a directory server
// instance: the dse.ldif configuration catalog, the control and maintenance
// scripts, and the info files other tools read.
package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/fsutil"
	"github.com/dsforge/dsinstall/internal/ldif"
	"github.com/dsforge/dsinstall/internal/password"
	"github.com/dsforge/dsinstall/internal/paths"
	"github.com/dsforge/dsinstall/internal/platform"
)

// File names written into the config directory.
const (
	DSEFile         = "dse.ldif"
	DSEOriginalFile = "dse_original.ldif"
	CertMapFile     = "certmap.conf"
	LDAPInfoFile    = "ldap.conf"
)

// Result describes one generated artifact.
type Result struct {
	Name    string
	Path    string
	Outcome fsutil.Outcome
}

// Generator writes the artifacts of one instance.
type Generator struct {
	Config         *config.InstanceConfig
	Layout         *paths.Layout
	Kind           platform.Kind
	MaxDescriptors int

	// Chown, when set, is applied to every written file.
	Chown func(path string) error
	// Dirs creates directories outside the instance layout. Owner receives
	// the ones it creates.
	Dirs  *fsutil.Builder
	Owner *platform.Account
	// Advise receives non-fatal notices.
	Advise func(msg string)
}

func (g *Generator) advise(format string, args ...any) {
	if g.Advise != nil {
		g.Advise(fmt.Sprintf(format, args...))
	}
}

func (g *Generator) mkdirAll(label, dir string) error {
	b := g.Dirs
	if b == nil {
		b = fsutil.NewBuilder(nil)
	}
	_, err := b.EnsureDirRecursive(label, dir, fsutil.DirMode, g.Owner)
	return err
}

// ensureDir creates a directory whose parent exists and hands it to Owner.
func (g *Generator) ensureDir(label, dir string) error {
	if err := fsutil.EnsureDir(dir, fsutil.DirMode); err != nil {
		return fmt.Errorf("mkdir %s for %q failed (%v)", dir, label, err)
	}
	if g.Owner != nil && g.Dirs != nil && g.Dirs.Chowner != nil {
		if err := g.Dirs.Chowner.Chown(dir, g.Owner); err != nil {
			return fmt.Errorf("chown %s for %q failed (%v)", dir, label, err)
		}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (g *Generator) write(name, path string, data []byte, mode os.FileMode, policy fsutil.Policy) (Result, error) {
	outcome, err := fsutil.WriteFile(path, data, mode, policy)
	if err != nil {
		return Result{}, fmt.Errorf("could not write %s to %s (%w)", name, path, err)
	}
	if outcome != fsutil.Skipped && g.Chown != nil {
		if err := g.Chown(path); err != nil {
			return Result{}, fmt.Errorf("could not change owner of %s (%w)", path, err)
		}
	}
	return Result{Name: name, Path: path, Outcome: outcome}, nil
}

// WriteControlScripts writes the start, stop and restart helpers into the
// instance directory.
func (g *Generator) WriteControlScripts() ([]Result, error) {
	return g.writeScripts(ControlScripts(g.Kind))
}

// WriteMaintenanceScripts writes the administrative script catalog. A
// script whose template file is absent is skipped with a notice.
func (g *Generator) WriteMaintenanceScripts() ([]Result, error) {
	return g.writeScripts(MaintenanceScripts(g.Kind))
}

func (g *Generator) writeScripts(catalog []Script) ([]Result, error) {
	data := newInlineData(g.Config, g.Layout)
	table := Placeholders(g.Config, g.Layout, g.Kind)

	var results []Result
	for _, s := range catalog {
		dest := filepath.Join(g.Layout.Instance, s.Name)
		var content []byte
		switch s.Source {
		case Inline:
			out, err := renderInline(s.Inline, data)
			if err != nil {
				return results, err
			}
			content = out
		default:
			src := filepath.Join(g.Layout.ScriptTemplates, TemplateName(s.Name))
			// #nosec G304
			raw, err := os.ReadFile(src)
			if errors.Is(err, fs.ErrNotExist) {
				g.advise("Notice: %s does not exist, skipping %s . . .", src, dest)
				continue
			}
			if err != nil {
				return results, fmt.Errorf("could not read %s (%w)", src, err)
			}
			out, err := RenderPlaceholders(raw, table)
			if err != nil {
				return results, fmt.Errorf("could not write %s to %s (%w)", src, dest, err)
			}
			content = out
		}
		res, err := g.write(s.Name, dest, content, fsutil.ScriptMode, fsutil.BackupExisting)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Secrets are the hashed credentials embedded in dse.ldif.
type Secrets struct {
	RootPW        string
	ReplicationPW string
}

// HashSecrets hashes the configured credentials with the configured scheme.
// Values that already carry a {SCHEME} prefix are kept as they are.
func HashSecrets(cfg *config.InstanceConfig) (Secrets, error) {
	scheme, err := password.ParseScheme(cfg.PasswordScheme)
	if err != nil {
		return Secrets{}, err
	}
	hash := func(v string) (string, error) {
		if v == "" || password.IsHashed(v) {
			return v, nil
		}
		return password.Hash(v, scheme)
	}

	var s Secrets
	if cfg.RootPWHashed != "" {
		s.RootPW = cfg.RootPWHashed
	} else if s.RootPW, err = hash(cfg.RootPW); err != nil {
		return Secrets{}, fmt.Errorf("hash root password: %w", err)
	}
	if s.ReplicationPW, err = hash(cfg.ReplicationPW); err != nil {
		return Secrets{}, fmt.Errorf("hash replication password: %w", err)
	}
	return s, nil
}

// WriteConfigs writes dse.ldif and the configuration files installed next
// to it.
func (g *Generator) WriteConfigs(secrets Secrets) ([]Result, error) {
	entries, err := BuildDSE(DSEParams{
		Config:         g.Config,
		Layout:         g.Layout,
		Kind:           g.Kind,
		MaxDescriptors: g.MaxDescriptors,
		RootPW:         secrets.RootPW,
		ReplicationPW:  secrets.ReplicationPW,
	})
	if err != nil {
		return nil, err
	}

	l := g.Layout
	dse, err := ldif.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", DSEFile, err)
	}
	dsePath := filepath.Join(l.Config, DSEFile)
	res, err := g.write(DSEFile, dsePath, dse, fsutil.SecretMode, fsutil.BackupExisting)
	if err != nil {
		return nil, err
	}
	results := []Result{res}

	if res, err = g.write(DSEOriginalFile, filepath.Join(l.Config, DSEOriginalFile), dse, fsutil.SecretMode, fsutil.Overwrite); err != nil {
		return results, err
	}
	results = append(results, res)

	collations := g.Config.ProductName + "-collations.conf"
	for _, c := range []struct {
		name string
		mode os.FileMode
	}{
		{CertMapFile, fsutil.SecretMode},
		{collations, fsutil.FileMode},
	} {
		res, ok, err := g.copyTemplate(c.name, filepath.Join(l.ConfigTemplates, c.name), filepath.Join(l.Config, c.name), c.mode)
		if err != nil {
			return results, err
		}
		if ok {
			results = append(results, res)
		}
	}

	if fsutil.Exists(l.SchemaTemplates) {
		copied, err := fsutil.CopyTree(l.SchemaTemplates, l.Schema, fsutil.FileMode, g.Chown)
		if err != nil {
			return results, err
		}
		for _, name := range copied {
			results = append(results, Result{Name: name, Path: filepath.Join(l.Schema, name), Outcome: fsutil.Written})
		}
	} else {
		g.advise("Notice: %s does not exist, skipping %s . . .", l.SchemaTemplates, l.Schema)
	}

	oc, err := g.writeOrgChartConfig()
	results = append(results, oc...)
	if err != nil {
		return results, err
	}

	gw, err := g.writeGatewayConfigs()
	results = append(results, gw...)
	return results, err
}

func (g *Generator) copyTemplate(name, src, dst string, mode os.FileMode) (Result, bool, error) {
	if !fsutil.Exists(src) {
		g.advise("Notice: %s does not exist, skipping %s . . .", src, dst)
		return Result{}, false, nil
	}
	existed := fsutil.Exists(dst)
	if err := fsutil.CopyFile(src, dst, mode, false); err != nil {
		return Result{}, false, fmt.Errorf("could not write %s to %s (%w)", name, dst, err)
	}
	if g.Chown != nil {
		if err := g.Chown(dst); err != nil {
			return Result{}, false, fmt.Errorf("could not change owner of %s (%w)", dst, err)
		}
	}
	outcome := fsutil.Written
	if existed {
		outcome = fsutil.Replaced
	}
	return Result{Name: name, Path: dst, Outcome: outcome}, true, nil
}

// GatewayDir is the optional directory gateway client tree under the server root.
func GatewayDir(l *paths.Layout) string {
	return filepath.Join(l.ServerRoot, "clients", "dsgw")
}

// OrgChartDir is the optional org chart client tree under the server root.
func OrgChartDir(l *paths.Layout) string {
	return filepath.Join(l.ServerRoot, "clients", "orgchart")
}

// AuthCookieDir holds the gateway's authentication cookies.
func AuthCookieDir(l *paths.Layout) string {
	return filepath.Join(l.ServerRoot, "bin", "slapd", "authck")
}

// writeOrgChartConfig writes clients/orgchart/config.txt once, when the org
// chart client is installed.
func (g *Generator) writeOrgChartConfig() ([]Result, error) {
	root := OrgChartDir(g.Layout)
	if !isDir(root) {
		return nil, nil
	}
	const name = "config.txt"
	dest := filepath.Join(root, name)
	if fsutil.Exists(dest) {
		return []Result{{Name: name, Path: dest, Outcome: fsutil.Skipped}}, nil
	}
	tmpl := filepath.Join(root, "config.tmpl")
	// #nosec G304
	body, err := os.ReadFile(tmpl)
	if errors.Is(err, fs.ErrNotExist) {
		g.advise("Notice: %s does not exist, skipping %s . . .", tmpl, dest)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read %s (%w)", tmpl, err)
	}
	content := append([]byte(g.orgChartHeader()), body...)
	res, err := g.write(name, dest, content, fsutil.FileMode, fsutil.SkipIfExists)
	if err != nil {
		return nil, err
	}
	return []Result{res}, nil
}

func (g *Generator) orgChartHeader() string {
	cfg := g.Config
	var b strings.Builder
	b.WriteString("#############\n#\n#  Configuration file for Directory Server Org Chart\n#\n#############\n\n")
	b.WriteString("#   Blank lines and lines starting with \"#\" are ignored.\n")
	b.WriteString("#   Names and values are separated by tabs or spaces.\n\n")
	fmt.Fprintf(&b, "ldap-host\t%s\n", cfg.ServerName)
	fmt.Fprintf(&b, "ldap-port\t%d\n", cfg.Port)
	fmt.Fprintf(&b, "ldap-search-base\t%s\n\n", cfg.Suffix)
	fmt.Fprintf(&b, "url-phonebook-base\thttp://%s:80/clients/dsgw/bin/dosearch?context=pb&hp=%s:%d&dn=\n\n",
		cfg.ServerName, cfg.ServerName, cfg.Port)
	return b.String()
}

// writeGatewayConfigs writes dsgw.conf and pb.conf once, when the gateway
// client is installed, along with its context and cookie directories.
func (g *Generator) writeGatewayConfigs() ([]Result, error) {
	root := GatewayDir(g.Layout)
	if !isDir(root) {
		return nil, nil
	}
	contextDir := filepath.Join(root, "context")
	if err := g.ensureDir("dsgw context dir", contextDir); err != nil {
		return nil, err
	}
	if err := g.mkdirAll("authck dir", AuthCookieDir(g.Layout)); err != nil {
		return nil, err
	}

	var results []Result
	for _, gw := range []struct {
		ctx, tmpl string
	}{
		{"dsgw", filepath.Join(root, "config", "dsgw.tmpl")},
		{"pb", filepath.Join(root, "pbconfig", "pb.tmpl")},
	} {
		name := gw.ctx + ".conf"
		dest := filepath.Join(contextDir, name)
		if fsutil.Exists(dest) {
			results = append(results, Result{Name: name, Path: dest, Outcome: fsutil.Skipped})
			continue
		}
		// #nosec G304
		body, err := os.ReadFile(gw.tmpl)
		if errors.Is(err, fs.ErrNotExist) {
			g.advise("Notice: %s does not exist, skipping %s . . .", gw.tmpl, dest)
			continue
		}
		if err != nil {
			return results, fmt.Errorf("could not read %s (%w)", gw.tmpl, err)
		}
		content := append([]byte(g.gatewayHeader(gw.ctx)), body...)
		res, err := g.write(name, dest, content, fsutil.FileMode, fsutil.SkipIfExists)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		if gw.ctx == "dsgw" {
			def := filepath.Join(contextDir, "default.conf")
			res, err := g.write("default.conf", def, content, fsutil.FileMode, fsutil.Overwrite)
			if err != nil {
				return results, err
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func (g *Generator) gatewayHeader(ctx string) string {
	cfg := g.Config
	var b strings.Builder
	b.WriteString("# Used by Directory Server Gateway\n")
	fmt.Fprintf(&b, "baseurl\t\"ldap://%s:%d/%s\"\n\n", cfg.ServerName, cfg.Port, url.PathEscape(cfg.Suffix))
	if cfg.RootDN != "" {
		fmt.Fprintf(&b, "dirmgr\t%s\n\n", strconv.Quote(cfg.RootDN))
	}
	fmt.Fprintf(&b, "location-suffix\t%s\n\n", strconv.Quote(cfg.Suffix))
	fmt.Fprintf(&b, "securitypath\t%s\n\n", strconv.Quote(filepath.Join(g.Layout.Cert, "alias", ctx+"-cert.db")))
	return b.String()
}

// LDAPInfo renders the ldap.conf info file.
func LDAPInfo(cfg *config.InstanceConfig) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "url\tldap://%s:%d/%s\n", cfg.ServerName, cfg.Port, cfg.Suffix)
	if cfg.AdminUID != "" {
		fmt.Fprintf(&b, "admnm\t%s\n", cfg.AdminUID)
	}
	return []byte(b.String())
}

// WriteLDAPInfo writes <SharedConfig>/ldap.conf.
func (g *Generator) WriteLDAPInfo() (Result, error) {
	dir := g.Layout.SharedConfig
	if err := g.mkdirAll("shared config dir", dir); err != nil {
		return Result{}, err
	}
	return g.write(LDAPInfoFile, filepath.Join(dir, LDAPInfoFile), LDAPInfo(g.Config), fsutil.FileMode, fsutil.Overwrite)
}
