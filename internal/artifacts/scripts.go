package artifacts

import (
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"strconv"
	"text/template"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/paths"
	"github.com/dsforge/dsinstall/internal/platform"
)

//go:embed templates/*.tmpl
var inlineFS embed.FS

var inlineTemplates = template.Must(template.New("scripts").
	Option("missingkey=error").
	ParseFS(inlineFS, "templates/*.tmpl"))

// Source says where a script's content comes from.
type Source int

const (
	// TemplateFile scripts are read from <ScriptTemplates>/template-<name>.
	TemplateFile Source = iota
	// Inline scripts are rendered from templates compiled into the binary.
	Inline
)

// Script is one entry of the script catalog.
type Script struct {
	Name   string
	Source Source
	// Inline names the embedded template for Inline scripts.
	Inline string
}

// ControlScripts returns the start/stop/restart helpers for a platform.
func ControlScripts(kind platform.Kind) []Script {
	if kind == platform.Windows {
		return []Script{
			{Name: "start-slapd.bat", Source: Inline, Inline: "start-slapd.bat.tmpl"},
			{Name: "stop-slapd.bat", Source: Inline, Inline: "stop-slapd.bat.tmpl"},
			{Name: "restart-slapd.bat", Source: Inline, Inline: "restart-slapd.bat.tmpl"},
		}
	}
	return []Script{
		{Name: "start-slapd", Source: Inline, Inline: "start-slapd.sh.tmpl"},
		{Name: "stop-slapd", Source: Inline, Inline: "stop-slapd.sh.tmpl"},
		{Name: "restart-slapd", Source: Inline, Inline: "restart-slapd.sh.tmpl"},
	}
}

var maintenanceCatalog = []Script{
	{Name: "ldif2db.pl"},
	{Name: "db2index.pl"},
	{Name: "migrate5to7"},
	{Name: "migrate6to7"},
	{Name: "migrateInstance7"},
	{Name: "migrateTo7"},
	{Name: "bak2db"},
	{Name: "db2bak"},
	{Name: "db2index"},
	{Name: "db2ldif"},
	{Name: "ldif2db"},
	{Name: "ldif2ldap"},
	{Name: "monitor"},
	{Name: "restoreconfig"},
	{Name: "saveconfig"},
	{Name: "suffix2instance"},
	{Name: "vlvindex"},
	{Name: "getpwenc", Source: Inline, Inline: "getpwenc.sh.tmpl"},
	{Name: "db2ldif.pl"},
	{Name: "bak2db.pl"},
	{Name: "verify-db.pl"},
	{Name: "ns-inactivate.pl"},
	{Name: "ns-activate.pl"},
	{Name: "ns-accountstatus.pl"},
	{Name: "ns-newpwpolicy.pl"},
}

// MaintenanceScripts returns the administrative script catalog.
func MaintenanceScripts(kind platform.Kind) []Script {
	out := make([]Script, 0, len(maintenanceCatalog))
	for _, s := range maintenanceCatalog {
		if s.Source == Inline && kind == platform.Windows {
			continue
		}
		out = append(out, s)
	}
	return out
}

// TemplateName returns the file name a TemplateFile script is read from.
func TemplateName(script string) string {
	return "template-" + script
}

// Placeholders returns the substitution table for template scripts, keyed
// by placeholder name without braces.
func Placeholders(cfg *config.InstanceConfig, l *paths.Layout, kind platform.Kind) map[string]string {
	sep, perl, devNull := "/", "!/usr/bin/env perl", " /dev/null "
	if kind == platform.Windows {
		sep, perl, devNull = `\`, " perl script", " NUL "
	}
	return map[string]string{
		"DS-ROOT":       cfg.Prefix,
		"DS-BRAND":      cfg.PackageName,
		"SEP":           sep,
		"SERVER-NAME":   cfg.ServerName,
		"SERVER-PORT":   strconv.Itoa(cfg.Port),
		"PERL-EXEC":     perl,
		"DEV-NULL":      devNull,
		"ROOT-DN":       cfg.RootDN,
		"LDIF-DIR":      l.LDIF,
		"SERV-ID":       cfg.ServerID,
		"BAK-DIR":       l.Bak,
		"SERVER-DIR":    l.ServerRoot,
		"CONFIG-DIR":    l.Config,
		"RUN-DIR":       l.Run,
		"PRODUCT-NAME":  cfg.ProductName,
		"SERVERBIN-DIR": l.ServerBin,
	}
}

var placeholderPattern = regexp.MustCompile(`\{\{[A-Z][A-Z0-9-]*\}\}`)

// RenderPlaceholders replaces every {{NAME}} in src with its table value in
// a single pass; substituted values are not scanned again. A placeholder
// with no table entry is an error.
func RenderPlaceholders(src []byte, table map[string]string) ([]byte, error) {
	var missing string
	out := placeholderPattern.ReplaceAllFunc(src, func(m []byte) []byte {
		if value, ok := table[string(m[2:len(m)-2])]; ok {
			return []byte(value)
		}
		if missing == "" {
			missing = string(m)
		}
		return m
	})
	if missing != "" {
		return nil, fmt.Errorf("unresolved placeholder %s", missing)
	}
	return out, nil
}

// inlineData is the value inline script templates are executed with.
type inlineData struct {
	ServerID    string
	ServiceName string
	ServerRoot  string
	InstanceDir string
	ConfigDir   string
	RunDir      string
	ServerBin   string
}

func newInlineData(cfg *config.InstanceConfig, l *paths.Layout) inlineData {
	return inlineData{
		ServerID:    cfg.ServerID,
		ServiceName: platform.ServiceName(cfg.ProductName, cfg.ServerID),
		ServerRoot:  l.ServerRoot,
		InstanceDir: l.Instance,
		ConfigDir:   l.Config,
		RunDir:      l.Run,
		ServerBin:   l.ServerBin,
	}
}

func renderInline(name string, data inlineData) ([]byte, error) {
	var buf bytes.Buffer
	if err := inlineTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
