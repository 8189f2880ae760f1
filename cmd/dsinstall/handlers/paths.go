package handlers

import (
	"fmt"

	"github.com/dsforge/dsinstall/internal/paths"
	"github.com/dsforge/dsinstall/internal/provisioning/layout"
)

// Paths prints the directories an instance would use, in creation order,
// followed by the template and binary locations it reads from.
func Paths(configPath string, opts Options) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := paths.ForConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}

	p := opts.printer()
	p.Title(fmt.Sprintf("Layout of server %s", cfg.ServerID))

	p.Section("Created")
	var created [][2]string
	for _, d := range layout.Plan(l, cfg.ChangelogDir) {
		created = append(created, [2]string{d.Label, fmt.Sprintf("%s (%04o)", d.Path, d.Mode.Perm())})
	}
	p.Rows(created)

	p.Section("Read")
	p.Rows([][2]string{
		{"server root", l.ServerRoot},
		{"script templates", l.ScriptTemplates},
		{"config templates", l.ConfigTemplates},
		{"schema templates", l.SchemaTemplates},
		{"server binaries", l.ServerBin},
		{"plugins", l.Plugin},
		{"sasl", l.SASL},
	})
	return nil
}
