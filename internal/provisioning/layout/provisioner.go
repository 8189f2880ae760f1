package layout

import (
	"os"
	"path/filepath"

	"github.com/dsforge/dsinstall/internal/fsutil"
	"github.com/dsforge/dsinstall/internal/paths"
	"github.com/dsforge/dsinstall/internal/provisioning"
)

const phase = "mkdirs"

// Dir is one directory the mkdirs phase creates.
type Dir struct {
	Label string
	Path  string
	Mode  os.FileMode
}

// Plan returns the directories of l in creation order. The changelog
// directory is included when changelogDir is set.
func Plan(l *paths.Layout, changelogDir string) []Dir {
	dirs := []Dir{
		{"instance dir", l.Instance, fsutil.DirMode},
		{"config dir", l.Config, fsutil.DirMode},
		{"schema dir", l.Schema, fsutil.DirMode},
		{"log dir", l.Log, fsutil.SecureDirMode},
		{"lock dir", l.Lock, fsutil.SecureDirMode},
		{"run dir", l.Run, fsutil.SecureDirMode},
		{"tmp dir", l.Tmp, fsutil.SecureDirMode},
		{"cert dir", l.Cert, fsutil.SecureDirMode},
		{"db dir", l.DB, fsutil.DirMode},
		{"ldif dir", l.LDIF, fsutil.DirMode},
		{"dsml dir", filepath.Join(l.Instance, "dsml"), fsutil.DirMode},
		{"bak dir", l.Bak, fsutil.DirMode},
		{"config backup dir", l.ConfBak, fsutil.DirMode},
	}
	if changelogDir != "" {
		dirs = append(dirs, Dir{"changelog dir", changelogDir, fsutil.DirMode})
	}
	return dirs
}

// Provisioner creates the instance directories.
type Provisioner struct{}

// NewProvisioner creates a new layout provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	builder := fsutil.NewBuilder(ctx.Platform)
	owner := ctx.Owner()

	for _, d := range Plan(ctx.Layout, ctx.Config.ChangelogDir) {
		if d.Path == "" {
			continue
		}
		created, err := builder.EnsureDirRecursive(d.Label, d.Path, d.Mode, owner)
		if err != nil {
			return provisioning.Wrap(provisioning.KindResource, err)
		}
		if created {
			provisioning.LogResource(ctx.Observer, provisioning.EventResourceCreated, phase, d.Label, d.Path)
		} else {
			provisioning.LogResource(ctx.Observer, provisioning.EventResourceExists, phase, d.Label, d.Path)
		}
	}
	return nil
}
