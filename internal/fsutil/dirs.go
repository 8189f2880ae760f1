package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dsforge/dsinstall/internal/platform"
)

// Directory and file modes.
const (
	DirMode       os.FileMode = 0o755
	SecureDirMode os.FileMode = 0o700
	FileMode      os.FileMode = 0o644
	SecretMode    os.FileMode = 0o600
	ScriptMode    os.FileMode = 0o755
)

// Chowner changes file ownership.
type Chowner interface {
	Chown(path string, owner *platform.Account) error
}

// EnsureDir makes path a directory. A non-directory at path is removed
// first; an existing directory is left untouched.
func EnsureDir(path string, mode os.FileMode) error {
	info, err := os.Lstat(path)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	if err := os.Mkdir(path, mode); err != nil {
		return err
	}
	return os.Chmod(path, mode)
}

// Builder creates directory trees, handing newly created directories to
// Chowner when an owner is given.
type Builder struct {
	Chowner Chowner
}

// NewBuilder creates a Builder.
func NewBuilder(c Chowner) *Builder {
	return &Builder{Chowner: c}
}

// EnsureDirRecursive creates every missing component of path with mode,
// starting below the filesystem root. Newly created components are chowned
// to owner. The first failure stops the walk; components created before it
// are kept. It reports whether the final directory was created.
func (b *Builder) EnsureDirRecursive(label, path string, mode os.FileMode, owner *platform.Account) (bool, error) {
	path = filepath.Clean(path)
	created := false

	start := len(filepath.VolumeName(path)) + 1
	for i := start; i <= len(path); i++ {
		if i < len(path) && !os.IsPathSeparator(path[i]) {
			continue
		}
		dir := path[:i]

		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return false, fmt.Errorf("mkdir %s for %q failed (%s is not a directory)", dir, label, dir)
			}
			created = false
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("mkdir %s for %q failed (%v)", dir, label, err)
		}
		if err := os.Mkdir(dir, mode); err != nil && !errors.Is(err, fs.ErrExist) {
			return false, fmt.Errorf("mkdir %s for %q failed (%v)", dir, label, err)
		}
		if err := os.Chmod(dir, mode); err != nil {
			return false, fmt.Errorf("mkdir %s for %q failed (%v)", dir, label, err)
		}
		if owner != nil && b.Chowner != nil {
			if err := b.Chowner.Chown(dir, owner); err != nil {
				return false, fmt.Errorf("chown %s for %q failed (%v)", dir, label, err)
			}
		}
		created = true
	}
	return created, nil
}
