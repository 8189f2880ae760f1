package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsforge/dsinstall/internal/platform"
)

type recordingChowner struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (r *recordingChowner) Chown(path string, _ *platform.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.err
}

func mode(t *testing.T, path string) os.FileMode {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Mode().Perm()
}

func TestEnsureDir_Creates(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "inst")
	require.NoError(t, EnsureDir(path, SecureDirMode))
	assert.Equal(t, SecureDirMode, mode(t, path))
}

func TestEnsureDir_ExistingIsNoOp(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "inst")
	require.NoError(t, os.Mkdir(path, 0o750))
	require.NoError(t, os.Chmod(path, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0600))

	require.NoError(t, EnsureDir(path, DirMode))
	assert.Equal(t, os.FileMode(0o750), mode(t, path))
	assert.FileExists(t, filepath.Join(path, "keep"))
}

func TestEnsureDir_ReplacesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "inst")
	require.NoError(t, os.WriteFile(path, []byte("not a dir"), 0600))

	require.NoError(t, EnsureDir(path, DirMode))
	assert.DirExists(t, path)
}

func TestEnsureDirRecursive_CreatesAncestorsAndChowns(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	target := filepath.Join(root, "a", "b", "c")
	chowner := &recordingChowner{}
	owner := &platform.Account{Name: "dirsrv", UID: 389, GID: 389}

	created, err := NewBuilder(chowner).EnsureDirRecursive("log dir", target, SecureDirMode, owner)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, SecureDirMode, mode(t, target))
	assert.Equal(t, SecureDirMode, mode(t, filepath.Join(root, "a")))
	assert.Equal(t, []string{
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b"),
		target,
	}, chowner.paths, "only newly created components are chowned")
}

func TestEnsureDirRecursive_Idempotent(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "x", "y")
	b := NewBuilder(nil)

	created, err := b.EnsureDirRecursive("inst dir", target, DirMode, nil)
	require.NoError(t, err)
	assert.True(t, created)
	before, err := os.Stat(target)
	require.NoError(t, err)

	created, err = b.EnsureDirRecursive("inst dir", target, DirMode, nil)
	require.NoError(t, err)
	assert.False(t, created)
	after, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, before.Mode(), after.Mode())
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestEnsureDirRecursive_NoOwnerSkipsChown(t *testing.T) {
	t.Parallel()
	chowner := &recordingChowner{}
	_, err := NewBuilder(chowner).EnsureDirRecursive("db dir", filepath.Join(t.TempDir(), "db"), DirMode, nil)
	require.NoError(t, err)
	assert.Empty(t, chowner.paths)
}

func TestEnsureDirRecursive_FileInTheWay(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := NewBuilder(nil).EnsureDirRecursive("config dir", filepath.Join(blocker, "sub"), DirMode, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `for "config dir" failed`)
	assert.Contains(t, err.Error(), blocker)
}

func TestEnsureDirRecursive_ChownFailureStops(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	chowner := &recordingChowner{err: errors.New("operation not permitted")}
	owner := &platform.Account{Name: "dirsrv"}

	_, err := NewBuilder(chowner).EnsureDirRecursive("run dir", filepath.Join(root, "a", "b"), DirMode, owner)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation not permitted")
	assert.DirExists(t, filepath.Join(root, "a"), "no rollback of created components")
	assert.NoDirExists(t, filepath.Join(root, "a", "b"))
}
