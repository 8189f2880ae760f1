package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteFile_New(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dse.ldif")
	outcome, err := WriteFile(path, []byte("new"), SecretMode, BackupExisting)
	require.NoError(t, err)
	assert.Equal(t, Written, outcome)
	assert.Equal(t, "new", readFile(t, path))
	assert.Equal(t, SecretMode, mode(t, path))
	assert.NoFileExists(t, path+BackupSuffix)
}

func TestWriteFile_BackupExisting(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "restart-slapd")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0600))

	outcome, err := WriteFile(path, []byte("second"), ScriptMode, BackupExisting)
	require.NoError(t, err)
	assert.Equal(t, Replaced, outcome)
	assert.Equal(t, "second", readFile(t, path))
	assert.Equal(t, "first", readFile(t, path+BackupSuffix))

	_, err = WriteFile(path, []byte("third"), ScriptMode, BackupExisting)
	require.NoError(t, err)
	assert.Equal(t, "third", readFile(t, path))
	assert.Equal(t, "second", readFile(t, path+BackupSuffix))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "exactly one backup sibling")
}

func TestWriteFile_BackupDirectory(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "monitor")
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err := WriteFile(path, []byte("script"), ScriptMode, BackupExisting)
	require.NoError(t, err)
	assert.Equal(t, "script", readFile(t, path))
	assert.DirExists(t, path+BackupSuffix)
}

func TestWriteFile_Overwrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ldap.conf")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	outcome, err := WriteFile(path, []byte("new"), FileMode, Overwrite)
	require.NoError(t, err)
	assert.Equal(t, Replaced, outcome)
	assert.Equal(t, "new", readFile(t, path))
	assert.NoFileExists(t, path+BackupSuffix)
}

func TestWriteFile_SkipIfExists(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "pb.conf")
	require.NoError(t, os.WriteFile(path, []byte("operator edits"), 0600))

	outcome, err := WriteFile(path, []byte("template"), FileMode, SkipIfExists)
	require.NoError(t, err)
	assert.Equal(t, Skipped, outcome)
	assert.Equal(t, "operator edits", readFile(t, path))
}

func TestWriteFile_Failure(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "missing", "file")
	_, err := WriteFile(path, []byte("x"), FileMode, Overwrite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestCopyFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "certmap.conf")
	dst := filepath.Join(dir, "out.conf")
	require.NoError(t, os.WriteFile(src, []byte("certmap default default"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0644))

	require.NoError(t, CopyFile(src, dst, SecretMode, true))
	assert.Equal(t, "certmap default default", readFile(t, dst))
	assert.Equal(t, "old", readFile(t, dst+BackupSuffix))
	assert.Equal(t, SecretMode, mode(t, dst))
}

func TestCopyFile_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	err := CopyFile(filepath.Join(dir, "absent"), filepath.Join(dir, "dst"), FileMode, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "for reading")

	err = CopyFile(dir, filepath.Join(dir, "dst"), FileMode, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a regular file")
}

func TestCopyTree(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "00core.ldif"), []byte("core"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "10rfc2307.ldif"), []byte("nis"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(src, "subdir"), 0755))

	var chowned []string
	copied, err := CopyTree(src, dst, FileMode, func(p string) error {
		chowned = append(chowned, filepath.Base(p))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"00core.ldif", "10rfc2307.ldif"}, copied)
	assert.ElementsMatch(t, copied, chowned)
	assert.Equal(t, "core", readFile(t, filepath.Join(dst, "00core.ldif")))
	assert.NoDirExists(t, filepath.Join(dst, "subdir"))
}

func TestCopyTree_MissingSource(t *testing.T) {
	t.Parallel()
	_, err := CopyTree(filepath.Join(t.TempDir(), "none"), t.TempDir(), FileMode, nil)
	assert.Error(t, err)
}

func TestExists(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	assert.True(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "nope")))
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "written", Written.String())
	assert.Equal(t, "replaced", Replaced.String())
	assert.Equal(t, "skipped", Skipped.String())
}
