package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Policy decides what happens to a file that already exists.
type Policy int

const (
	// Overwrite replaces the existing file.
	Overwrite Policy = iota
	// BackupExisting renames the existing file or directory to <name>.bak first.
	BackupExisting
	// SkipIfExists leaves an existing file untouched.
	SkipIfExists
)

// Outcome reports what a write did.
type Outcome int

const (
	Written Outcome = iota
	Replaced
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Replaced:
		return "replaced"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// BackupSuffix is appended to files moved aside before an overwrite.
const BackupSuffix = ".bak"

// WriteFile writes data to path according to policy and sets mode.
func WriteFile(path string, data []byte, mode os.FileMode, policy Policy) (Outcome, error) {
	outcome := Written
	info, err := os.Lstat(path)
	exists := err == nil
	if exists {
		switch policy {
		case SkipIfExists:
			return Skipped, nil
		case BackupExisting:
			if info.Mode().IsRegular() || info.IsDir() {
				// Best effort: a failed rename surfaces as a write error below.
				_ = os.Rename(path, path+BackupSuffix)
			}
		}
		outcome = Replaced
	}

	if err := os.WriteFile(path, data, mode); err != nil {
		return outcome, fmt.Errorf("cannot open file %s for writing (%v)", path, err)
	}
	if err := os.Chmod(path, mode); err != nil {
		return outcome, fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	return outcome, nil
}

// CopyFile copies a regular file, optionally backing up the destination.
func CopyFile(src, dst string, mode os.FileMode, backup bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("cannot open %s for reading (%v)", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}
	// #nosec G304
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("cannot open %s for reading (%v)", src, err)
	}
	policy := Overwrite
	if backup {
		policy = BackupExisting
	}
	_, err = WriteFile(dst, data, mode, policy)
	return err
}

// CopyTree copies the regular files directly inside srcDir into dstDir and
// hands each copy to chown. It returns the copied file names.
func CopyTree(srcDir, dstDir string, mode os.FileMode, chown func(path string) error) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for reading (%v)", srcDir, err)
	}
	var copied []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		dst := filepath.Join(dstDir, e.Name())
		if err := CopyFile(filepath.Join(srcDir, e.Name()), dst, mode, false); err != nil {
			return copied, err
		}
		if chown != nil {
			if err := chown(dst); err != nil {
				return copied, fmt.Errorf("chown %s failed (%v)", dst, err)
			}
		}
		copied = append(copied, e.Name())
	}
	sort.Strings(copied)
	return copied, nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
