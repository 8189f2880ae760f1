package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// runCommand runs name with args and returns its exit status. An error is
// returned only when the command could not be run at all.
func runCommand(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = os.Stdout

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	msg := strings.TrimSpace(stderr.String())
	if msg != "" {
		return -1, fmt.Errorf("failed to run %s: %w: %s", name, err, msg)
	}
	return -1, fmt.Errorf("failed to run %s: %w", name, err)
}

// startErrorMarkers maps error log fragments to start failure causes.
var startErrorMarkers = []struct {
	status  StartStatus
	markers []string
}{
	{StartPortInUse, []string{"Address already in use", "Can't bind to address"}},
	{StartMaxSemaphores, []string{"semget", "No space left on device"}},
	{StartCorruptedDB, []string{"DB_RUNRECOVERY", "database is corrupted", "Database recovery"}},
	{StartNoResources, []string{"Cannot allocate memory", "Resource temporarily unavailable", "Out of memory"}},
}

// maxErrorLogTail bounds how much of the error log is inspected.
const maxErrorLogTail = 64 * 1024

// ClassifyStartFailure inspects the tail of the server error log to explain
// why a start request failed.
func ClassifyStartFailure(errorLog string) StartStatus {
	data, err := readTail(errorLog, maxErrorLogTail)
	if err != nil {
		return StartFailed
	}
	text := string(data)
	for _, m := range startErrorMarkers {
		for _, marker := range m.markers {
			if strings.Contains(text, marker) {
				return m.status
			}
		}
	}
	return StartCouldNotStart
}

func readTail(path string, limit int64) ([]byte, error) {
	// #nosec G304
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	offset := info.Size() - limit
	if offset < 0 {
		offset = 0
	}
	buf := make([]byte, info.Size()-offset)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return nil, err
	}
	return buf, nil
}
