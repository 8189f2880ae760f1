// Package fsutil implements the filesystem mutations of provisioning:
// idempotent, ownership-aware directory creation and the write policies used
// for generated files (overwrite, backup-before-overwrite, skip-if-exists).
//
// None of the operations roll back on failure. Every operation is safe to
// repeat, so re-running provisioning after fixing a failure needs no cleanup.
package fsutil
