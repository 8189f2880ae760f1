// Package layout creates the directory tree of a new instance.
//
// Directories are created in a fixed order from the resolved paths.Layout.
// Private directories (logs, locks, run and tmp state, certificates) are
// created with mode 0700, everything else with 0755. When validation
// resolved a server user, newly created directories are handed to it.
package layout
