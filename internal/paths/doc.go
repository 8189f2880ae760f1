// Package paths derives the filesystem layout of a directory server instance.
//
// [Resolve] is pure string composition: it performs no I/O so that the
// validator, the directory builder and the artifact generator all agree on
// the same paths for a given configuration.
package paths
