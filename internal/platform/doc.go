// Package platform isolates the operating system primitives the provisioning
// pipeline depends on.
//
// [Ops] is implemented once for POSIX systems and once for Windows; the
// implementation is selected at build time by [Default]. Everything above
// this package stays platform agnostic: it asks for a bind test, a user
// lookup or a service registration and lets the active implementation decide
// what that means on the host.
//
// # Subpackages
//
//   - s3/: download of the initial LDIF from S3-compatible object storage
package platform
