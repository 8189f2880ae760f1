// Package provisioning provides shared types, interfaces, and orchestration for instance provisioning.
//
// # Subpackages
//
//   - validation/: pre-flight checks and the platform pre-check
//   - layout/: instance directory tree
//   - service/: service registration, control and maintenance scripts
//   - configs/: dse.ldif, copied configuration files, ldap.conf
//   - lifecycle/: initial LDIF load, start-and-verify, management integration
//
// # Core Types
//
// Context carries configuration, derived paths, platform operations, and the observer.
// Phase defines a provisioning step with Name() and Provision() methods.
// State accumulates results from each phase (port verdict, owner, hashed secrets, artifacts).
package provisioning
