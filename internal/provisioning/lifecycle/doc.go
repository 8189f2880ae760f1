// Package lifecycle implements the phases that act on a generated instance:
// loading the initial LDIF, starting the server, and adding the entries
// management integration needs.
//
// Only the integration phase can fail a run on its own account. A failed
// LDIF load is always an advisory, and a failed start is an advisory unless
// management integration was requested.
package lifecycle
