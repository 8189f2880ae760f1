// Package configs writes an instance's configuration: dse.ldif built from
// the configuration catalog, the files copied from the shared templates and
// the ldap.conf info file read by other tools.
package configs
