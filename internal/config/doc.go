// Package config defines the instance configuration record consumed by the
// provisioning pipeline.
//
// An [InstanceConfig] is built once from a YAML file (or the interactive
// wizard), overlaid with a few environment variables, and then handed to the
// pipeline as a read-only value. Field names mirror the keys operators know
// from the installer forms (servid, servport, rootdn, ...) so that validation
// failures can be attributed to the key the operator actually typed.
//
// Policy constants that are not part of the record (start polling, probe
// timeouts) live in [Timeouts] and are read from the environment.
package config
