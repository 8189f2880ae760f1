package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the polling and probe policy used while provisioning.
// These values are fixed per run and can be customized via environment variables.
type Timeouts struct {
	StartAttempts int           // Running-state checks after a start request
	StartDelay    time.Duration // Initial delay between running-state checks
	StartMaxDelay time.Duration // Upper bound for the delay between checks
	ServiceStart  time.Duration // Budget for a platform start request to settle
	PortProbe     time.Duration // Dial timeout used by the port check
	LDAPProbe     time.Duration // Dial and operation timeout for LDAP probes
	ScriptRun     time.Duration // Timeout for a single helper script invocation
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - DSINSTALL_START_ATTEMPTS (default: 10)
//   - DSINSTALL_START_DELAY (default: 1s)
//   - DSINSTALL_START_MAX_DELAY (default: 5s)
//   - DSINSTALL_SERVICE_START_TIMEOUT (default: 2m)
//   - DSINSTALL_PORT_PROBE_TIMEOUT (default: 2s)
//   - DSINSTALL_LDAP_PROBE_TIMEOUT (default: 5s)
//   - DSINSTALL_SCRIPT_TIMEOUT (default: 10m)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		StartAttempts: parseInt("DSINSTALL_START_ATTEMPTS", 10),
		StartDelay:    parseDuration("DSINSTALL_START_DELAY", 1*time.Second),
		StartMaxDelay: parseDuration("DSINSTALL_START_MAX_DELAY", 5*time.Second),
		ServiceStart:  parseDuration("DSINSTALL_SERVICE_START_TIMEOUT", 2*time.Minute),
		PortProbe:     parseDuration("DSINSTALL_PORT_PROBE_TIMEOUT", 2*time.Second),
		LDAPProbe:     parseDuration("DSINSTALL_LDAP_PROBE_TIMEOUT", 5*time.Second),
		ScriptRun:     parseDuration("DSINSTALL_SCRIPT_TIMEOUT", 10*time.Minute),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
