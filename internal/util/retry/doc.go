// Package retry provides bounded retry with exponential backoff.
//
// The start phase uses [WithExponentialBackoff] to poll an instance until
// it answers on its port, and [Poll] for checks that report readiness as a
// boolean rather than an error.
package retry
