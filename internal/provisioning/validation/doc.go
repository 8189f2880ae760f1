// Package validation implements the pre-flight checks run before any
// filesystem change: port availability, server id characters, the run-as
// user, thread bounds, DN syntax and password encoding. The first failing
// check wins and is reported with the field it belongs to.
package validation
