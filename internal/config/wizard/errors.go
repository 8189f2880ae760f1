package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errServerIDRequired = errors.New("server identifier is required")
	errValueRequired    = errors.New("a value is required")
	errPortInvalid      = errors.New("port must be a number between 1 and 65535")
	errDNRequired       = errors.New("a DN is required")
	errDNInvalid        = errors.New("not a valid DN")
	errPasswordShort    = errors.New("password must be at least 8 characters")
	errPasswordMismatch = errors.New("passwords do not match")
	errThreadsInvalid   = errors.New("must be a positive number")
)
