// Package errkind holds the error taxonomy shared across the arena.
//
// Concrete errors either wrap one of these kinds or report it from an Is method,
// so callers can branch with errors.Is(err, errkind.Lookup).
package errkind

import "errors"

var (
	// Configuration marks an unreadable or unparseable static resource.
	Configuration = errors.New("configuration error")
	// Validation marks malformed input such as an unknown side or an overflowing setup.
	Validation = errors.New("validation error")
	// Lookup marks a missing key in a read-only registry.
	Lookup = errors.New("lookup error")
	// IO marks a failure reading or decoding an external payload.
	IO = errors.New("io error")
	// InvalidState marks an operation invoked on a state lacking a required capability.
	InvalidState = errors.New("invalid state")
)
