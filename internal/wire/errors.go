package wire

import "errors"

// Sentinel errors for the wire/identity layer, matching the error
// taxonomy in spec.md §7.
var (
	// ErrMalformedWire covers JSON decode errors, unknown tags, and
	// missing fields.
	ErrMalformedWire = errors.New("malformed wire value")

	// ErrUnknownClass is raised on the client when a class-tagged value
	// names a class with no registered stub constructor.
	ErrUnknownClass = errors.New("unknown stub class")

	// ErrUnknownInstance is raised on the server when a (class, key)
	// pair referenced as an argument or receiver is not in the identity
	// map.
	ErrUnknownInstance = errors.New("unknown remote instance")
)
