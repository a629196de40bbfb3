package common

import "errors"

// Error taxonomy shared by all layout packages. Concrete errors wrap one of
// these, so callers can classify them with errors.Is.
var (
	// ErrConfiguration reports conflicting arguments or wrong argument arity.
	ErrConfiguration = errors.New("configuration error")
	// ErrType reports argument of unsupported type or value outside of enumeration.
	ErrType = errors.New("type error")
	// ErrCapacity reports content which does not fit into its container.
	ErrCapacity = errors.New("capacity error")
	// ErrConflict reports element which is already present and no resolution is permitted.
	ErrConflict = errors.New("conflict error")
	// ErrNotFound reports failed lookup when caller asked for it.
	ErrNotFound = errors.New("lookup error")
)
