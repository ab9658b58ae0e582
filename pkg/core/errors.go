package core

import "errors"

var (
	// ErrNotFound is returned when an identifier has no matching record.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps connectivity and transaction failures of the
	// underlying store. The original driver error stays in the chain.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidArgument is returned for caller contract violations such as a
	// negative page index.
	ErrInvalidArgument = errors.New("invalid argument")
)
