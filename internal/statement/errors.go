package statement

import "errors"

// Sentinel errors for the statement domain. Callers match with errors.Is;
// every violated precondition wraps one of these at the point of failure.
var (
	// ErrLengthMismatch reports value/date sequences of unequal length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrDateConversion reports a date that cannot be normalized to day
	// resolution.
	ErrDateConversion = errors.New("date conversion failed")

	// ErrKeyNotFound reports an unknown reporting date, metric key or
	// forecast family.
	ErrKeyNotFound = errors.New("key not found")

	// ErrIndexOutOfRange reports a positional index outside [-len, len).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUninitialized reports metric access on a statement that has not
	// been built from a frame or loaded from a store.
	ErrUninitialized = errors.New("statement not initialized")

	// ErrSchemaMismatch reports frame columns or alternate keys that do
	// not cover the statement schema.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrDateIndexMismatch reports a row whose date set differs from the
	// statement's date index.
	ErrDateIndexMismatch = errors.New("date index mismatch")

	// ErrNotFound reports a missing statement record in the store.
	ErrNotFound = errors.New("statement record not found")
)
