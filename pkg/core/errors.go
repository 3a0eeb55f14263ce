package core

import "errors"

// Common errors.
var (
	ErrReadOnly   = errors.New("store is in read-only mode")
	ErrBadPattern = errors.New("invalid identifier pattern")
)
