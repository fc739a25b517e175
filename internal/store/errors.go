package store

import "errors"

// ErrNotFound is returned when a named query, tag, or file does not exist
// where one was required by the caller.
var ErrNotFound = errors.New("not found")
