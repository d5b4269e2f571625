package repositories

import "errors"

// ErrNotFound is returned by every repository when a lookup misses, regardless
// of the backing store.
var ErrNotFound = errors.New("not found")
