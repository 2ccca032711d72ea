package service

import "errors"

var (
	// ErrNotFound marks a single-entity lookup that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks input rejected before touching the store.
	ErrValidation = errors.New("validation failed")
	// ErrStore marks an unrecoverable store failure.
	ErrStore = errors.New("store failure")
)

// FetchError is the opaque failure returned by query operations.  Its
// message never includes store details; the cause stays reachable through
// errors.Is / errors.As for logging.
type FetchError struct {
	What string
	Err  error
}

func (e *FetchError) Error() string { return "Failed to fetch " + e.What + "." }

func (e *FetchError) Unwrap() []error { return []error{ErrStore, e.Err} }
