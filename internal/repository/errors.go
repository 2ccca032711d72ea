// Package repository holds the SQL behind every dashboard read and write.
// Repositories speak only to the store boundary; formatting and validation
// live in the service layer.  The sentinel values here let callers tell an
// absent row apart from a failed query.
package repository

import "errors"

// ErrNotFound is returned by single-row lookups when no row matches.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
