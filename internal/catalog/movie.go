// Package catalog owns the movie list: the record model, title
// normalization, persistence, and the repository that ties insertion to
// one-time metadata enrichment.
package catalog

import (
	"errors"

	"github.com/google/uuid"
)

// Movie is the sole persisted entity. Name is the canonical display form of
// the user-supplied title and the de facto unique key, compared
// case-insensitively. The remaining fields come from metadata enrichment at
// insert time and are never refreshed afterwards; a record added while the
// metadata provider was down stays a bare name-only record.
type Movie struct {
	ID          uuid.UUID
	Name        string
	Title       string   // authoritative title from the provider, "" if unknown
	ReleaseYear string   // 4-digit year, "" if unknown
	Services    []string // where to watch (US flatrate), order preserved
	Rating      *float64 // nil when the provider had no rating
}

// Sentinel errors returned by Store implementations and the Repository.
var (
	// ErrAlreadyExists reports a write that would violate the
	// case-insensitive uniqueness of Movie.Name.
	ErrAlreadyExists = errors.New("catalog: movie already exists")

	// ErrNotFound reports an operation that targeted a name with no
	// matching record.
	ErrNotFound = errors.New("catalog: movie not found")
)
