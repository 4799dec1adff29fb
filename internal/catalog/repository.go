// repository.go — The movie repository: persistence semantics plus one-time
// metadata enrichment on insert.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kylemdonovan/moviebot/internal/metrics"
)

// EnrichmentOutcome classifies what the metadata provider returned.
type EnrichmentOutcome int

const (
	// EnrichmentFound means the provider returned at least one result.
	EnrichmentFound EnrichmentOutcome = iota
	// EnrichmentNotFound means the provider answered with no results.
	EnrichmentNotFound
	// EnrichmentUnavailable means the provider call failed. Stored the
	// same as NotFound, but logged and counted separately.
	EnrichmentUnavailable
)

// String returns the metric label for the outcome.
func (o EnrichmentOutcome) String() string {
	switch o {
	case EnrichmentFound:
		return "found"
	case EnrichmentNotFound:
		return "not_found"
	default:
		return "unavailable"
	}
}

// Enrichment is the best-effort metadata fetched for a new movie. On any
// outcome other than EnrichmentFound the data fields are zero and the record
// is stored name-only.
type Enrichment struct {
	Outcome     EnrichmentOutcome
	Title       string
	ReleaseYear string
	Rating      *float64
	Services    []string
}

// Enricher fetches metadata for a canonical movie name. Implementations must
// not return an error: provider failure is expressed as
// EnrichmentUnavailable so an add degrades instead of failing.
type Enricher interface {
	Lookup(ctx context.Context, name string) Enrichment
}

// Repository owns the catalog's business rules. It normalizes titles before
// every comparison, enriches each movie exactly once at insert time, and
// relies on the store's uniqueness constraint as the last word on conflicts.
type Repository struct {
	store    Store
	enricher Enricher
	log      *slog.Logger
}

// NewRepository wires a repository to its store and enrichment client.
func NewRepository(store Store, enricher Enricher, log *slog.Logger) *Repository {
	return &Repository{store: store, enricher: enricher, log: log}
}

// Add normalizes rawName and inserts a new record enriched with whatever the
// provider produced. The returned name is the canonical form. Returns
// ErrAlreadyExists when the title is already present (whether caught by the
// pre-check or by the storage constraint under a racing insert). Enrichment
// failure never fails the add; the record is simply stored bare.
func (r *Repository) Add(ctx context.Context, rawName string) (string, error) {
	name := Normalize(rawName)
	if name == "" {
		return "", fmt.Errorf("add movie: empty name")
	}

	// Friendly fast path. The unique index on LOWER(name) still backstops
	// the race between this check and the insert below.
	exists, err := r.store.Exists(ctx, name)
	if err != nil {
		return name, fmt.Errorf("add movie: %w", err)
	}
	if exists {
		return name, ErrAlreadyExists
	}

	enr := r.enricher.Lookup(ctx, name)
	metrics.Enrichment.WithLabelValues(enr.Outcome.String()).Inc()
	if enr.Outcome != EnrichmentFound {
		r.log.Warn("metadata enrichment degraded, storing bare record",
			"movie", name, "outcome", enr.Outcome.String())
	}

	m := Movie{
		Name:        name,
		Title:       enr.Title,
		ReleaseYear: enr.ReleaseYear,
		Services:    enr.Services,
		Rating:      enr.Rating,
	}
	if err := r.store.Insert(ctx, m); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return name, ErrAlreadyExists
		}
		return name, fmt.Errorf("add movie: %w", err)
	}
	return name, nil
}

// Rename changes a record's display name. Both names are normalized and the
// old name is matched case-insensitively, the same policy as Add and Delete.
// The record keeps its enrichment; renaming never re-fetches metadata.
func (r *Repository) Rename(ctx context.Context, oldRaw, newRaw string) (oldName, newName string, err error) {
	oldName = Normalize(oldRaw)
	newName = Normalize(newRaw)
	if oldName == "" || newName == "" {
		return oldName, newName, fmt.Errorf("rename movie: empty name")
	}
	if err := r.store.Rename(ctx, oldName, newName); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) {
			return oldName, newName, err
		}
		return oldName, newName, fmt.Errorf("rename movie: %w", err)
	}
	return oldName, newName, nil
}

// Delete removes the record matching name (case-insensitively). The returned
// name is the canonical form used in the reply.
func (r *Repository) Delete(ctx context.Context, rawName string) (string, error) {
	name := Normalize(rawName)
	if err := r.store.Delete(ctx, name); err != nil {
		if errors.Is(err, ErrNotFound) {
			return name, ErrNotFound
		}
		return name, fmt.Errorf("delete movie: %w", err)
	}
	return name, nil
}

// DeleteAll clears the catalog and reports how many records were removed.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	n, err := r.store.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete all movies: %w", err)
	}
	return n, nil
}

// List returns every movie sorted ascending by name.
func (r *Repository) List(ctx context.Context) ([]Movie, error) {
	movies, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// Random returns a uniformly chosen movie, or nil when the catalog is empty.
func (r *Repository) Random(ctx context.Context) (*Movie, error) {
	m, err := r.store.Random(ctx)
	if err != nil {
		return nil, fmt.Errorf("random movie: %w", err)
	}
	return m, nil
}
