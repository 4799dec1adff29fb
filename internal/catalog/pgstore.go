// pgstore.go — Postgres-backed movie store.
//
// The unique index on LOWER(name) is what actually guarantees the
// case-insensitive uniqueness invariant; the repository's pre-insert
// existence check only exists to give a friendlier conflict path. A
// constraint violation surfacing from a racing insert is mapped to
// ErrAlreadyExists, never treated as a fault.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS movies (
	id           UUID PRIMARY KEY,
	name         TEXT NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	release_year TEXT NOT NULL DEFAULT '',
	services     TEXT[] NOT NULL DEFAULT '{}',
	rating       DOUBLE PRECISION,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS movies_name_lower_idx ON movies (LOWER(name));
`

// PGStore implements Store on Postgres via database/sql + lib/pq.
type PGStore struct {
	db *sql.DB
}

// OpenPG connects to Postgres, verifies the connection, and bootstraps the
// movies table. dsn is a lib/pq connection string.
func OpenPG(ctx context.Context, dsn string) (*PGStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	s := &PGStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPGStore wraps an existing connection pool without touching the schema.
// Used by integration tests that manage their own database lifecycle.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PGStore) Close() error {
	return s.db.Close()
}

const movieCols = `id, name, title, release_year, services, rating`

func scanMovie(row interface{ Scan(...any) error }) (*Movie, error) {
	var (
		m        Movie
		services pq.StringArray
		rating   sql.NullFloat64
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Title, &m.ReleaseYear, &services, &rating); err != nil {
		return nil, err
	}
	m.Services = []string(services)
	if rating.Valid {
		m.Rating = &rating.Float64
	}
	return &m, nil
}

func (s *PGStore) Insert(ctx context.Context, m Movie) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	var rating sql.NullFloat64
	if m.Rating != nil {
		rating = sql.NullFloat64{Float64: *m.Rating, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO movies (id, name, title, release_year, services, rating)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Name, m.Title, m.ReleaseYear, pq.StringArray(m.Services), rating)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

func (s *PGStore) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM movies WHERE LOWER(name) = LOWER($1))`,
		name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists check: %w", err)
	}
	return exists, nil
}

func (s *PGStore) List(ctx context.Context) ([]Movie, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieCols+` FROM movies ORDER BY LOWER(name) ASC`)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var movies []Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

func (s *PGStore) Rename(ctx context.Context, oldName, newName string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE movies SET name = $2 WHERE LOWER(name) = LOWER($1)`,
		oldName, newName)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("rename movie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename movie: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM movies WHERE LOWER(name) = LOWER($1)`, name)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM movies`)
	if err != nil {
		return 0, fmt.Errorf("delete all movies: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all movies: %w", err)
	}
	return n, nil
}

// Random draws one row uniformly in a single round trip, so the result
// cannot be skewed by inserts or deletes racing a separate count query.
func (s *PGStore) Random(ctx context.Context) (*Movie, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+movieCols+` FROM movies ORDER BY random() LIMIT 1`)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("random movie: %w", err)
	}
	return m, nil
}

// Count returns the number of stored movies. Used by the health endpoint;
// not part of the Store interface.
func (s *PGStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
