package catalog

import "context"

// Store is the persistence boundary for movie records. All name matching is
// case-insensitive; implementations must enforce the uniqueness of
// LOWER(name) at the storage layer so that concurrent inserts of the same
// title cannot both succeed.
type Store interface {
	// Insert persists a new record. Returns ErrAlreadyExists if a record
	// with the same name (case-insensitively) is already present.
	Insert(ctx context.Context, m Movie) error

	// Exists reports whether a record with the given name is present.
	Exists(ctx context.Context, name string) (bool, error)

	// List returns every record sorted ascending by name.
	List(ctx context.Context) ([]Movie, error)

	// Rename changes the name of the record matching oldName. Only the
	// name field is touched. Returns ErrNotFound if no record matches and
	// ErrAlreadyExists if newName collides with another record.
	Rename(ctx context.Context, oldName, newName string) error

	// Delete removes the record matching name. Returns ErrNotFound if no
	// record matches.
	Delete(ctx context.Context, name string) error

	// DeleteAll removes every record and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)

	// Random returns a uniformly chosen record, or nil if the store is
	// empty. The draw is atomic with respect to concurrent mutation.
	Random(ctx context.Context) (*Movie, error)
}
