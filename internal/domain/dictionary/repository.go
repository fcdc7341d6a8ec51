package dictionary

import "context"

type Repository interface {
	// Create persists a new entry. Returns ErrCodeConflict when the entry's
	// word_code collides with a concurrent insert.
	Create(ctx context.Context, e *Entry) error

	// GetByCode retrieves an entry by word_code. Returns ErrEntryNotFound.
	GetByCode(ctx context.Context, wordCode string) (*Entry, error)

	// GetByCodes resolves several word_codes at once; missing codes are simply
	// absent from the result map.
	GetByCodes(ctx context.Context, wordCodes []string) (map[string]*Entry, error)

	Update(ctx context.Context, e *Entry) error

	DeleteByCode(ctx context.Context, wordCode string) error

	List(ctx context.Context, q *ListEntriesQuery) (*PagedEntries, error)

	// CodesWithPrefix returns every existing word_code starting with prefix,
	// for sequence allocation.
	CodesWithPrefix(ctx context.Context, prefix string) ([]string, error)
}
