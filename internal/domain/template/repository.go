package template

import "context"

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uint) (*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uint) error
	// List returns all categories with their template counts.
	List(ctx context.Context, page, pageSize int) ([]*CategoryWithCount, int64, error)
	// NameExists checks uniqueness, excluding one category on update.
	NameExists(ctx context.Context, name string, excludeID uint) (bool, error)
}

type Repository interface {
	// Create persists a definition together with its entry links in one
	// transaction. Returns ErrCodeConflict on a code collision.
	Create(ctx context.Context, d *Definition, entryIDs []uint) error

	// GetByCode retrieves a definition with its category and entries loaded.
	GetByCode(ctx context.Context, templateCode string) (*Definition, error)

	GetByCodes(ctx context.Context, templateCodes []string) (map[string]*Definition, error)

	// Update applies field changes; a non-nil entryIDs replaces the entry set.
	Update(ctx context.Context, d *Definition, entryIDs *[]uint) error

	DeleteByCode(ctx context.Context, templateCode string) error

	List(ctx context.Context, q *ListDefinitionsQuery) (*PagedDefinitions, error)

	CodesWithPrefix(ctx context.Context, prefix string) ([]string, error)

	// EntryIDsExist reports which of the given dictionary entry IDs are absent.
	EntryIDsExist(ctx context.Context, ids []uint) (missing []uint, err error)
}
