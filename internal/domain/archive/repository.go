package archive

import "context"

type Repository interface {
	Create(ctx context.Context, a *Archive) error

	// GetByCode retrieves an archive by business code. Returns ErrArchiveNotFound.
	GetByCode(ctx context.Context, archiveCode string) (*Archive, error)

	Update(ctx context.Context, a *Archive) error

	DeleteByCode(ctx context.Context, archiveCode string) error

	List(ctx context.Context, page, pageSize int) (*PagedArchives, error)

	CodesWithPrefix(ctx context.Context, prefix string) ([]string, error)

	// ResolveByCodes returns the archives matching the given codes, keyed by
	// code; unknown codes are absent from the map.
	ResolveByCodes(ctx context.Context, archiveCodes []string) (map[string]*Archive, error)

	// ResolveByIDs returns the archives matching the given surrogate IDs,
	// keyed by ID; unknown IDs are absent from the map.
	ResolveByIDs(ctx context.Context, ids []uint) (map[uint]*Archive, error)

	// CaseCount returns how many cases belong to the archive.
	CaseCount(ctx context.Context, archiveID uint) (int64, error)

	// CaseCodesFor returns the business codes of the archive's member cases,
	// ordered by code.
	CaseCodesFor(ctx context.Context, archiveID uint) ([]string, error)
}
