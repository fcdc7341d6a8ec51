package casefile

import (
	"context"

	"github.com/medicore/medicore/internal/domain/patient"
)

type Repository interface {
	// CreateWithIdentity upserts the patient identity and inserts the case in
	// one transaction, optionally setting the archive membership. A failure at
	// any step rolls back the identity write too. Returns ErrCodeConflict on a
	// case-code collision.
	CreateWithIdentity(ctx context.Context, identity *patient.Identity, c *Case, archiveIDs []uint) error

	// UpdateWithIdentity upserts the identity and saves the case in one
	// transaction. A non-nil archiveIDs replaces the case's archive membership
	// with exactly that set; nil leaves it untouched.
	UpdateWithIdentity(ctx context.Context, identity *patient.Identity, c *Case, archiveIDs *[]uint) error

	// GetByCode retrieves a case by its business code with the identity
	// preloaded. Returns ErrCaseNotFound.
	GetByCode(ctx context.Context, caseCode string) (*Case, error)

	GetByCodes(ctx context.Context, caseCodes []string) (map[string]*Case, error)

	DeleteByCode(ctx context.Context, caseCode string) error

	List(ctx context.Context, q *ListCasesQuery) (*PagedCases, error)

	CodesWithPrefix(ctx context.Context, prefix string) ([]string, error)

	// ArchiveCodesFor returns the archive codes a case belongs to.
	ArchiveCodesFor(ctx context.Context, caseID uint) ([]string, error)

	// Images
	AddImage(ctx context.Context, img *Image) error
	ListImages(ctx context.Context, caseID uint) ([]*Image, error)
	DeleteImage(ctx context.Context, id uint) error
}
