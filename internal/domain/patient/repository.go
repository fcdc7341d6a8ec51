package patient

import "context"

type Repository interface {
	// GetByNationalID retrieves an identity. Returns ErrIdentityNotFound.
	GetByNationalID(ctx context.Context, nationalID string) (*Identity, error)

	// Save upserts an identity row (national ID is the natural key).
	Save(ctx context.Context, i *Identity) error

	Update(ctx context.Context, nationalID string, cmd *UpdateIdentityCommand) (*Identity, error)

	Delete(ctx context.Context, nationalID string) error

	List(ctx context.Context, q *ListIdentitiesQuery) (*PagedIdentities, error)

	// CaseCount returns how many cases reference the identity.
	CaseCount(ctx context.Context, nationalID string) (int64, error)
}
