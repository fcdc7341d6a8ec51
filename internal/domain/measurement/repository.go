package measurement

import (
	"context"
	"time"
)

type Repository interface {
	// Create inserts one measurement. Returns ErrDuplicate when the
	// (case, template, entry, check_time) tuple is already present.
	Create(ctx context.Context, m *Measurement) error

	// BatchCreate inserts all rows in one transaction; any failure rolls the
	// whole batch back. With upsert set, conflicting rows are overwritten
	// instead of failing.
	BatchCreate(ctx context.Context, rows []*Measurement, upsert bool) error

	// GetByID retrieves one measurement by surrogate key. Returns ErrNotFound.
	GetByID(ctx context.Context, id uint) (*Measurement, error)

	// GetDetailByID retrieves one measurement joined with its business names.
	GetDetailByID(ctx context.Context, id uint) (*Detail, error)

	// FindByKey locates a measurement by its natural key components, already
	// resolved to surrogate IDs. A zero templateID matches any template.
	FindByKey(ctx context.Context, caseID, templateID, dictionaryID uint, checkTime time.Time) ([]*Measurement, error)

	Update(ctx context.Context, m *Measurement) error

	Delete(ctx context.Context, id uint) error

	// DeleteByKey removes every row matching the resolved natural key in one
	// statement and reports how many went. A zero templateID matches any
	// template.
	DeleteByKey(ctx context.Context, caseID, templateID, dictionaryID uint, checkTime time.Time) (int64, error)

	List(ctx context.Context, q *ListQuery) (*PagedDetails, error)

	// ListDetailsForCases returns joined rows for a set of cases ordered by
	// case then check time. Feeds the template-summary and per-patient
	// case-data reports.
	ListDetailsForCases(ctx context.Context, caseIDs []uint) ([]*Detail, error)

	// ValuesAt returns the (word_code, word_name, value) rows recorded for a
	// case under a template at one exact timestamp.
	ValuesAt(ctx context.Context, caseID, templateID uint, checkTime time.Time) ([]*Detail, error)

	// PointsFor returns the (check_time, value) pairs recorded for a case and
	// dictionary entry, ordered by check time.
	PointsFor(ctx context.Context, caseID, dictionaryID uint) ([]*Point, error)

	// NumericEntriesWithData enumerates numeric-typed dictionary entries that
	// have at least one measurement for the case, with the template each was
	// recorded under.
	NumericEntriesWithData(ctx context.Context, caseID uint) ([]*AxisEntry, error)

	// CheckTimesFor enumerates the distinct timestamps with any measurement
	// for a case and dictionary entry.
	CheckTimesFor(ctx context.Context, caseID, dictionaryID uint) ([]time.Time, error)
}
