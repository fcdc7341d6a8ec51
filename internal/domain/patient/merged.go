package patient

import (
	"context"
	"time"
)

// MergedCaseRow flattens an identity with its most recently created case for
// the merged patient listing.
type MergedCaseRow struct {
	IdentityID string    `json:"identity_id"`
	Name       string    `json:"name"`
	Gender     Gender    `json:"gender"`
	BirthDate  time.Time `json:"birth_date"`

	CaseID               uint   `json:"case_id"`
	CaseCode             string `json:"case_code"`
	PhoneNumber          string `json:"phone_number"`
	HomeAddress          string `json:"home_address"`
	BloodType            string `json:"blood_type"`
	MainDiagnosis        string `json:"main_diagnosis"`
	HasTransplantSurgery string `json:"has_transplant_surgery"`
	IsInTransplantQueue  string `json:"is_in_transplant_queue"`
}

type MergedListQuery struct {
	// ArchiveCode restricts rows to identities with a case in the archive.
	ArchiveCode string
	// Search matches identity name or national ID.
	Search   string
	Page     int
	PageSize int
}

type PagedMergedRows struct {
	Rows       []*MergedCaseRow
	TotalCount int64
	Page       int
	PageSize   int
}

// MergedCaseReader is implemented by the store as a windowed
// latest-case-per-identity query with database-level pagination.
type MergedCaseReader interface {
	ListMergedCases(ctx context.Context, q *MergedListQuery) (*PagedMergedRows, error)
}
