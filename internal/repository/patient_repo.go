package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/medicore/medicore/internal/domain/patient"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) GetByNationalID(ctx context.Context, nationalID string) (*patient.Identity, error) {
	var i patient.Identity
	err := r.db.WithContext(ctx).First(&i, "identity_id = ?", nationalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("fetching identity %s: %w", nationalID, err)
	}
	return &i, nil
}

func (r *PatientRepository) Save(ctx context.Context, i *patient.Identity) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "gender", "birth_date"}),
	}).Create(i).Error
	if err != nil {
		return fmt.Errorf("saving identity %s: %w", i.IdentityID, err)
	}
	return nil
}

func (r *PatientRepository) Update(ctx context.Context, nationalID string, cmd *patient.UpdateIdentityCommand) (*patient.Identity, error) {
	i, err := r.GetByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		i.Name = *cmd.Name
	}
	if cmd.Gender != nil {
		i.Gender = *cmd.Gender
	}
	if cmd.BirthDate != nil {
		i.BirthDate = *cmd.BirthDate
	}
	if err := r.db.WithContext(ctx).Save(i).Error; err != nil {
		return nil, fmt.Errorf("updating identity %s: %w", nationalID, err)
	}
	return i, nil
}

func (r *PatientRepository) Delete(ctx context.Context, nationalID string) error {
	res := r.db.WithContext(ctx).Where("identity_id = ?", nationalID).Delete(&patient.Identity{})
	if res.Error != nil {
		return fmt.Errorf("deleting identity %s: %w", nationalID, res.Error)
	}
	if res.RowsAffected == 0 {
		return patient.ErrIdentityNotFound
	}
	return nil
}

func (r *PatientRepository) List(ctx context.Context, q *patient.ListIdentitiesQuery) (*patient.PagedIdentities, error) {
	tx := r.db.WithContext(ctx).Model(&patient.Identity{})
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Where("identity_id ILIKE ? OR name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting identities: %w", err)
	}

	var rows []*patient.Identity
	if err := tx.Order("identity_id").Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing identities: %w", err)
	}

	return &patient.PagedIdentities{
		Identities: rows,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (r *PatientRepository) CaseCount(ctx context.Context, nationalID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(`"case"`).Where("identity_id = ?", nationalID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting cases for identity %s: %w", nationalID, err)
	}
	return count, nil
}

// ListMergedCases flattens each identity with its most recently created case.
// The top-1-per-identity reduction runs in the database as a window query so
// pagination happens before any rows reach the application.
func (r *PatientRepository) ListMergedCases(ctx context.Context, q *patient.MergedListQuery) (*patient.PagedMergedRows, error) {
	base := r.db.WithContext(ctx).Table(`"case" AS c`).
		Joins("JOIN identity i ON i.identity_id = c.identity_id")

	if q.ArchiveCode != "" {
		base = base.Joins("JOIN archive_case ac ON ac.case_id = c.id").
			Joins("JOIN archive a ON a.id = ac.archive_id").
			Where("a.archive_code = ?", q.ArchiveCode)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		base = base.Where("i.identity_id ILIKE ? OR i.name ILIKE ?", pattern, pattern)
	}

	ranked := base.Select(`i.identity_id, i.name, i.gender, i.birth_date,
		c.id AS case_id, c.case_code, c.phone_number, c.home_address, c.blood_type,
		c.main_diagnosis, c.has_transplant_surgery, c.is_in_transplant_queue,
		ROW_NUMBER() OVER (PARTITION BY i.identity_id ORDER BY c.id DESC) AS rn`)

	var total int64
	err := r.db.WithContext(ctx).Table("(?) AS ranked", ranked).
		Where("rn = 1").
		Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("counting merged patient rows: %w", err)
	}

	var rows []*patient.MergedCaseRow
	err = r.db.WithContext(ctx).Table("(?) AS ranked", ranked).
		Where("rn = 1").
		Order("identity_id").
		Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing merged patient rows: %w", err)
	}

	return &patient.PagedMergedRows{
		Rows:       rows,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}
