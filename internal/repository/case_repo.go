package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/medicore/medicore/internal/domain/casefile"
	"github.com/medicore/medicore/internal/domain/patient"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// CreateWithIdentity writes the identity upsert, the case insert and the
// archive links in one transaction. A code collision returns ErrCodeConflict
// with every write rolled back, so a retry starts from a clean slate.
func (r *CaseRepository) CreateWithIdentity(ctx context.Context, identity *patient.Identity, c *casefile.Case, archiveIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertIdentity(tx, identity); err != nil {
			return err
		}
		if err := tx.Omit("Identity").Create(c).Error; err != nil {
			return err
		}
		if len(archiveIDs) > 0 {
			return replaceArchiveLinks(tx, c.ID, archiveIDs)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return casefile.ErrCodeConflict
		}
		return fmt.Errorf("creating case: %w", err)
	}
	return nil
}

// UpdateWithIdentity saves the identity and case together; a non-nil
// archiveIDs swaps the archive membership inside the same transaction.
func (r *CaseRepository) UpdateWithIdentity(ctx context.Context, identity *patient.Identity, c *casefile.Case, archiveIDs *[]uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertIdentity(tx, identity); err != nil {
			return err
		}
		if err := tx.Omit("Identity").Save(c).Error; err != nil {
			return err
		}
		if archiveIDs != nil {
			return replaceArchiveLinks(tx, c.ID, *archiveIDs)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("updating case %s: %w", c.CaseCode, err)
	}
	return nil
}

func upsertIdentity(tx *gorm.DB, i *patient.Identity) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "gender", "birth_date"}),
	}).Create(i).Error
}

func replaceArchiveLinks(tx *gorm.DB, caseID uint, archiveIDs []uint) error {
	if err := tx.Exec("DELETE FROM archive_case WHERE case_id = ?", caseID).Error; err != nil {
		return err
	}
	for _, archiveID := range archiveIDs {
		if err := tx.Exec("INSERT INTO archive_case (archive_id, case_id) VALUES (?, ?)", archiveID, caseID).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *CaseRepository) GetByCode(ctx context.Context, caseCode string) (*casefile.Case, error) {
	var c casefile.Case
	err := r.db.WithContext(ctx).Preload("Identity").First(&c, "case_code = ?", caseCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, casefile.ErrCaseNotFound
		}
		return nil, fmt.Errorf("fetching case %s: %w", caseCode, err)
	}
	return &c, nil
}

func (r *CaseRepository) GetByCodes(ctx context.Context, caseCodes []string) (map[string]*casefile.Case, error) {
	if len(caseCodes) == 0 {
		return map[string]*casefile.Case{}, nil
	}
	var rows []*casefile.Case
	if err := r.db.WithContext(ctx).Where("case_code IN ?", caseCodes).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetching cases: %w", err)
	}
	out := make(map[string]*casefile.Case, len(rows))
	for _, c := range rows {
		out[c.CaseCode] = c
	}
	return out, nil
}

// DeleteByCode removes a case along with its measurements, images and
// archive links. When the case was the identity's last one, the identity row
// goes with it, all inside a single transaction.
func (r *CaseRepository) DeleteByCode(ctx context.Context, caseCode string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c casefile.Case
		if err := tx.First(&c, "case_code = ?", caseCode).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM data_table WHERE case_id = ?", c.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM images WHERE case_id = ?", c.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM archive_case WHERE case_id = ?", c.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&c).Error; err != nil {
			return err
		}
		var siblings int64
		if err := tx.Table(`"case"`).Where("identity_id = ?", c.IdentityID).Count(&siblings).Error; err != nil {
			return err
		}
		if siblings == 0 {
			return tx.Exec("DELETE FROM identity WHERE identity_id = ?", c.IdentityID).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return casefile.ErrCaseNotFound
		}
		return fmt.Errorf("deleting case %s: %w", caseCode, err)
	}
	return nil
}

func (r *CaseRepository) List(ctx context.Context, q *casefile.ListCasesQuery) (*casefile.PagedCases, error) {
	tx := r.db.WithContext(ctx).Model(&casefile.Case{})
	if q.NationalID != "" {
		tx = tx.Where(`"case".identity_id = ?`, q.NationalID)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Joins(`LEFT JOIN archive_case ac ON ac.case_id = "case".id`).
			Joins("LEFT JOIN archive a ON a.id = ac.archive_id").
			Where(`a.archive_code ILIKE ? OR "case".identity_id ILIKE ? OR "case".opd_id ILIKE ? OR "case".inhospital_id ILIKE ? OR "case".name ILIKE ?`,
				pattern, pattern, pattern, pattern, pattern).
			Distinct(`"case".*`)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting cases: %w", err)
	}

	var rows []*casefile.Case
	err := tx.Preload("Identity").
		Order("case_code").
		Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}

	return &casefile.PagedCases{
		Cases:      rows,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (r *CaseRepository) CodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&casefile.Case{}).
		Where("case_code LIKE ?", prefix+"%").
		Pluck("case_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("scanning case codes with prefix %s: %w", prefix, err)
	}
	return codes, nil
}

func (r *CaseRepository) ArchiveCodesFor(ctx context.Context, caseID uint) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Table("archive").
		Joins("JOIN archive_case ac ON ac.archive_id = archive.id").
		Where("ac.case_id = ?", caseID).
		Order("archive.archive_code").
		Pluck("archive.archive_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("fetching archive codes for case %d: %w", caseID, err)
	}
	return codes, nil
}

func (r *CaseRepository) AddImage(ctx context.Context, img *casefile.Image) error {
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	return nil
}

func (r *CaseRepository) ListImages(ctx context.Context, caseID uint) ([]*casefile.Image, error) {
	var rows []*casefile.Image
	if err := r.db.WithContext(ctx).Where("case_id = ?", caseID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing images for case %d: %w", caseID, err)
	}
	return rows, nil
}

func (r *CaseRepository) DeleteImage(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&casefile.Image{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting image %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return casefile.ErrImageNotFound
	}
	return nil
}
