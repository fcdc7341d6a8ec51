package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/medicore/medicore/internal/domain/archive"
)

// ArchiveRepository is the gorm-backed implementation of archive.Repository.
type ArchiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) Create(ctx context.Context, a *archive.Archive) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return archive.ErrCodeConflict
		}
		return fmt.Errorf("creating archive: %w", err)
	}
	return nil
}

func (r *ArchiveRepository) GetByCode(ctx context.Context, archiveCode string) (*archive.Archive, error) {
	var a archive.Archive
	err := r.db.WithContext(ctx).First(&a, "archive_code = ?", archiveCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, archive.ErrArchiveNotFound
		}
		return nil, fmt.Errorf("fetching archive %s: %w", archiveCode, err)
	}
	return &a, nil
}

func (r *ArchiveRepository) Update(ctx context.Context, a *archive.Archive) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("updating archive %s: %w", a.ArchiveCode, err)
	}
	return nil
}

// DeleteByCode removes the archive and its case links; the cases themselves
// are untouched.
func (r *ArchiveRepository) DeleteByCode(ctx context.Context, archiveCode string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a archive.Archive
		if err := tx.First(&a, "archive_code = ?", archiveCode).Error; err != nil {
			return err
		}
		if err := tx.Where("archive_id = ?", a.ID).Delete(&archive.CaseLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&a).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return archive.ErrArchiveNotFound
		}
		return fmt.Errorf("deleting archive %s: %w", archiveCode, err)
	}
	return nil
}

func (r *ArchiveRepository) List(ctx context.Context, page, pageSize int) (*archive.PagedArchives, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&archive.Archive{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting archives: %w", err)
	}

	var rows []*archive.WithCount
	err := r.db.WithContext(ctx).
		Table("archive").
		Select("archive.*, COUNT(archive_case.id) AS case_count").
		Joins("LEFT JOIN archive_case ON archive_case.archive_id = archive.id").
		Group("archive.id").
		Order("archive.id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}

	return &archive.PagedArchives{
		Archives:   rows,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (r *ArchiveRepository) CodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&archive.Archive{}).
		Where("archive_code LIKE ?", prefix+"%").
		Pluck("archive_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("listing archive codes: %w", err)
	}
	return codes, nil
}

func (r *ArchiveRepository) ResolveByCodes(ctx context.Context, archiveCodes []string) (map[string]*archive.Archive, error) {
	if len(archiveCodes) == 0 {
		return map[string]*archive.Archive{}, nil
	}
	var rows []*archive.Archive
	err := r.db.WithContext(ctx).
		Where("archive_code IN ?", archiveCodes).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("resolving archive codes: %w", err)
	}
	out := make(map[string]*archive.Archive, len(rows))
	for _, a := range rows {
		out[a.ArchiveCode] = a
	}
	return out, nil
}

func (r *ArchiveRepository) ResolveByIDs(ctx context.Context, ids []uint) (map[uint]*archive.Archive, error) {
	if len(ids) == 0 {
		return map[uint]*archive.Archive{}, nil
	}
	var rows []*archive.Archive
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("resolving archive ids: %w", err)
	}
	out := make(map[uint]*archive.Archive, len(rows))
	for _, a := range rows {
		out[a.ID] = a
	}
	return out, nil
}

func (r *ArchiveRepository) CaseCount(ctx context.Context, archiveID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&archive.CaseLink{}).
		Where("archive_id = ?", archiveID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting archive cases: %w", err)
	}
	return count, nil
}

func (r *ArchiveRepository) CaseCodesFor(ctx context.Context, archiveID uint) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&archive.CaseLink{}).
		Joins(`JOIN "case" ON "case".id = archive_case.case_id`).
		Where("archive_case.archive_id = ?", archiveID).
		Order(`"case".case_code`).
		Pluck(`"case".case_code`, &codes).Error
	if err != nil {
		return nil, fmt.Errorf("listing archive case codes: %w", err)
	}
	return codes, nil
}
