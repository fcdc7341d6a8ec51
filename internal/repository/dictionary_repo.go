package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/medicore/medicore/internal/domain/dictionary"
	"gorm.io/gorm"
)

type DictionaryRepository struct {
	db *gorm.DB
}

func NewDictionaryRepository(db *gorm.DB) *DictionaryRepository {
	return &DictionaryRepository{db: db}
}

func (r *DictionaryRepository) Create(ctx context.Context, e *dictionary.Entry) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dictionary.ErrCodeConflict
		}
		return fmt.Errorf("creating dictionary entry: %w", err)
	}
	return nil
}

func (r *DictionaryRepository) GetByCode(ctx context.Context, wordCode string) (*dictionary.Entry, error) {
	var e dictionary.Entry
	err := r.db.WithContext(ctx).First(&e, "word_code = ?", wordCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dictionary.ErrEntryNotFound
		}
		return nil, fmt.Errorf("fetching dictionary entry %s: %w", wordCode, err)
	}
	return &e, nil
}

func (r *DictionaryRepository) GetByCodes(ctx context.Context, wordCodes []string) (map[string]*dictionary.Entry, error) {
	if len(wordCodes) == 0 {
		return map[string]*dictionary.Entry{}, nil
	}
	var rows []*dictionary.Entry
	if err := r.db.WithContext(ctx).Where("word_code IN ?", wordCodes).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetching dictionary entries: %w", err)
	}
	out := make(map[string]*dictionary.Entry, len(rows))
	for _, e := range rows {
		out[e.WordCode] = e
	}
	return out, nil
}

func (r *DictionaryRepository) Update(ctx context.Context, e *dictionary.Entry) error {
	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		return fmt.Errorf("updating dictionary entry %s: %w", e.WordCode, err)
	}
	return nil
}

func (r *DictionaryRepository) DeleteByCode(ctx context.Context, wordCode string) error {
	res := r.db.WithContext(ctx).Where("word_code = ?", wordCode).Delete(&dictionary.Entry{})
	if res.Error != nil {
		return fmt.Errorf("deleting dictionary entry %s: %w", wordCode, res.Error)
	}
	if res.RowsAffected == 0 {
		return dictionary.ErrEntryNotFound
	}
	return nil
}

func (r *DictionaryRepository) List(ctx context.Context, q *dictionary.ListEntriesQuery) (*dictionary.PagedEntries, error) {
	tx := r.db.WithContext(ctx).Model(&dictionary.Entry{})
	if q.WordClass != "" {
		tx = tx.Where("word_class = ?", q.WordClass)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Where("word_name ILIKE ? OR word_eng ILIKE ? OR word_code ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting dictionary entries: %w", err)
	}

	var rows []*dictionary.Entry
	offset := (q.Page - 1) * q.PageSize
	if err := tx.Order("word_code").Offset(offset).Limit(q.PageSize).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing dictionary entries: %w", err)
	}

	return &dictionary.PagedEntries{
		Entries:    rows,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (r *DictionaryRepository) CodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&dictionary.Entry{}).
		Where("word_code LIKE ?", prefix+"%").
		Pluck("word_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("scanning dictionary codes with prefix %s: %w", prefix, err)
	}
	return codes, nil
}
