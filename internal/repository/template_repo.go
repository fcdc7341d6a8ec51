package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/medicore/medicore/internal/domain/template"
	"gorm.io/gorm"
)

type TemplateCategoryRepository struct {
	db *gorm.DB
}

func NewTemplateCategoryRepository(db *gorm.DB) *TemplateCategoryRepository {
	return &TemplateCategoryRepository{db: db}
}

func (r *TemplateCategoryRepository) Create(ctx context.Context, c *template.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("creating template category: %w", err)
	}
	return nil
}

func (r *TemplateCategoryRepository) GetByID(ctx context.Context, id uint) (*template.Category, error) {
	var c template.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, template.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("fetching template category %d: %w", id, err)
	}
	return &c, nil
}

func (r *TemplateCategoryRepository) Update(ctx context.Context, c *template.Category) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("updating template category %d: %w", c.ID, err)
	}
	return nil
}

func (r *TemplateCategoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&template.Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting template category %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return template.ErrCategoryNotFound
	}
	return nil
}

func (r *TemplateCategoryRepository) List(ctx context.Context, page, pageSize int) ([]*template.CategoryWithCount, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&template.Category{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting template categories: %w", err)
	}

	var rows []*template.CategoryWithCount
	err := r.db.WithContext(ctx).Model(&template.Category{}).
		Select("data_template_category.*, COUNT(data_template.id) AS template_count").
		Joins("LEFT JOIN data_template ON data_template.category_id = data_template_category.id").
		Group("data_template_category.id").
		Order("data_template_category.id").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing template categories: %w", err)
	}
	return rows, total, nil
}

func (r *TemplateCategoryRepository) NameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&template.Category{}).Where("name = ?", name)
	if excludeID != 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	if err := tx.Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking category name: %w", err)
	}
	return count > 0, nil
}

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, d *template.Definition, entryIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		return createEntryLinks(tx, d.ID, entryIDs)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return template.ErrCodeConflict
		}
		return fmt.Errorf("creating data template: %w", err)
	}
	return nil
}

func createEntryLinks(tx *gorm.DB, templateID uint, entryIDs []uint) error {
	if len(entryIDs) == 0 {
		return nil
	}
	links := make([]template.EntryLink, 0, len(entryIDs))
	for _, id := range entryIDs {
		links = append(links, template.EntryLink{DataTemplateID: templateID, DictionaryID: id})
	}
	return tx.Create(&links).Error
}

func (r *TemplateRepository) GetByCode(ctx context.Context, templateCode string) (*template.Definition, error) {
	var d template.Definition
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Entries").
		First(&d, "template_code = ?", templateCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, template.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("fetching data template %s: %w", templateCode, err)
	}
	return &d, nil
}

func (r *TemplateRepository) GetByCodes(ctx context.Context, templateCodes []string) (map[string]*template.Definition, error) {
	if len(templateCodes) == 0 {
		return map[string]*template.Definition{}, nil
	}
	var rows []*template.Definition
	if err := r.db.WithContext(ctx).Where("template_code IN ?", templateCodes).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetching data templates: %w", err)
	}
	out := make(map[string]*template.Definition, len(rows))
	for _, d := range rows {
		out[d.TemplateCode] = d
	}
	return out, nil
}

func (r *TemplateRepository) Update(ctx context.Context, d *template.Definition, entryIDs *[]uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category", "Entries").Save(d).Error; err != nil {
			return err
		}
		if entryIDs == nil {
			return nil
		}
		// Replace the full entry set, never merge.
		if err := tx.Where("data_template_id = ?", d.ID).Delete(&template.EntryLink{}).Error; err != nil {
			return err
		}
		return createEntryLinks(tx, d.ID, *entryIDs)
	})
	if err != nil {
		return fmt.Errorf("updating data template %s: %w", d.TemplateCode, err)
	}
	return nil
}

func (r *TemplateRepository) DeleteByCode(ctx context.Context, templateCode string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d template.Definition
		if err := tx.First(&d, "template_code = ?", templateCode).Error; err != nil {
			return err
		}
		if err := tx.Where("data_template_id = ?", d.ID).Delete(&template.EntryLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&d).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return template.ErrTemplateNotFound
		}
		return fmt.Errorf("deleting data template %s: %w", templateCode, err)
	}
	return nil
}

func (r *TemplateRepository) List(ctx context.Context, q *template.ListDefinitionsQuery) (*template.PagedDefinitions, error) {
	tx := r.db.WithContext(ctx).Model(&template.Definition{})
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting data templates: %w", err)
	}

	var rows []*template.Definition
	err := tx.Preload("Category").Preload("Entries").
		Order("template_code").
		Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing data templates: %w", err)
	}

	return &template.PagedDefinitions{
		Definitions: rows,
		TotalCount:  total,
		Page:        q.Page,
		PageSize:    q.PageSize,
	}, nil
}

func (r *TemplateRepository) CodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&template.Definition{}).
		Where("template_code LIKE ?", prefix+"%").
		Pluck("template_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("scanning template codes with prefix %s: %w", prefix, err)
	}
	return codes, nil
}

func (r *TemplateRepository) EntryIDsExist(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	err := r.db.WithContext(ctx).Table("dictionary").
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("checking dictionary entry ids: %w", err)
	}
	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
