package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/medicore/medicore/internal/domain/codes"
	"github.com/medicore/medicore/internal/domain/template"
	"github.com/medicore/medicore/pkg/metrics"
)

// TemplateService owns template categories and data-template definitions:
// category name uniqueness, T-code allocation, and entry-set maintenance.
type TemplateService struct {
	categories template.CategoryRepository
	templates  template.Repository
	log        *zap.Logger
	allocator  codeAllocator
}

func NewTemplateService(categories template.CategoryRepository, templates template.Repository, log *zap.Logger, m *metrics.Collector) *TemplateService {
	return &TemplateService{
		categories: categories,
		templates:  templates,
		log:        log,
		allocator:  codeAllocator{metrics: m},
	}
}

func (s *TemplateService) CreateCategory(ctx context.Context, cmd *template.CreateCategoryCommand) (*template.Category, error) {
	if cmd.Name == "" {
		return nil, &ValidationError{Fields: []string{"name is required"}}
	}
	taken, err := s.categories.NameExists(ctx, cmd.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, template.ErrCategoryNameExists
	}

	c := &template.Category{Name: cmd.Name}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("template category created", zap.Uint("id", c.ID), zap.String("name", c.Name))
	return c, nil
}

func (s *TemplateService) UpdateCategory(ctx context.Context, id uint, cmd *template.UpdateCategoryCommand) (*template.Category, error) {
	if cmd.Name == "" {
		return nil, &ValidationError{Fields: []string{"name is required"}}
	}
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.categories.NameExists(ctx, cmd.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, template.ErrCategoryNameExists
	}

	c.Name = cmd.Name
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *TemplateService) DeleteCategory(ctx context.Context, id uint) error {
	return s.categories.Delete(ctx, id)
}

func (s *TemplateService) ListCategories(ctx context.Context, page, pageSize int) ([]*template.CategoryWithCount, int64, error) {
	normalizePage(&page, &pageSize)
	return s.categories.List(ctx, page, pageSize)
}

func (s *TemplateService) CreateTemplate(ctx context.Context, cmd *template.CreateDefinitionCommand) (*template.Definition, error) {
	var fields []string
	if cmd.TemplateName == "" {
		fields = append(fields, "template_name is required")
	}
	if cmd.CategoryID == 0 {
		fields = append(fields, "category_id is required")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if _, err := s.categories.GetByID(ctx, cmd.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checkEntryIDs(ctx, cmd.EntryIDs); err != nil {
		return nil, err
	}

	d := &template.Definition{
		TemplateName: cmd.TemplateName,
		Description:  cmd.Description,
		CategoryID:   cmd.CategoryID,
	}

	_, err := s.allocator.allocate(ctx, codes.TemplatePrefix,
		s.templates.CodesWithPrefix,
		func(ctx context.Context, code string) error {
			d.TemplateCode = code
			return s.templates.Create(ctx, d, cmd.EntryIDs)
		},
		template.ErrCodeConflict,
	)
	if err != nil {
		return nil, err
	}

	s.log.Info("data template created",
		zap.String("template_code", d.TemplateCode),
		zap.Int("entries", len(cmd.EntryIDs)),
	)
	return s.templates.GetByCode(ctx, d.TemplateCode)
}

func (s *TemplateService) GetTemplate(ctx context.Context, templateCode string) (*template.Definition, error) {
	return s.templates.GetByCode(ctx, templateCode)
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, templateCode string, cmd *template.UpdateDefinitionCommand) (*template.Definition, error) {
	d, err := s.templates.GetByCode(ctx, templateCode)
	if err != nil {
		return nil, err
	}

	if cmd.TemplateName != nil {
		if *cmd.TemplateName == "" {
			return nil, &ValidationError{Fields: []string{"template_name cannot be empty"}}
		}
		d.TemplateName = *cmd.TemplateName
	}
	if cmd.Description != nil {
		d.Description = *cmd.Description
	}
	if cmd.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *cmd.CategoryID); err != nil {
			return nil, err
		}
		d.CategoryID = *cmd.CategoryID
	}
	if cmd.EntryIDs != nil {
		if err := s.checkEntryIDs(ctx, *cmd.EntryIDs); err != nil {
			return nil, err
		}
	}

	if err := s.templates.Update(ctx, d, cmd.EntryIDs); err != nil {
		return nil, err
	}
	return s.templates.GetByCode(ctx, templateCode)
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, templateCode string) error {
	return s.templates.DeleteByCode(ctx, templateCode)
}

func (s *TemplateService) ListTemplates(ctx context.Context, q *template.ListDefinitionsQuery) (*template.PagedDefinitions, error) {
	normalizePage(&q.Page, &q.PageSize)
	return s.templates.List(ctx, q)
}

func (s *TemplateService) checkEntryIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := s.templates.EntryIDsExist(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", template.ErrUnknownEntries, missing)
	}
	return nil
}
