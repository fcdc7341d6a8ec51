package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/medicore/internal/domain/template"
	"github.com/medicore/medicore/internal/service"
)

type TemplateHandler struct {
	svc *service.TemplateService
}

func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *TemplateHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), &template.CreateCategoryCommand{Name: req.Name})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, category)
}

func (h *TemplateHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.svc.UpdateCategory(c.Request.Context(), id, &template.UpdateCategoryCommand{Name: req.Name})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, category)
}

func (h *TemplateHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *TemplateHandler) ListCategories(c *gin.Context) {
	page, pageSize := pageParams(c)
	categories, total, err := h.svc.ListCategories(c.Request.Context(), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPaged(c, categories, total, page, pageSize)
}

type createTemplateRequest struct {
	TemplateName string `json:"template_name" binding:"required"`
	Description  string `json:"template_description"`
	CategoryID   uint   `json:"category_id" binding:"required"`
	EntryIDs     []uint `json:"dictionary_ids"`
}

// templateView flattens a definition for the wire: entry IDs plus the
// category name instead of preloaded associations.
type templateView struct {
	*template.Definition
	CategoryName string   `json:"category_name"`
	EntryCodes   []string `json:"word_codes"`
}

func viewTemplate(d *template.Definition) *templateView {
	v := &templateView{Definition: d}
	if d.Category != nil {
		v.CategoryName = d.Category.Name
	}
	for _, e := range d.Entries {
		v.EntryCodes = append(v.EntryCodes, e.WordCode)
	}
	return v
}

func (h *TemplateHandler) Create(c *gin.Context) {
	var req createTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.svc.CreateTemplate(c.Request.Context(), &template.CreateDefinitionCommand{
		TemplateName: req.TemplateName,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		EntryIDs:     req.EntryIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, viewTemplate(d))
}

func (h *TemplateHandler) Get(c *gin.Context) {
	d, err := h.svc.GetTemplate(c.Request.Context(), c.Param("template_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewTemplate(d))
}

type updateTemplateRequest struct {
	TemplateName *string `json:"template_name"`
	Description  *string `json:"template_description"`
	CategoryID   *uint   `json:"category_id"`
	EntryIDs     *[]uint `json:"dictionary_ids"`
}

func (h *TemplateHandler) Update(c *gin.Context) {
	var req updateTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.svc.UpdateTemplate(c.Request.Context(), c.Param("template_code"), &template.UpdateDefinitionCommand{
		TemplateName: req.TemplateName,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		EntryIDs:     req.EntryIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewTemplate(d))
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteTemplate(c.Request.Context(), c.Param("template_code")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *TemplateHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	q := &template.ListDefinitionsQuery{Page: page, PageSize: pageSize}
	if raw := c.Query("category_id"); raw != "" {
		id := parseQueryInt(c, "category_id", 0)
		if id > 0 {
			uid := uint(id)
			q.CategoryID = &uid
		}
	}
	paged, err := h.svc.ListTemplates(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	views := make([]*templateView, 0, len(paged.Definitions))
	for _, d := range paged.Definitions {
		views = append(views, viewTemplate(d))
	}
	respondPaged(c, views, paged.TotalCount, paged.Page, paged.PageSize)
}
