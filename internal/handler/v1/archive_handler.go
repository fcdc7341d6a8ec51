package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/medicore/internal/domain/archive"
	"github.com/medicore/medicore/internal/service"
)

type ArchiveHandler struct {
	svc *service.ArchiveService
}

func NewArchiveHandler(svc *service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{svc: svc}
}

type createArchiveRequest struct {
	Name        string `json:"archive_name" binding:"required"`
	Description string `json:"archive_description"`
}

func (h *ArchiveHandler) Create(c *gin.Context) {
	var req createArchiveRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.svc.CreateArchive(c.Request.Context(), &archive.CreateArchiveCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *ArchiveHandler) Get(c *gin.Context) {
	a, err := h.svc.GetArchive(c.Request.Context(), c.Param("archive_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type updateArchiveRequest struct {
	Name        *string `json:"archive_name"`
	Description *string `json:"archive_description"`
}

func (h *ArchiveHandler) Update(c *gin.Context) {
	var req updateArchiveRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.svc.UpdateArchive(c.Request.Context(), c.Param("archive_code"), &archive.UpdateArchiveCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *ArchiveHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteArchive(c.Request.Context(), c.Param("archive_code")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *ArchiveHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	paged, err := h.svc.ListArchives(c.Request.Context(), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPaged(c, paged.Archives, paged.TotalCount, paged.Page, paged.PageSize)
}
