package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/medicore/internal/domain/patient"
	"github.com/medicore/medicore/internal/service"
)

type PatientHandler struct {
	svc *service.PatientService
}

func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func (h *PatientHandler) Get(c *gin.Context) {
	view, err := h.svc.GetIdentity(c.Request.Context(), c.Param("identity_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, view)
}

type updateIdentityRequest struct {
	Name      *string `json:"name"`
	Gender    *int    `json:"gender"`
	BirthDate string  `json:"birth_date"`
}

func (h *PatientHandler) Update(c *gin.Context) {
	var req updateIdentityRequest
	if !bindJSON(c, &req) {
		return
	}
	birthDate, ok := parseBirthDate(c, req.BirthDate)
	if !ok {
		return
	}

	var gender *patient.Gender
	if req.Gender != nil {
		g := patient.Gender(*req.Gender)
		gender = &g
	}

	identity, err := h.svc.UpdateIdentity(c.Request.Context(), c.Param("identity_id"), &patient.UpdateIdentityCommand{
		Name:      req.Name,
		Gender:    gender,
		BirthDate: birthDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, identity)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteIdentity(c.Request.Context(), c.Param("identity_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *PatientHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	paged, err := h.svc.ListIdentities(c.Request.Context(), &patient.ListIdentitiesQuery{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPaged(c, paged.Identities, paged.TotalCount, paged.Page, paged.PageSize)
}
