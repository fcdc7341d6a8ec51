package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medicore/medicore/internal/domain/casefile"
	"github.com/medicore/medicore/internal/domain/patient"
	"github.com/medicore/medicore/internal/service"
)

type CaseHandler struct {
	svc *service.CaseService
}

func NewCaseHandler(svc *service.CaseService) *CaseHandler {
	return &CaseHandler{svc: svc}
}

const birthDateLayout = "2006-01-02"

func parseBirthDate(c *gin.Context, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "birth_date must use YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

type createCaseRequest struct {
	NationalID string `json:"identity" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Gender     *int   `json:"gender" binding:"required"`
	BirthDate  string `json:"birth_date"`

	OPDID        string `json:"opd_id"`
	InhospitalID string `json:"inhospital_id"`

	PhoneNumber string `json:"phone_number"`
	HomeAddress string `json:"home_address"`

	BloodType            string `json:"blood_type"`
	MainDiagnosis        string `json:"main_diagnosis"`
	HasTransplantSurgery string `json:"has_transplant_surgery"`
	IsInTransplantQueue  string `json:"is_in_transplant_queue"`

	ArchiveCodes []string `json:"archive_codes"`
	ArchiveIDs   []uint   `json:"archive_ids"`
}

// caseDetail adds the derived age to a case view for the wire.
type caseDetail struct {
	*service.CaseView
	Age int `json:"age"`
}

func viewCase(v *service.CaseView) *caseDetail {
	return &caseDetail{CaseView: v, Age: v.Age()}
}

type caseRow struct {
	*casefile.Case
	Age int `json:"age"`
}

func viewCases(cases []*casefile.Case) []*caseRow {
	rows := make([]*caseRow, 0, len(cases))
	for _, cs := range cases {
		rows = append(rows, &caseRow{Case: cs, Age: cs.Age()})
	}
	return rows
}

func (h *CaseHandler) Create(c *gin.Context) {
	var req createCaseRequest
	if !bindJSON(c, &req) {
		return
	}
	birthDate, ok := parseBirthDate(c, req.BirthDate)
	if !ok {
		return
	}

	view, err := h.svc.CreateCase(c.Request.Context(), &casefile.CreateCaseCommand{
		NationalID:           req.NationalID,
		OPDID:                req.OPDID,
		InhospitalID:         req.InhospitalID,
		Name:                 req.Name,
		Gender:               patient.Gender(*req.Gender),
		BirthDate:            birthDate,
		PhoneNumber:          req.PhoneNumber,
		HomeAddress:          req.HomeAddress,
		BloodType:            req.BloodType,
		MainDiagnosis:        req.MainDiagnosis,
		HasTransplantSurgery: req.HasTransplantSurgery,
		IsInTransplantQueue:  req.IsInTransplantQueue,
		ArchiveCodes:         req.ArchiveCodes,
		ArchiveIDs:           req.ArchiveIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, viewCase(view))
}

func (h *CaseHandler) Get(c *gin.Context) {
	view, err := h.svc.GetCase(c.Request.Context(), c.Param("case_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewCase(view))
}

type updateCaseRequest struct {
	NationalID *string `json:"identity"`
	Name       *string `json:"name"`
	Gender     *int    `json:"gender"`
	BirthDate  string  `json:"birth_date"`

	OPDID        *string `json:"opd_id"`
	InhospitalID *string `json:"inhospital_id"`

	PhoneNumber *string `json:"phone_number"`
	HomeAddress *string `json:"home_address"`

	BloodType            *string `json:"blood_type"`
	MainDiagnosis        *string `json:"main_diagnosis"`
	HasTransplantSurgery *string `json:"has_transplant_surgery"`
	IsInTransplantQueue  *string `json:"is_in_transplant_queue"`

	ArchiveCodes *[]string `json:"archive_codes"`
	ArchiveIDs   *[]uint   `json:"archive_ids"`
}

func (h *CaseHandler) Update(c *gin.Context) {
	var req updateCaseRequest
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

	view, err := h.svc.UpdateCase(c.Request.Context(), c.Param("case_code"), &casefile.UpdateCaseCommand{
		NationalID:           req.NationalID,
		OPDID:                req.OPDID,
		InhospitalID:         req.InhospitalID,
		Name:                 req.Name,
		Gender:               gender,
		BirthDate:            birthDate,
		PhoneNumber:          req.PhoneNumber,
		HomeAddress:          req.HomeAddress,
		BloodType:            req.BloodType,
		MainDiagnosis:        req.MainDiagnosis,
		HasTransplantSurgery: req.HasTransplantSurgery,
		IsInTransplantQueue:  req.IsInTransplantQueue,
		ArchiveCodes:         req.ArchiveCodes,
		ArchiveIDs:           req.ArchiveIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewCase(view))
}

func (h *CaseHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteCase(c.Request.Context(), c.Param("case_code")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *CaseHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	paged, err := h.svc.ListCases(c.Request.Context(), &casefile.ListCasesQuery{
		Search:     c.Query("search"),
		NationalID: c.Query("identity"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPaged(c, viewCases(paged.Cases), paged.TotalCount, paged.Page, paged.PageSize)
}

// ListByIdentity lists every case filed under one national ID.
func (h *CaseHandler) ListByIdentity(c *gin.Context) {
	page, pageSize := pageParams(c)
	paged, err := h.svc.ListCases(c.Request.Context(), &casefile.ListCasesQuery{
		NationalID: c.Param("identity_id"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPaged(c, viewCases(paged.Cases), paged.TotalCount, paged.Page, paged.PageSize)
}

type addImageRequest struct {
	TemplateID uint   `json:"data_template_id" binding:"required"`
	URL        string `json:"url" binding:"required"`
	Remark     string `json:"remark"`
}

func (h *CaseHandler) AddImage(c *gin.Context) {
	var req addImageRequest
	if !bindJSON(c, &req) {
		return
	}
	img, err := h.svc.AddImage(c.Request.Context(), c.Param("case_code"), req.TemplateID, req.URL, req.Remark)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, img)
}

func (h *CaseHandler) ListImages(c *gin.Context) {
	images, err := h.svc.ListImages(c.Request.Context(), c.Param("case_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, images)
}

func (h *CaseHandler) DeleteImage(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteImage(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}
