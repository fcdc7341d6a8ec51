package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medicore/medicore/internal/domain/patient"
	"github.com/medicore/medicore/internal/service"
)

type ReportingHandler struct {
	svc *service.ReportingService
}

func NewReportingHandler(svc *service.ReportingService) *ReportingHandler {
	return &ReportingHandler{svc: svc}
}

type mergedRow struct {
	*patient.MergedCaseRow
	Age int `json:"age"`
}

// ListMergedPatients serves the deduplicated patient directory: one row per
// identity with its latest case.
func (h *ReportingHandler) ListMergedPatients(c *gin.Context) {
	page, pageSize := pageParams(c)
	paged, err := h.svc.ListMergedPatients(c.Request.Context(), &patient.MergedListQuery{
		ArchiveCode: c.Query("archive_code"),
		Search:      c.Query("search"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	rows := make([]*mergedRow, 0, len(paged.Rows))
	now := time.Now()
	for _, r := range paged.Rows {
		rows = append(rows, &mergedRow{MergedCaseRow: r, Age: patient.AgeAt(r.BirthDate, now)})
	}
	respondPaged(c, rows, paged.TotalCount, paged.Page, paged.PageSize)
}

func (h *ReportingHandler) PatientCaseData(c *gin.Context) {
	data, err := h.svc.PatientCaseData(c.Request.Context(), c.Param("identity_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, data)
}

type templateSummaryRequest struct {
	CaseCodes []string `json:"case_codes" binding:"required"`
}

// TemplateSummary indexes the filled-in forms across a set of cases.
func (h *ReportingHandler) TemplateSummary(c *gin.Context) {
	var req templateSummaryRequest
	if !bindJSON(c, &req) {
		return
	}
	groups, err := h.svc.TemplateSummary(c.Request.Context(), req.CaseCodes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, groups)
}

func (h *ReportingHandler) TemplateDetail(c *gin.Context) {
	templateCode := c.Query("template_code")
	checkTime := c.Query("check_time")
	if templateCode == "" || checkTime == "" {
		respondError(c, http.StatusBadRequest, "template_code and check_time are required")
		return
	}
	details, err := h.svc.TemplateDetail(c.Request.Context(), c.Param("case_code"), templateCode, checkTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, details)
}

func (h *ReportingHandler) VisualizationOptions(c *gin.Context) {
	entries, err := h.svc.VisualizationOptions(c.Request.Context(), c.Param("case_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, entries)
}

func (h *ReportingHandler) XAxisOptions(c *gin.Context) {
	wordCode := c.Query("word_code")
	if wordCode == "" {
		respondError(c, http.StatusBadRequest, "word_code is required")
		return
	}
	times, err := h.svc.XAxisOptions(c.Request.Context(), c.Param("case_code"), wordCode)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, times)
}

type visualizationDataRequest struct {
	CaseCode   string   `json:"case_code" binding:"required"`
	CheckTimes []string `json:"check_times" binding:"required"`
	WordCodes  []string `json:"word_codes" binding:"required"`
}

// VisualizationData serves chartable series for the selected entries at the
// selected X-axis timestamps.
func (h *ReportingHandler) VisualizationData(c *gin.Context) {
	var req visualizationDataRequest
	if !bindJSON(c, &req) {
		return
	}
	series, err := h.svc.VisualizationData(c.Request.Context(), req.CaseCode, req.CheckTimes, req.WordCodes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, series)
}
