package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/medicore/medicore/internal/domain/measurement"
	"github.com/medicore/medicore/internal/service"
)

type DataHandler struct {
	svc *service.MeasurementService
}

func NewDataHandler(svc *service.MeasurementService) *DataHandler {
	return &DataHandler{svc: svc}
}

type dataItem struct {
	WordCode  string         `json:"word_code" binding:"required"`
	Value     datatypes.JSON `json:"value" binding:"required"`
	CheckTime string         `json:"check_time"`
}

// createDataRequest covers both write shapes: a single value (word_code and
// value at top level) or a bulk submission (data_list present).
type createDataRequest struct {
	CaseCode     string         `json:"case_code" binding:"required"`
	TemplateCode string         `json:"template_code" binding:"required"`
	CheckTime    string         `json:"check_time" binding:"required"`
	WordCode     string         `json:"word_code"`
	Value        datatypes.JSON `json:"value"`
	DataList     []dataItem     `json:"data_list"`
	Upsert       bool           `json:"upsert"`
}

// Create dispatches on data_list: absent means one row, present means a
// batch under the shared case, template and default check time.
func (h *DataHandler) Create(c *gin.Context) {
	var req createDataRequest
	if !bindJSON(c, &req) {
		return
	}
	checkTime, err := measurement.ParseCheckTime(req.CheckTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(req.DataList) == 0 {
		if req.WordCode == "" {
			respondError(c, http.StatusBadRequest, "word_code is required without data_list")
			return
		}
		detail, err := h.svc.Create(c.Request.Context(), &measurement.CreateCommand{
			CaseCode:     req.CaseCode,
			TemplateCode: req.TemplateCode,
			WordCode:     req.WordCode,
			Value:        req.Value,
			CheckTime:    checkTime,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondCreated(c, detail)
		return
	}

	items := make([]measurement.BatchItem, 0, len(req.DataList))
	for _, item := range req.DataList {
		itemTime := checkTime
		if item.CheckTime != "" {
			itemTime, err = measurement.ParseCheckTime(item.CheckTime)
			if err != nil {
				respondServiceError(c, err)
				return
			}
		}
		items = append(items, measurement.BatchItem{
			WordCode:  item.WordCode,
			Value:     item.Value,
			CheckTime: itemTime,
		})
	}

	written, err := h.svc.BatchCreate(c.Request.Context(), &measurement.BatchCreateCommand{
		CaseCode:     req.CaseCode,
		TemplateCode: req.TemplateCode,
		Items:        items,
		Upsert:       req.Upsert,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"written": written})
}

func (h *DataHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, detail)
}

type updateDataRequest struct {
	Value datatypes.JSON `json:"value" binding:"required"`
}

func (h *DataHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req updateDataRequest
	if !bindJSON(c, &req) {
		return
	}
	detail, err := h.svc.UpdateValue(c.Request.Context(), id, req.Value)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, detail)
}

func (h *DataHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *DataHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	paged, err := h.svc.List(c.Request.Context(), &measurement.ListQuery{
		CaseCode: c.Query("case_code"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPaged(c, paged.Details, paged.TotalCount, paged.Page, paged.PageSize)
}

// keyFromQuery reads the natural-key query parameters; template_code is
// optional and an empty one matches rows under any template.
func keyFromQuery(c *gin.Context) (*measurement.Key, bool) {
	caseCode := c.Query("case_code")
	wordCode := c.Query("word_code")
	rawTime := c.Query("check_time")
	if caseCode == "" || wordCode == "" || rawTime == "" {
		respondError(c, http.StatusBadRequest, "case_code, word_code and check_time are required")
		return nil, false
	}
	checkTime, err := measurement.ParseCheckTime(rawTime)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return &measurement.Key{
		CaseCode:     caseCode,
		TemplateCode: c.Query("template_code"),
		WordCode:     wordCode,
		CheckTime:    checkTime,
	}, true
}

func (h *DataHandler) GetByKey(c *gin.Context) {
	key, ok := keyFromQuery(c)
	if !ok {
		return
	}
	rows, err := h.svc.FindByKey(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rows)
}

type updateByKeyRequest struct {
	CaseCode     string         `json:"case_code" binding:"required"`
	TemplateCode string         `json:"template_code"`
	WordCode     string         `json:"word_code" binding:"required"`
	CheckTime    string         `json:"check_time" binding:"required"`
	Value        datatypes.JSON `json:"value" binding:"required"`
}

func (h *DataHandler) UpdateByKey(c *gin.Context) {
	var req updateByKeyRequest
	if !bindJSON(c, &req) {
		return
	}
	checkTime, err := measurement.ParseCheckTime(req.CheckTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	detail, err := h.svc.UpdateValueByKey(c.Request.Context(), &measurement.Key{
		CaseCode:     req.CaseCode,
		TemplateCode: req.TemplateCode,
		WordCode:     req.WordCode,
		CheckTime:    checkTime,
	}, req.Value)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, detail)
}

func (h *DataHandler) DeleteByKey(c *gin.Context) {
	key, ok := keyFromQuery(c)
	if !ok {
		return
	}
	deleted, err := h.svc.DeleteByKey(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": deleted})
}
