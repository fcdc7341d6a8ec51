package v1

import (
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/medicore/medicore/internal/domain/dictionary"
	"github.com/medicore/medicore/internal/service"
)

type DictionaryHandler struct {
	svc *service.DictionaryService
}

func NewDictionaryHandler(svc *service.DictionaryService) *DictionaryHandler {
	return &DictionaryHandler{svc: svc}
}

type createEntryRequest struct {
	WordName        string         `json:"word_name" binding:"required"`
	WordEng         string         `json:"word_eng"`
	WordShort       string         `json:"word_short"`
	WordClass       string         `json:"word_class" binding:"required"`
	WordApply       string         `json:"word_apply" binding:"required"`
	WordBelong      string         `json:"word_belong"`
	DataType        string         `json:"data_type"`
	InputType       string         `json:"input_type"`
	Options         string         `json:"options"`
	FollowupOptions datatypes.JSON `json:"followup_options"`
	HasUnit         bool           `json:"has_unit"`
	Unit            string         `json:"unit"`
	IsScore         bool           `json:"is_score"`
	ScoreFunc       string         `json:"score_func"`
}

func (h *DictionaryHandler) Create(c *gin.Context) {
	var req createEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.svc.CreateEntry(c.Request.Context(), &dictionary.CreateEntryCommand{
		WordName:        req.WordName,
		WordEng:         req.WordEng,
		WordShort:       req.WordShort,
		WordClass:       req.WordClass,
		WordApply:       req.WordApply,
		WordBelong:      req.WordBelong,
		DataType:        req.DataType,
		InputType:       dictionary.InputType(req.InputType),
		Options:         req.Options,
		FollowupOptions: req.FollowupOptions,
		HasUnit:         req.HasUnit,
		Unit:            req.Unit,
		IsScore:         req.IsScore,
		ScoreFunc:       req.ScoreFunc,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, entry)
}

func (h *DictionaryHandler) Get(c *gin.Context) {
	entry, err := h.svc.GetEntry(c.Request.Context(), c.Param("word_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, entry)
}

type updateEntryRequest struct {
	WordName        *string        `json:"word_name"`
	WordEng         *string        `json:"word_eng"`
	WordShort       *string        `json:"word_short"`
	WordClass       *string        `json:"word_class"`
	WordApply       *string        `json:"word_apply"`
	WordBelong      *string        `json:"word_belong"`
	DataType        *string        `json:"data_type"`
	InputType       *string        `json:"input_type"`
	Options         *string        `json:"options"`
	FollowupOptions datatypes.JSON `json:"followup_options"`
	HasUnit         *bool          `json:"has_unit"`
	Unit            *string        `json:"unit"`
	IsScore         *bool          `json:"is_score"`
	ScoreFunc       *string        `json:"score_func"`
}

func (h *DictionaryHandler) Update(c *gin.Context) {
	var req updateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	var inputType *dictionary.InputType
	if req.InputType != nil {
		it := dictionary.InputType(*req.InputType)
		inputType = &it
	}

	entry, err := h.svc.UpdateEntry(c.Request.Context(), c.Param("word_code"), &dictionary.UpdateEntryCommand{
		WordName:        req.WordName,
		WordEng:         req.WordEng,
		WordShort:       req.WordShort,
		WordClass:       req.WordClass,
		WordApply:       req.WordApply,
		WordBelong:      req.WordBelong,
		DataType:        req.DataType,
		InputType:       inputType,
		Options:         req.Options,
		FollowupOptions: req.FollowupOptions,
		HasUnit:         req.HasUnit,
		Unit:            req.Unit,
		IsScore:         req.IsScore,
		ScoreFunc:       req.ScoreFunc,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, entry)
}

func (h *DictionaryHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteEntry(c.Request.Context(), c.Param("word_code")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *DictionaryHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	paged, err := h.svc.ListEntries(c.Request.Context(), &dictionary.ListEntriesQuery{
		WordClass: c.Query("word_class"),
		Search:    c.Query("search"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPaged(c, paged.Entries, paged.TotalCount, paged.Page, paged.PageSize)
}

// Import accepts a multipart CSV upload and creates one entry per row.
func (h *DictionaryHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, 400, "missing file upload")
		return
	}
	f, err := file.Open()
	if err != nil {
		respondError(c, 400, "unreadable file upload")
		return
	}
	defer f.Close()

	result, err := h.svc.ImportCSV(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}
