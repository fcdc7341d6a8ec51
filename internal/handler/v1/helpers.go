// Package v1 implements the HTTP surface. Every response uses the
// {code, msg, data} envelope with HTTP semantics mirrored in the body code,
// and list endpoints wrap their payload as {list, total, page, page_size}.
package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medicore/medicore/internal/domain"
	"github.com/medicore/medicore/internal/domain/archive"
	"github.com/medicore/medicore/internal/domain/casefile"
	"github.com/medicore/medicore/internal/domain/codes"
	"github.com/medicore/medicore/internal/domain/dictionary"
	"github.com/medicore/medicore/internal/domain/measurement"
	"github.com/medicore/medicore/internal/domain/patient"
	"github.com/medicore/medicore/internal/domain/template"
	"github.com/medicore/medicore/internal/service"
)

type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// pagedList is the wire shape of every paginated payload.
type pagedList struct {
	List     any   `json:"list"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Code: http.StatusOK, Msg: "success", Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{Code: http.StatusCreated, Msg: "success", Data: data})
}

func respondPaged(c *gin.Context, list any, total int64, page, pageSize int) {
	respondOK(c, pagedList{List: list, Total: total, Page: page, PageSize: pageSize})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, envelope{Code: status, Msg: msg})
}

// respondServiceError maps domain sentinels onto the error taxonomy:
// validation and malformed identifiers are 400, missing resources 404,
// uniqueness collisions 409. Code-generation exhaustion is a 500 that keeps
// its message; everything unexpected is a bare 500.
func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		respondError(c, http.StatusBadRequest, strings.Join(validErr.Fields, "; "))
		return
	}

	switch {
	case errors.Is(err, dictionary.ErrEntryNotFound),
		errors.Is(err, template.ErrCategoryNotFound),
		errors.Is(err, template.ErrTemplateNotFound),
		errors.Is(err, patient.ErrIdentityNotFound),
		errors.Is(err, casefile.ErrCaseNotFound),
		errors.Is(err, casefile.ErrImageNotFound),
		errors.Is(err, archive.ErrArchiveNotFound),
		errors.Is(err, measurement.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, dictionary.ErrCodeConflict),
		errors.Is(err, template.ErrCodeConflict),
		errors.Is(err, template.ErrCategoryNameExists),
		errors.Is(err, casefile.ErrCodeConflict),
		errors.Is(err, archive.ErrCodeConflict),
		errors.Is(err, measurement.ErrDuplicate),
		errors.Is(err, domain.ErrUsernameTaken):
		respondError(c, http.StatusConflict, err.Error())

	case errors.Is(err, codes.ErrUnknownWordClass),
		errors.Is(err, template.ErrUnknownEntries),
		errors.Is(err, patient.ErrInvalidNationalID),
		errors.Is(err, patient.ErrBirthDateMismatch),
		errors.Is(err, patient.ErrInvalidGender),
		errors.Is(err, measurement.ErrBadCheckTime):
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid credentials")

	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrAccountInactive):
		respondError(c, http.StatusForbidden, "access denied")

	case errors.Is(err, codes.ErrExhausted):
		respondError(c, http.StatusInternalServerError, err.Error())

	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

func parseUintParam(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+param+": must be a positive integer")
		return 0, false
	}
	return uint(v), true
}

// pageParams reads page and page_size query values with the shared defaults.
func pageParams(c *gin.Context) (page, pageSize int) {
	return parseQueryInt(c, "page", 1), parseQueryInt(c, "page_size", 10)
}
