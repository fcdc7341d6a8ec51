// Package measurement models the append-mostly fact table of clinical data
// points: one row per (case, template, dictionary entry, check time).
package measurement

import (
	"time"

	"gorm.io/datatypes"
)

// Measurement is one recorded value. The value is opaque JSON text; the
// system never parses it, and numeric-ness is a dictionary-entry tag, not a
// property of the stored bytes.
type Measurement struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CaseID         uint           `gorm:"column:case_id;not null;uniqueIndex:uq_data_point" json:"case_id"`
	DataTemplateID uint           `gorm:"column:data_template_id;not null;uniqueIndex:uq_data_point" json:"data_template_id"`
	DictionaryID   uint           `gorm:"column:dictionary_id;not null;uniqueIndex:uq_data_point" json:"dictionary_id"`
	Value          datatypes.JSON `gorm:"column:value;not null" json:"value"`
	CheckTime      time.Time      `gorm:"column:check_time;not null;uniqueIndex:uq_data_point" json:"check_time"`
}

func (Measurement) TableName() string {
	return "data_table"
}

// Key is the natural key of a measurement at the API boundary.
type Key struct {
	CaseCode     string
	TemplateCode string
	WordCode     string
	CheckTime    time.Time
}

// ParseCheckTime accepts the two wire formats: date-only and date-time.
func ParseCheckTime(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, ErrBadCheckTime
}

// FormatCheckTime renders the canonical wire form.
func FormatCheckTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

type CreateCommand struct {
	CaseCode     string
	TemplateCode string
	WordCode     string
	Value        datatypes.JSON
	CheckTime    time.Time
}

// BatchItem is one row of a bulk write under a shared case and template.
type BatchItem struct {
	WordCode  string
	Value     datatypes.JSON
	CheckTime time.Time
}

type BatchCreateCommand struct {
	CaseCode     string
	TemplateCode string
	Items        []BatchItem
	// Upsert switches the batch from insert (conflict on duplicates) to
	// overwrite-on-conflict.
	Upsert bool
}

type ListQuery struct {
	CaseCode string
	Page     int
	PageSize int
}

// Detail is a measurement joined with the business names callers display.
type Detail struct {
	ID               uint           `json:"id"`
	CaseCode         string         `json:"case_code"`
	TemplateCategory string         `json:"template_category"`
	TemplateName     string         `json:"template_name"`
	TemplateCode     string         `json:"template_code"`
	WordCode         string         `json:"word_code"`
	WordName         string         `json:"word_name"`
	Value            datatypes.JSON `json:"value"`
	CheckTime        time.Time      `json:"check_time"`
}

type PagedDetails struct {
	Details    []*Detail
	TotalCount int64
	Page       int
	PageSize   int
}
