package measurement

import (
	"time"

	"gorm.io/datatypes"
)

// Point is one (check_time, value) pair on a visualization series.
type Point struct {
	CheckTime time.Time      `json:"check_time"`
	Value     datatypes.JSON `json:"value"`
}

// Series is the chartable data for one dictionary entry.
type Series struct {
	WordCode string   `json:"word_code"`
	WordName string   `json:"word_name"`
	Points   []*Point `json:"data_points"`
}

// AxisEntry is a Y-axis candidate: a numeric entry with data for a case.
type AxisEntry struct {
	WordCode     string `json:"word_code"`
	WordName     string `json:"word_name"`
	TemplateCode string `json:"template_code"`
	TemplateName string `json:"template_name"`
}

// SummaryEntry is one distinct (template, check_time) pair within a category
// group of the template-summary report.
type SummaryEntry struct {
	TemplateCode string    `json:"template_code"`
	TemplateName string    `json:"template_name"`
	CheckTime    time.Time `json:"check_time"`
}

// SummaryGroup collects a category's distinct template/timestamp pairs.
type SummaryGroup struct {
	Category string          `json:"category"`
	Entries  []*SummaryEntry `json:"entries"`
}
