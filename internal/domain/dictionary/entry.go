package dictionary

import (
	"gorm.io/datatypes"
)

// InputType describes how a dictionary entry is filled in on a form.
type InputType string

const (
	InputSingle             InputType = "single"
	InputMulti              InputType = "multi"
	InputText               InputType = "text"
	InputDate               InputType = "date"
	InputSingleWithOther    InputType = "single_with_other"
	InputSingleWithDate     InputType = "single_with_date"
	InputMultiWithDate      InputType = "multi_with_date"
	InputMultiWithText      InputType = "multi_with_text"
	InputHierarchicalSelect InputType = "hierarchical_select"
)

func (t InputType) IsValid() bool {
	switch t {
	case InputSingle, InputMulti, InputText, InputDate,
		InputSingleWithOther, InputSingleWithDate,
		InputMultiWithDate, InputMultiWithText, InputHierarchicalSelect:
		return true
	}
	return false
}

// DataTypeNumeric is the sentinel data_type tag that marks an entry as
// chartable on a numeric axis. Values themselves stay opaque; this tag is the
// only numeric-ness signal in the system.
const DataTypeNumeric = "numeric"

// Entry is one controlled-vocabulary item describing a clinical concept.
type Entry struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	WordCode  string `gorm:"column:word_code;type:varchar(255);uniqueIndex;not null" json:"word_code"`
	WordName  string `gorm:"column:word_name;type:varchar(255);index;not null" json:"word_name"`
	WordEng   string `gorm:"column:word_eng;type:varchar(255)" json:"word_eng"`
	WordShort string `gorm:"column:word_short;type:varchar(255)" json:"word_short"`
	WordClass string `gorm:"column:word_class;type:varchar(255);not null" json:"word_class"`
	WordApply string `gorm:"column:word_apply;type:varchar(255);not null" json:"word_apply"`

	// WordBelong is an optional alias linking this entry to a parent concept.
	WordBelong string `gorm:"column:word_belong;type:varchar(255)" json:"word_belong"`

	DataType  string    `gorm:"column:data_type;type:varchar(128)" json:"data_type"`
	InputType InputType `gorm:"column:input_type;type:varchar(32);default:'text'" json:"input_type"`

	Options         string         `gorm:"column:options;type:text" json:"options"`
	FollowupOptions datatypes.JSON `gorm:"column:followup_options" json:"followup_options"`

	HasUnit bool   `gorm:"column:has_unit;default:false" json:"has_unit"`
	Unit    string `gorm:"column:unit;type:varchar(32)" json:"unit"`

	IsScore   bool   `gorm:"column:is_score;default:false" json:"is_score"`
	ScoreFunc string `gorm:"column:score_func;type:text" json:"score_func"`
}

func (Entry) TableName() string {
	return "dictionary"
}

// IsNumeric reports whether the entry is tagged as numeric-typed.
func (e *Entry) IsNumeric() bool {
	return e.DataType == DataTypeNumeric
}

type CreateEntryCommand struct {
	WordName        string
	WordEng         string
	WordShort       string
	WordClass       string
	WordApply       string
	WordBelong      string
	DataType        string
	InputType       InputType
	Options         string
	FollowupOptions datatypes.JSON
	HasUnit         bool
	Unit            string
	IsScore         bool
	ScoreFunc       string
}

type UpdateEntryCommand struct {
	WordName        *string
	WordEng         *string
	WordShort       *string
	WordClass       *string
	WordApply       *string
	WordBelong      *string
	DataType        *string
	InputType       *InputType
	Options         *string
	FollowupOptions datatypes.JSON
	HasUnit         *bool
	Unit            *string
	IsScore         *bool
	ScoreFunc       *string
}

type ListEntriesQuery struct {
	WordClass string
	Search    string
	Page      int
	PageSize  int
}

type PagedEntries struct {
	Entries    []*Entry
	TotalCount int64
	Page       int
	PageSize   int
}

// ImportRow is one parsed CSV row from the bulk-import endpoint.
type ImportRow struct {
	WordName   string
	WordEng    string
	WordShort  string
	WordClass  string
	WordApply  string
	WordBelong string
	DataType   string
}

// ImportResult summarizes a bulk import: rows created plus per-row failures.
type ImportResult struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
}
