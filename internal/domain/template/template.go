package template

import (
	"github.com/medicore/medicore/internal/domain/dictionary"
)

// Category groups templates for display and reporting.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:name;type:varchar(255);not null" json:"name"`
}

func (Category) TableName() string {
	return "data_template_category"
}

// Definition is a named, reusable grouping of dictionary entries representing
// a data-entry form.
type Definition struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TemplateCode string `gorm:"column:template_code;type:varchar(255);uniqueIndex;not null" json:"template_code"`
	TemplateName string `gorm:"column:template_name;type:varchar(255);not null" json:"template_name"`
	Description  string `gorm:"column:template_description;type:text" json:"template_description"`
	CategoryID   uint   `gorm:"column:category_id;not null;index" json:"category_id"`

	Category *Category           `gorm:"foreignKey:CategoryID" json:"-"`
	Entries  []*dictionary.Entry `gorm:"many2many:data_template_dictionary;joinForeignKey:DataTemplateID;joinReferences:DictionaryID" json:"-"`
}

func (Definition) TableName() string {
	return "data_template"
}

// EntryLink is the join row tying a dictionary entry into a template. A pair
// may appear at most once.
type EntryLink struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	DataTemplateID uint `gorm:"column:data_template_id;not null;uniqueIndex:uq_template_entry" json:"data_template_id"`
	DictionaryID   uint `gorm:"column:dictionary_id;not null;uniqueIndex:uq_template_entry" json:"dictionary_id"`
}

func (EntryLink) TableName() string {
	return "data_template_dictionary"
}

type CreateCategoryCommand struct {
	Name string
}

type UpdateCategoryCommand struct {
	Name string
}

type CreateDefinitionCommand struct {
	TemplateName string
	Description  string
	CategoryID   uint
	// EntryIDs is the full set of dictionary entry IDs linked to the template.
	EntryIDs []uint
}

type UpdateDefinitionCommand struct {
	TemplateName *string
	Description  *string
	CategoryID   *uint
	// EntryIDs, when non-nil, replaces the template's entry set.
	EntryIDs *[]uint
}

type ListDefinitionsQuery struct {
	CategoryID *uint
	Page       int
	PageSize   int
}

type PagedDefinitions struct {
	Definitions []*Definition
	TotalCount  int64
	Page        int
	PageSize    int
}

// CategoryWithCount is a list row: a category plus how many templates use it.
type CategoryWithCount struct {
	Category
	TemplateCount int64 `json:"template_count"`
}
