// Package archive models named groupings of cases ("disease registries")
// used to scope reporting.
package archive

type Archive struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ArchiveCode string `gorm:"column:archive_code;type:varchar(255);uniqueIndex;not null" json:"archive_code"`
	Name        string `gorm:"column:archive_name;type:varchar(255);not null" json:"archive_name"`
	Description string `gorm:"column:archive_description;type:text" json:"archive_description"`
}

func (Archive) TableName() string {
	return "archive"
}

// CaseLink is the join row between an archive and a case; a pair may appear
// at most once.
type CaseLink struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ArchiveID uint `gorm:"column:archive_id;not null;uniqueIndex:uq_archive_case" json:"archive_id"`
	CaseID    uint `gorm:"column:case_id;not null;uniqueIndex:uq_archive_case" json:"case_id"`
}

func (CaseLink) TableName() string {
	return "archive_case"
}

type CreateArchiveCommand struct {
	Name        string
	Description string
}

type UpdateArchiveCommand struct {
	Name        *string
	Description *string
}

// WithCount is a list row: an archive plus its case count.
type WithCount struct {
	Archive
	CaseCount int64 `json:"case_count"`
}

type PagedArchives struct {
	Archives   []*WithCount
	TotalCount int64
	Page       int
	PageSize   int
}
