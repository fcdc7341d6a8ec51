// Package casefile models one clinical episode ("case") for a patient
// identity, including the demographic snapshot copied from the identity at
// write time and the case's archive memberships.
package casefile

import (
	"time"

	"github.com/medicore/medicore/internal/domain/patient"
)

// FieldUnfilled is the upstream placeholder for transplant fields that were
// never entered.
const FieldUnfilled = "未填写"

type Case struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CaseCode string `gorm:"column:case_code;type:varchar(255);uniqueIndex;not null" json:"case_code"`

	IdentityID string            `gorm:"column:identity_id;type:varchar(255);not null;index:idx_identity_id_on_case" json:"identity"`
	Identity   *patient.Identity `gorm:"foreignKey:IdentityID;references:IdentityID" json:"-"`

	OPDID        string `gorm:"column:opd_id;type:varchar(255)" json:"opd_id"`
	InhospitalID string `gorm:"column:inhospital_id;type:varchar(255)" json:"inhospital_id"`

	// Demographic snapshot, copied from the identity at write time.
	Name      string         `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Gender    patient.Gender `gorm:"column:gender;not null" json:"gender"`
	BirthDate time.Time      `gorm:"column:birth_date;type:date;not null" json:"birth_date"`

	PhoneNumber string `gorm:"column:phone_number;type:varchar(36)" json:"phone_number"`
	HomeAddress string `gorm:"column:home_address;type:varchar(512)" json:"home_address"`

	BloodType     string `gorm:"column:blood_type;type:varchar(10)" json:"blood_type"`
	MainDiagnosis string `gorm:"column:main_diagnosis;type:varchar(1024)" json:"main_diagnosis"`

	HasTransplantSurgery string `gorm:"column:has_transplant_surgery;type:varchar(255);default:'未填写'" json:"has_transplant_surgery"`
	IsInTransplantQueue  string `gorm:"column:is_in_transplant_queue;type:varchar(16);default:'未填写'" json:"is_in_transplant_queue"`
}

func (Case) TableName() string {
	return "case"
}

func (c *Case) Age() int {
	return patient.AgeAt(c.BirthDate, time.Now())
}

// Image is a file reference attached to a case under a template.
type Image struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	CaseID         uint   `gorm:"column:case_id;not null;index" json:"case_id"`
	DataTemplateID uint   `gorm:"column:data_template_id;not null;index" json:"data_template_id"`
	URL            string `gorm:"column:url;type:varchar(255);not null" json:"url"`
	Remark         string `gorm:"column:remark;type:varchar(255)" json:"remark"`
}

func (Image) TableName() string {
	return "images"
}

type CreateCaseCommand struct {
	NationalID   string
	OPDID        string
	InhospitalID string

	Name      string
	Gender    patient.Gender
	BirthDate *time.Time

	PhoneNumber string
	HomeAddress string

	BloodType            string
	MainDiagnosis        string
	HasTransplantSurgery string
	IsInTransplantQueue  string

	// ArchiveCodes and ArchiveIDs together name the case's full archive
	// membership; their union replaces the current set.
	ArchiveCodes []string
	ArchiveIDs   []uint
}

type UpdateCaseCommand struct {
	NationalID *string

	OPDID        *string
	InhospitalID *string

	Name      *string
	Gender    *patient.Gender
	BirthDate *time.Time

	PhoneNumber *string
	HomeAddress *string

	BloodType            *string
	MainDiagnosis        *string
	HasTransplantSurgery *string
	IsInTransplantQueue  *string

	// Nil slices leave archive membership untouched; non-nil replaces it.
	ArchiveCodes *[]string
	ArchiveIDs   *[]uint
}

type ListCasesQuery struct {
	// Search matches archive code, national ID, OPD number, inhospital number
	// or patient name.
	Search     string
	NationalID string
	Page       int
	PageSize   int
}

type PagedCases struct {
	Cases      []*Case
	TotalCount int64
	Page       int
	PageSize   int
}
