package patient

import (
	"fmt"
	"time"
)

// Gender follows the upstream hospital convention: 0 female, 1 male.
type Gender int

const (
	GenderFemale Gender = 0
	GenderMale   Gender = 1
)

func (g Gender) IsValid() bool {
	return g == GenderFemale || g == GenderMale
}

// NationalIDLength is the mandated length of a resident national ID.
const NationalIDLength = 18

// Identity is the canonical patient record, keyed by national ID and
// deduplicated across cases. It is never authored directly: case writes
// create it on first reference and overwrite its demographics afterwards.
type Identity struct {
	IdentityID string    `gorm:"column:identity_id;type:varchar(255);primaryKey" json:"identity_id"`
	Name       string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Gender     Gender    `gorm:"column:gender;not null" json:"gender"`
	BirthDate  time.Time `gorm:"column:birth_date;type:date;not null" json:"birth_date"`
}

func (Identity) TableName() string {
	return "identity"
}

// Age computes full years elapsed since the birth date.
func (i *Identity) Age() int {
	return AgeAt(i.BirthDate, time.Now())
}

func AgeAt(born, now time.Time) int {
	years := now.Year() - born.Year()
	if now.Month() < born.Month() ||
		(now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	return years
}

// BirthDateFromNationalID extracts the YYYYMMDD slice (digits 7-14) of an
// 18-character national ID as a date.
func BirthDateFromNationalID(nationalID string) (time.Time, error) {
	if len(nationalID) != NationalIDLength {
		return time.Time{}, fmt.Errorf("%w: got %d characters", ErrInvalidNationalID, len(nationalID))
	}
	birth, err := time.Parse("20060102", nationalID[6:14])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: birth date segment %q", ErrInvalidNationalID, nationalID[6:14])
	}
	return birth, nil
}

type UpdateIdentityCommand struct {
	Name      *string
	Gender    *Gender
	BirthDate *time.Time
}

type ListIdentitiesQuery struct {
	// Search matches national ID or name, case-insensitive substring.
	Search   string
	Page     int
	PageSize int
}

type PagedIdentities struct {
	Identities []*Identity
	TotalCount int64
	Page       int
	PageSize   int
}
