package patient

import "errors"

var (
	ErrIdentityNotFound  = errors.New("patient identity not found")
	ErrInvalidNationalID = errors.New("national ID must be a valid 18-character identifier")
	ErrBirthDateMismatch = errors.New("birth date does not match the national ID")
	ErrInvalidGender     = errors.New("gender must be 0 (female) or 1 (male)")
)
