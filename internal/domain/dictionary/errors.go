package dictionary

import "errors"

var (
	ErrEntryNotFound = errors.New("dictionary entry not found")
	ErrCodeConflict  = errors.New("dictionary entry code already exists")
)
