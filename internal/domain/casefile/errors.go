package casefile

import "errors"

var (
	ErrCaseNotFound  = errors.New("case not found")
	ErrCodeConflict  = errors.New("case code already exists")
	ErrImageNotFound = errors.New("image not found")
)
