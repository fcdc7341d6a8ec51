package archive

import "errors"

var (
	ErrArchiveNotFound = errors.New("archive not found")
	ErrCodeConflict    = errors.New("archive code already exists")
)
