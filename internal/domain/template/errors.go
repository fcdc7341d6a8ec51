package template

import "errors"

var (
	ErrCategoryNotFound   = errors.New("template category not found")
	ErrCategoryNameExists = errors.New("template category name already exists")
	ErrTemplateNotFound   = errors.New("data template not found")
	ErrCodeConflict       = errors.New("template code already exists")
	ErrUnknownEntries     = errors.New("unknown dictionary entries")
)
