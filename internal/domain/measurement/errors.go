package measurement

import "errors"

var (
	ErrNotFound     = errors.New("measurement not found")
	ErrDuplicate    = errors.New("measurement already exists for this case, template, entry and check time")
	ErrBadCheckTime = errors.New("check_time must use the YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format")
)
