package service

const (
	defaultPageSize = 10
	maxPageSize     = 1000
)

// normalizePage clamps pagination inputs in place: page starts at 1, page
// size defaults to 10 and is capped at 1000.
func normalizePage(page, pageSize *int) {
	if *page < 1 {
		*page = 1
	}
	if *pageSize < 1 {
		*pageSize = defaultPageSize
	}
	if *pageSize > maxPageSize {
		*pageSize = maxPageSize
	}
}
