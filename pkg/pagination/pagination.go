// Package pagination implements the page/page-size scheme used by the
// catalog listing endpoints. Pages are 1-based.
package pagination

import "strconv"

// Params holds the normalized paging inputs for a list query.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps raw paging inputs to sane values. Zero or negative pages
// become page 1; zero or negative sizes fall back to defaultSize, and sizes
// above maxSize are clamped down.
func Normalize(page, pageSize, defaultSize, maxSize int) Params {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if maxSize > 0 && pageSize > maxSize {
		pageSize = maxSize
	}
	return Params{Page: page, PageSize: pageSize}
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Key returns the cache key fragment for this page.
func (p Params) Key() string {
	return strconv.Itoa(p.Page) + ":" + strconv.Itoa(p.PageSize)
}

// HasMore reports whether rows exist beyond the current page given a known
// total count.
func HasMore(p Params, totalCount int64) bool {
	return int64(p.Page*p.PageSize) < totalCount
}

// HasMoreHeuristic is the fallback used when the total count is unknown: a
// full page suggests more rows may follow.
func HasMoreHeuristic(p Params, fetched int) bool {
	return fetched >= p.PageSize
}

