// Package listutil parses list-endpoint query strings into page windows and filters.
package listutil

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// MaxPage is the highest page number served; larger values are clamped so
// Offset cannot overflow.
const MaxPage = 100000

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// ListParams combines the page window with recognised exact-match filters.
type ListParams struct {
	PageParams
	Filters map[string]string
}

// PageInfo describes the page actually returned.
type PageInfo struct {
	Page    int  `json:"page"`
	PerPage int  `json:"perPage"`
	HasMore bool `json:"hasMore"`
}

// ParsePageParams extracts page and per_page from URL query values.
// PRE: none
// POST: returns valid PageParams with defaults applied; 1 <= Page <= MaxPage
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	page = min(page, MaxPage)
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseListParams parses the page window and the filters named in filterKeys.
// PRE: filterKeys lists the allowed filter parameter names
// POST: Filters holds only recognised, non-empty keys
func ParseListParams(q url.Values, filterKeys []string) ListParams {
	lp := ListParams{
		PageParams: ParsePageParams(q),
		Filters:    make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := q.Get(key); v != "" {
			lp.Filters[key] = v
		}
	}
	return lp
}

// Offset returns the SQL OFFSET for the current page.
// POST: Returns (Page-1) * PerPage
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Probe is the LIMIT to request: one row more than a page, so a full page
// can tell whether another follows without a COUNT query.
func (p PageParams) Probe() int {
	return p.PerPage + 1
}

// Trim cuts rows fetched with Probe down to one page and reports the window.
// POST: len(result) <= PerPage; HasMore is true iff rows had an extra row
func Trim[T any](p PageParams, rows []T) ([]T, PageInfo) {
	info := PageInfo{Page: p.Page, PerPage: p.PerPage}
	if len(rows) > p.PerPage {
		rows = rows[:p.PerPage]
		info.HasMore = true
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, info
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
