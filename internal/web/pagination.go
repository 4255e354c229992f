package web

import (
	"errors"
	"net/http"
	"strconv"
)

// ItemsPerPage is the fixed page size used for skip and total-page math.
const ItemsPerPage = 10

// ErrBadPagination reports out-of-range page or limit query parameters.
var ErrBadPagination = errors.New("invalid query parameters")

// Pagination parses the page and limit query parameters. Absent or
// unparsable values fall back to page 1 and the fixed page size. The skip
// offset always advances by the fixed page size, not the requested limit.
func Pagination(r *http.Request) (page, limit, skip int64, err error) {
	page = queryInt(r, "page", 1)
	limit = queryInt(r, "limit", ItemsPerPage)
	if page < 1 || limit < 1 {
		return 0, 0, 0, ErrBadPagination
	}
	return page, limit, (page - 1) * ItemsPerPage, nil
}

// TotalPages reports the page count for a total, computed from the fixed
// page size.
func TotalPages(total int64) int64 {
	return (total + ItemsPerPage - 1) / ItemsPerPage
}

func queryInt(r *http.Request, key string, fallback int64) int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
