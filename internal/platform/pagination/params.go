package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize applies when the client omits page_size.
	DefaultPageSize = 50
	// MaxPageSize caps page_size.
	MaxPageSize = 100
)

// Params are the paging inputs read from a query string.
type Params struct {
	PageSize  int
	PageToken string
}

// ParseParams reads page_size and page_token. Oversized pages are clamped; malformed sizes are errors.
func ParseParams(values url.Values) (Params, error) {
	params := Params{PageSize: DefaultPageSize, PageToken: strings.TrimSpace(values.Get("page_token"))}
	if raw := strings.TrimSpace(values.Get("page_size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return Params{}, fmt.Errorf("pagination: invalid page_size %q", raw)
		}
		params.PageSize = min(size, MaxPageSize)
	}
	if _, err := DecodeToken(params.PageToken); err != nil {
		return Params{}, err
	}
	return params, nil
}
