// Package pagination turns ordered result sets into page descriptors
// with absolute navigation links.
package pagination

import (
	"net/http"
	"strconv"

	"github.com/malwarebo/taskhub/utils"
)

const (
	pageParam = "page"
	sizeParam = "page-size"
)

// ErrPageNotFound reports a requested page past the end of a non-empty
// result set. Out-of-range pages are a client error, not an empty
// success.
var ErrPageNotFound = utils.ErrPageNotFound

type Config struct {
	DefaultSize int
	MaxSize     int
}

// PageRequest is a validated page number and size extracted from a
// request.
type PageRequest struct {
	Number int
	Size   int
}

func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParseRequest reads the page and page-size query parameters. Absent
// or invalid values fall back to page 1 and the configured default
// size; an oversized page-size is clamped to the configured maximum.
func ParseRequest(r *http.Request, cfg Config) PageRequest {
	query := r.URL.Query()

	number := 1
	if raw := query.Get(pageParam); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			number = n
		}
	}

	size := cfg.DefaultSize
	if raw := query.Get(sizeParam); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			size = n
		}
	}
	if cfg.MaxSize > 0 && size > cfg.MaxSize {
		size = cfg.MaxSize
	}

	return PageRequest{Number: number, Size: size}
}

// Validate rejects page numbers past the last page of a non-empty set.
func (p PageRequest) Validate(totalItems int64) error {
	if totalItems > 0 && p.Number > TotalPages(totalItems, p.Size) {
		return ErrPageNotFound
	}
	return nil
}

// TotalPages is ceil(totalItems / size); 0 for an empty set.
func TotalPages(totalItems int64, size int) int {
	if totalItems == 0 || size <= 0 {
		return 0
	}
	return int((totalItems + int64(size) - 1) / int64(size))
}

// Descriptor is the page object nested inside paginated response data.
type Descriptor struct {
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Size       int     `json:"size"`
	TotalItems int64   `json:"total_items"`
	Next       *string `json:"next"`
	Previous   *string `json:"previous"`
}

// Result is a page descriptor plus the serialized items of that page.
type Result struct {
	Page    Descriptor  `json:"page"`
	Results interface{} `json:"results"`
}

// BuildResult assembles the paginated payload. Next and previous links
// reuse the request's absolute URL with only the page parameter
// substituted.
func BuildResult(r *http.Request, p PageRequest, totalItems int64, results interface{}) Result {
	totalPages := TotalPages(totalItems, p.Size)

	descriptor := Descriptor{
		Current:    p.Number,
		Total:      totalPages,
		Size:       p.Size,
		TotalItems: totalItems,
	}

	if p.Number < totalPages {
		link := pageLink(r, p.Number+1)
		descriptor.Next = &link
	}
	if p.Number > 1 {
		link := pageLink(r, p.Number-1)
		descriptor.Previous = &link
	}

	return Result{Page: descriptor, Results: results}
}

func pageLink(r *http.Request, page int) string {
	u := *r.URL

	query := u.Query()
	query.Set(pageParam, strconv.Itoa(page))
	u.RawQuery = query.Encode()

	if u.Host == "" {
		u.Host = r.Host
	}
	if u.Scheme == "" {
		u.Scheme = "http"
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			u.Scheme = proto
		} else if r.TLS != nil {
			u.Scheme = "https"
		}
	}

	return u.String()
}
