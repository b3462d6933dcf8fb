package query

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	dErrors "backoffice/pkg/domain-errors"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	SortAsc         = "asc"
	SortDesc        = "desc"
)

// MaxPage keeps Page*Size within an int for every accepted size.
const MaxPage = math.MaxInt / MaxPageSize

// PageRequest selects one page of a sorted result set. Page is zero based.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// DefaultPageRequest returns page 0 of 20 sorted by id ascending.
func DefaultPageRequest() PageRequest {
	return PageRequest{Page: 0, Size: DefaultPageSize, SortBy: "id", SortDir: SortAsc}
}

// Offset returns the number of rows skipped before this page. It saturates
// at math.MaxInt instead of wrapping.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// Descending reports whether the sort direction is descending.
func (p PageRequest) Descending() bool {
	return p.SortDir == SortDesc
}

// ParsePageRequest reads page, size, sortBy and sortDir from the query string.
// sortable lists the field names accepted for sortBy in addition to "id".
func ParsePageRequest(values url.Values, sortable []string) (PageRequest, error) {
	req := DefaultPageRequest()

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return req, dErrors.New(dErrors.CodeBadRequest, "page must be a non-negative integer")
		}
		if page > MaxPage {
			return req, dErrors.New(dErrors.CodeBadRequest, "page is out of range")
		}
		req.Page = page
	}
	if raw := strings.TrimSpace(values.Get("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return req, dErrors.New(dErrors.CodeBadRequest, "size must be a positive integer")
		}
		req.Size = min(size, MaxPageSize)
	}
	if raw := strings.TrimSpace(values.Get("sortBy")); raw != "" {
		if raw != "id" && !slices.Contains(sortable, raw) {
			return req, dErrors.New(dErrors.CodeBadRequest, "cannot sort by "+raw)
		}
		req.SortBy = raw
	}
	if raw := strings.ToLower(strings.TrimSpace(values.Get("sortDir"))); raw != "" {
		if raw != SortAsc && raw != SortDesc {
			return req, dErrors.New(dErrors.CodeBadRequest, "sortDir must be asc or desc")
		}
		req.SortDir = raw
	}
	return req, nil
}

// Page is one slice of a paginated result.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPage assembles page metadata around content.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
		First:         req.Page == 0,
		Last:          req.Page >= pages-1,
	}
}

// MapPage converts the content of a page, keeping its metadata.
func MapPage[A, B any](p Page[A], fn func(A) B) Page[B] {
	out := make([]B, len(p.Content))
	for i, v := range p.Content {
		out[i] = fn(v)
	}
	return Page[B]{
		Content:       out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
	}
}

// Window returns the bounds of req within a slice of n elements, both
// clamped to [0, n].
func Window(n int, req PageRequest) (start, end int) {
	start = min(req.Offset(), n)
	end = start + min(max(req.Size, 0), n-start)
	return start, end
}
