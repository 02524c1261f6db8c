package pagination

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"time"
)

// =============================================================================
// Page-Based Pagination (Offset Pagination)
// =============================================================================

// Pagination represents pagination parameters
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams represents input parameters for pagination
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns default pagination values
func DefaultPagination() *PaginationParams {
	return &PaginationParams{
		Page:    1,
		PerPage: 15,
	}
}

// Validate ensures pagination parameters are within valid ranges
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 15
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

// Offset calculates the offset for SQL queries
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NewPagination creates a new Pagination response
func NewPagination(page, perPage int, total int64) *Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult wraps a list of items with pagination metadata
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult creates a new paginated result
func NewPaginatedResult[T any](items []T, pagination *Pagination) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}

// =============================================================================
// Cursor-Based Pagination
// =============================================================================

// CursorDirection indicates which way to page
type CursorDirection string

const (
	CursorNext CursorDirection = "next"
	CursorPrev CursorDirection = "prev"
)

// CursorParams represents input parameters for cursor pagination
type CursorParams struct {
	Cursor    string          `form:"cursor" json:"cursor"`
	Direction CursorDirection `form:"direction" json:"direction"`
	Limit     int             `form:"limit" json:"limit"`
}

// Validate ensures cursor parameters are within valid ranges
func (p *CursorParams) Validate() {
	if p.Limit < 1 {
		p.Limit = 15
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Direction != CursorPrev {
		p.Direction = CursorNext
	}
}

// Cursor is the decoded representation of an opaque cursor token
type Cursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// EncodeCursor encodes a cursor into an opaque base64 token
func EncodeCursor(id string, createdAt time.Time) string {
	b, err := json.Marshal(Cursor{ID: id, CreatedAt: createdAt})
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(b)
}

// DecodeCursor decodes an opaque token back into a cursor
func DecodeCursor(token string) (*Cursor, error) {
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// CursorPagination holds cursor pagination metadata
type CursorPagination struct {
	NextCursor string `json:"next_cursor,omitempty"`
	PrevCursor string `json:"prev_cursor,omitempty"`
	HasNext    bool   `json:"has_next"`
	HasPrev    bool   `json:"has_prev"`
	Limit      int    `json:"limit"`
}

// NewCursorPagination builds cursor metadata from a result set.
// The repository is expected to fetch limit+1 rows; the extra row indicates
// another page exists and is trimmed here.
func NewCursorPagination[T any](items []T, limit int, idFn func(T) string, timeFn func(T) time.Time) (*CursorPagination, []T) {
	pag := &CursorPagination{Limit: limit}

	if len(items) > limit {
		pag.HasNext = true
		items = items[:limit]
	}

	if len(items) > 0 {
		first := items[0]
		last := items[len(items)-1]
		pag.PrevCursor = EncodeCursor(idFn(first), timeFn(first))
		pag.NextCursor = EncodeCursor(idFn(last), timeFn(last))
	}

	return pag, items
}

// CursorPaginatedResult wraps items with cursor pagination metadata
type CursorPaginatedResult[T any] struct {
	Items      []T               `json:"items"`
	Pagination *CursorPagination `json:"pagination"`
}

// NewCursorPaginatedResult creates a new cursor-paginated result
func NewCursorPaginatedResult[T any](items []T, pagination *CursorPagination) *CursorPaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &CursorPaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}
