package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page size bounds for list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor marks a first-page request. DecodeCursor returns it for "".
	ErrNoCursor = errors.New("no cursor provided")

	ErrCursorMismatch = errors.New("cursor belongs to a different filter")
)

// PaginationRequest is the cursor and page size of a list request.
type PaginationRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit clamps Limit to [1, MaxLimit], with DefaultLimit for unset.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// Offset is where the page starts. Cursors only resume the filter that
// issued them.
func (p *PaginationRequest) Offset(filter string) (int, error) {
	cursor, err := DecodeCursor(p.Cursor)

	switch {
	case errors.Is(err, ErrNoCursor):
		return 0, nil
	case err != nil:
		return 0, err
	case cursor.Filter != filter:
		return 0, ErrCursorMismatch
	}

	return cursor.Offset, nil
}

// PaginatedResponse is one page of a list. NextCursor is set while HasMore.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	Total      int    `json:"total"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// Paginate slices out limit items from offset. Quotes have no identity, so
// cursors are positions: a collection edited between pages can shift items.
func Paginate[T any](items []T, offset, limit int, filter string) *PaginatedResponse[T] {
	from := min(max(offset, 0), len(items))
	to := min(from+limit, len(items))

	resp := &PaginatedResponse[T]{
		Items:   append(make([]T, 0, to-from), items[from:to]...),
		Total:   len(items),
		HasMore: to < len(items),
	}

	if resp.HasMore {
		resp.NextCursor = EncodeCursor(&CursorData{Offset: to, Filter: filter})
	}

	return resp
}

// CursorData is the content of an opaque cursor.
type CursorData struct {
	Offset int    `json:"o"`
	Filter string `json:"f"`
}

// EncodeCursor returns data as URL-safe base64 JSON, or "" for nil.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData
	if err := json.Unmarshal(raw, &data); err != nil || data.Offset < 0 {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}
