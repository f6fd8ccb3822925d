// Package pagination implements opaque cursor paging for list endpoints.
// Cursors encode the last seen row id; snowflake ids are time ordered, so
// an id cursor pages newest-first without an extra sort key.
package pagination

import (
	"encoding/base64"
	"encoding/json"
)

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=50" validate:"gte=1,lte=250"`
}

type Cursor struct {
	ID string `json:"id,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, err
	}

	return &cursor, nil
}

// Trim cuts an over-fetched page (limit+1 rows) back to limit and reports
// whether more rows exist, encoding the next cursor from the last kept row.
func Trim[T any](data []T, limit int, extractID func(T) string) ([]T, *PageInfo) {
	if limit <= 0 || len(data) == 0 {
		return data, &PageInfo{HasMore: false}
	}

	hasMore := false
	if len(data) > limit {
		hasMore = true
		data = data[:limit]
	}
	if !hasMore {
		return data, &PageInfo{HasMore: false}
	}

	token, err := EncodeCursor(Cursor{ID: extractID(data[len(data)-1])})
	if err != nil {
		return data, &PageInfo{HasMore: true}
	}
	return data, &PageInfo{HasMore: true, NextPageToken: token}
}
