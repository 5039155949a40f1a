package models

import (
	"encoding/json"
	"fmt"
)

// Pagination defaults for listing stored conversions.
const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

// ConvertRequest asks for a single value to be rendered. Value may be a JSON
// number or a string holding an integer literal.
type ConvertRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}

// ConvertResponse is the result of converting one value.
type ConvertResponse struct {
	Input string `json:"input"`
	Words string `json:"words"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ExtractRequest carries free text to search for candidates.
type ExtractRequest struct {
	Text string `json:"text" validate:"max=1048576"`
}

// ExtractResponse lists candidates in the order they appear.
type ExtractResponse struct {
	Candidates []string `json:"candidates"`
}

// WordifyRequest carries free text to extract and convert. Source labels the
// stored records; it defaults to "api".
type WordifyRequest struct {
	Text   string `json:"text" validate:"max=1048576"`
	Source string `json:"source,omitempty" validate:"max=512"`
}

// WordifyResponse holds one conversion per candidate found.
type WordifyResponse struct {
	Conversions []*Conversion `json:"conversions"`
}

// ListQuery pages through stored conversions.
type ListQuery struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

// Validate rejects negative offsets and clamps the limit into [1, MaxLimit].
func (q *ListQuery) Validate() error {
	if q.Offset < 0 {
		return fmt.Errorf("offset cannot be negative")
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return nil
}

// ListResponse is a page of stored conversions.
type ListResponse struct {
	Conversions []*Conversion `json:"conversions"`
	Total       int           `json:"total"`
	Offset      int           `json:"offset"`
	Limit       int           `json:"limit"`
}

// Status summarizes stored history; printed by the status command and served by the API.
type Status struct {
	Conversions int64    `json:"conversions"`
	Sources     int64    `json:"sources"`
	DiskBytes   int64    `json:"disk_bytes"`
	Database    string   `json:"database"`
	Watching    []string `json:"watching,omitempty"`
}
