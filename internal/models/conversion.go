// Package models defines core data structures for conversions, scanned sources,
// and the request/response bodies exchanged over HTTP.
package models

import "time"

// Conversion is one candidate pulled from a line of text together with its
// English rendering. Words holds the sentinel text when Valid is false.
type Conversion struct {
	ID        string    `json:"id" db:"id"`
	SourceID  string    `json:"source_id,omitempty" db:"source_id"`
	Source    string    `json:"source" db:"source"`
	Line      int       `json:"line" db:"line"`
	Candidate string    `json:"candidate" db:"candidate"`
	Words     string    `json:"words" db:"words"`
	Valid     bool      `json:"valid" db:"valid"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Source records a scanned file so unchanged files can be skipped.
type Source struct {
	ID        string    `json:"id" db:"id"`
	Path      string    `json:"path" db:"path"`
	ModTime   time.Time `json:"mod_time" db:"mod_time"`
	Size      int64     `json:"size" db:"size"`
	Count     int       `json:"count" db:"count"`
	ScannedAt time.Time `json:"scanned_at" db:"scanned_at"`
}

// Unchanged reports whether the file described by modTime and size matches
// what was recorded when s was scanned.
func (s *Source) Unchanged(modTime time.Time, size int64) bool {
	return s != nil && s.Size == size && s.ModTime.Equal(modTime)
}
