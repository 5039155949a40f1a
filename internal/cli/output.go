// Package cli formats conversions, candidates and history for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hyperjump/wordify/internal/models"
	"github.com/hyperjump/wordify/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default): one line per record.
	OutputText OutputFormat = "text"
	// OutputJSON is JSON Lines: one object per record, for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseFormat maps a flag or config value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// ConversionWriter streams conversions to an io.Writer as they are produced.
type ConversionWriter struct {
	w      io.Writer
	format OutputFormat
	enc    *json.Encoder
}

// NewConversionWriter returns a writer for format.
func NewConversionWriter(w io.Writer, format OutputFormat) *ConversionWriter {
	cw := &ConversionWriter{w: w, format: format}
	if format == OutputJSON {
		cw.enc = json.NewEncoder(w)
	}
	return cw
}

// Write prints c: its words in text mode (the sentinel for invalid
// candidates), the full record in JSON mode.
func (cw *ConversionWriter) Write(c *models.Conversion) error {
	if cw.enc != nil {
		return cw.enc.Encode(c)
	}
	_, err := fmt.Fprintln(cw.w, c.Words)
	return err
}

// WriteConversions writes every conversion to w in format.
func WriteConversions(w io.Writer, convs []*models.Conversion, format OutputFormat) error {
	cw := NewConversionWriter(w, format)
	for _, c := range convs {
		if err := cw.Write(c); err != nil {
			return err
		}
	}
	return nil
}

// WriteCandidates writes extracted candidates one per line, or as a JSON
// object with the source and candidate.
func WriteCandidates(w io.Writer, source string, candidates []string, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		for _, c := range candidates {
			if err := enc.Encode(struct {
				Source    string `json:"source"`
				Candidate string `json:"candidate"`
			}{source, c}); err != nil {
				return err
			}
		}
		return nil
	}
	for _, c := range candidates {
		if _, err := fmt.Fprintln(w, c); err != nil {
			return err
		}
	}
	return nil
}

// WriteHistory writes stored conversions as an aligned table, or JSON Lines.
func WriteHistory(w io.Writer, convs []*models.Conversion, format OutputFormat) error {
	if format == OutputJSON {
		return WriteConversions(w, convs, format)
	}
	if len(convs) == 0 {
		_, err := fmt.Fprintln(w, "No conversions recorded.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSOURCE\tLINE\tCANDIDATE\tWORDS")
	for _, c := range convs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			c.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			utils.Truncate(c.Source, 40),
			c.Line,
			utils.Truncate(c.Candidate, 24),
			utils.Truncate(c.Words, 80))
	}
	return tw.Flush()
}

// WriteStatus writes s as text or JSON.
func WriteStatus(w io.Writer, s *models.Status, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	fmt.Fprintf(w, "Database:    %s\n", s.Database)
	fmt.Fprintf(w, "Disk usage:  %s\n", FormatBytes(s.DiskBytes))
	fmt.Fprintf(w, "Conversions: %d\n", s.Conversions)
	fmt.Fprintf(w, "Sources:     %d\n", s.Sources)
	if len(s.Watching) > 0 {
		fmt.Fprintln(w, "Watching:")
		for _, d := range s.Watching {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
	return nil
}

// FormatBytes renders n with a binary unit suffix, e.g. "1.5 KiB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
