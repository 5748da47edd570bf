// internal/app/system/csvutil/export.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Export streams a CSV attachment to an http.ResponseWriter.
type Export struct {
	cw   *csv.Writer
	rows int
}

// Filename returns "<prefix>_<yyyymmdd>.csv" for now.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format("20060102"))
}

// NewExport sets the attachment headers, writes the UTF-8 BOM Excel needs,
// and writes header as the first record.
func NewExport(w http.ResponseWriter, filename string, header []string) (*Export, error) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return nil, fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &Export{cw: cw}, nil
}

// Write appends one record. Every field is passed through SanitizeField.
func (e *Export) Write(record []string) error {
	out := make([]string, len(record))
	for i, f := range record {
		out[i] = SanitizeField(f)
	}
	if err := e.cw.Write(out); err != nil {
		return fmt.Errorf("write row %d: %w", e.rows+1, err)
	}
	e.rows++
	return nil
}

// Rows is the number of records written, excluding the header.
func (e *Export) Rows() int { return e.rows }

// Full reports whether MaxRows has been reached.
func (e *Export) Full() bool { return e.rows >= MaxRows }

// Flush writes any buffered data.
func (e *Export) Flush() error {
	e.cw.Flush()
	return e.cw.Error()
}

// SanitizeField neutralises values a spreadsheet would evaluate as a formula.
func SanitizeField(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}
