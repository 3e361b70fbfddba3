// Package export writes the trip journal to XLSX workbooks, CSV files, or a
// Notion database. File formats take an io.Writer so callers control the
// destination; the Notion path syncs pages keyed on a Trip ID property.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Format selects an export target.
type Format string

const (
	FormatXLSX   Format = "xlsx"
	FormatCSV    Format = "csv"
	FormatNotion Format = "notion"
)

// ParseFormat normalizes a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV, FormatNotion:
		return f, nil
	default:
		return "", eris.Errorf("export: unknown format %q (want xlsx, csv, or notion)", s)
	}
}

// Filename returns the dated journal file name for a file-backed format,
// e.g. wandermage-trips-2026-08-25.xlsx.
func Filename(dir string, f Format, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("wandermage-trips-%s.%s", now.Format("2006-01-02"), f))
}

// fmtDate renders an optional date for journal cells. Nil dates render empty
// so draft trips export cleanly.
func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
