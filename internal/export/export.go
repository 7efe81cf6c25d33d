// Package export renders report tables as CSV, PDF or XLSX documents.
//
// Every format renders the same Table. Callers run Prepare before writing
// any response headers: it is the only step that can reject a table, so a
// rejected export can still be answered with a proper status code.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoData is returned when a CSV export has no rows.
	ErrNoData = errors.New("no data to export")

	// ErrUnsupportedFormat is returned for an unknown format selector.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrRaggedTable is returned when a row's width differs from the header's.
	ErrRaggedTable = errors.New("row width does not match header")
)

// Placeholder is rendered by the PDF and XLSX formats for an empty table.
const Placeholder = "No data available"

// Format is an output document type.
type Format string

const (
	CSV  Format = "csv"
	PDF  Format = "pdf"
	XLSX Format = "xlsx"
)

// ParseFormat resolves a format selector. Empty means CSV; "excel" is an
// alias for XLSX.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return CSV, nil
	case "pdf":
		return PDF, nil
	case "xlsx", "excel":
		return XLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case PDF:
		return "application/pdf"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// Extension returns the file extension of the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Filename returns the attachment name "<name>-<unix ms>.<ext>".
func Filename(name string, f Format, at time.Time) string {
	return fmt.Sprintf("%s-%d.%s", name, at.UnixMilli(), f.Extension())
}

// Table is a header row and the data rows beneath it.
type Table struct {
	Headers []string
	Rows    [][]any
}

// Validate checks that every row is exactly as wide as the header.
func (t Table) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("%w: row %d has %d values, header has %d", ErrRaggedTable, i, len(row), len(t.Headers))
		}
	}
	return nil
}

// Options control document decoration.
type Options struct {
	Title       string
	GeneratedAt time.Time
	CompressPDF bool
}

// Prepare reports whether t can be rendered as f.
func Prepare(t Table, f Format) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if f == CSV && len(t.Rows) == 0 {
		return ErrNoData
	}
	return nil
}

// Render writes t to w in format f.
func Render(w io.Writer, t Table, f Format, opts Options) error {
	if err := Prepare(t, f); err != nil {
		return err
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	switch f {
	case CSV:
		return writeCSV(w, t)
	case PDF:
		return writePDF(w, t, opts)
	case XLSX:
		return writeXLSX(w, t, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// FormatCell renders a table value as text. Whole numbers print without
// decimals, fractional ones with two.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case decimal.Decimal:
		if val.IsInteger() {
			return val.String()
		}
		return val.StringFixed(2)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', 2, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02")
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
