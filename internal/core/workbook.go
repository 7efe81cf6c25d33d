package core

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// ErrUnreadableWorkbook is returned when an upload is not a spreadsheet container.
var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// ErrTooManyRows is returned when a workbook exceeds the configured row cap.
var ErrTooManyRows = errors.New("too many rows")

// RawRow is one data line of a worksheet keyed by header label.
// Values are float64 for numeric cells and string otherwise; empty cells are absent.
type RawRow struct {
	Index   int // 0-based, header excluded
	Headers []string
	Values  map[string]any
}

// Get returns the value stored under an exact header label.
func (r RawRow) Get(label string) (any, bool) {
	v, ok := r.Values[label]
	return v, ok
}

// Lookup returns the value of the first alias carrying a non-empty value,
// along with the alias that matched.
func (r RawRow) Lookup(aliases ...string) (any, string, bool) {
	for _, alias := range aliases {
		v, ok := r.Values[alias]
		if !ok {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, alias, true
	}
	return nil, "", false
}

// NewRawRow builds a row from parallel header and cell slices, treating
// every numeric-looking cell as a number. The workbook reader decides
// per cell from the stored cell type instead.
func NewRawRow(index int, headers []string, cells []string) RawRow {
	return newRawRow(index, headers, cells, func(int) bool { return true })
}

// newRawRow builds a row; numeric reports whether the cell in a column may
// be read as a number. Text cells always stay strings, so "007" or
// "+919876543210" keep their digits.
func newRawRow(index int, headers []string, cells []string, numeric func(col int) bool) RawRow {
	row := RawRow{
		Index:   index,
		Headers: headers,
		Values:  make(map[string]any, len(headers)),
	}
	for i, h := range headers {
		if h == "" || i >= len(cells) {
			continue
		}
		cell := strings.TrimSpace(cells[i])
		if cell == "" {
			continue
		}
		if numeric(i) {
			if f, err := strconv.ParseFloat(cell, 64); err == nil {
				row.Values[h] = f
				continue
			}
		}
		row.Values[h] = cell
	}
	return row
}

// ReadWorkbook decodes the first worksheet of an xlsx buffer into rows,
// using the first line as header labels. maxRows <= 0 disables the cap.
func ReadWorkbook(data []byte, maxRows int) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no worksheets", ErrUnreadableWorkbook)
	}

	// Raw values keep date cells as serial numbers instead of formatted text.
	lines, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	if len(lines) == 0 {
		return []RawRow{}, nil
	}

	headers := make([]string, len(lines[0]))
	for i, h := range lines[0] {
		headers[i] = norm.NFC.String(strings.TrimSpace(h))
	}

	rows := make([]RawRow, 0, len(lines)-1)
	for i, line := range lines[1:] {
		if blankLine(line) {
			continue
		}
		if maxRows > 0 && len(rows) >= maxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, maxRows)
		}
		sheetRow := i + 2
		numeric := func(col int) bool {
			return numericCell(f, sheets[0], col+1, sheetRow)
		}
		rows = append(rows, newRawRow(len(rows), headers, line, numeric))
	}

	return rows, nil
}

// numericCell reports whether a cell is stored as a number. Shared and
// inline strings, booleans and errors are text. Number cells usually carry
// no type attribute at all, which reads as CellTypeUnset.
func numericCell(f *excelize.File, sheet string, col, row int) bool {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return false
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return true
	default:
		return false
	}
}

func blankLine(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
