package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxColumnWidth = 15
	xlsxHeaderFill  = "E6E6FA"
)

func writeXLSX(w io.Writer, t Table, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(opts.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{xlsxHeaderFill}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	if err := sw.SetColWidth(1, max(len(t.Headers), 1), xlsxColumnWidth); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	line := 1
	if len(t.Headers) > 0 {
		header := make([]any, len(t.Headers))
		for i, h := range t.Headers {
			header[i] = excelize.Cell{StyleID: headerStyle, Value: h}
		}
		if err := setRow(sw, line, header); err != nil {
			return err
		}
		line++
	}

	if len(t.Rows) == 0 {
		if err := setRow(sw, line, []any{Placeholder}); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = xlsxValue(v, dateStyle)
		}
		if err := setRow(sw, line, cells); err != nil {
			return err
		}
		line++
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(sw *excelize.StreamWriter, line int, cells []any) error {
	ref, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	if err := sw.SetRow(ref, cells); err != nil {
		return fmt.Errorf("write row %d: %w", line, err)
	}
	return nil
}

// xlsxValue keeps numbers numeric and dates as real date cells.
func xlsxValue(v any, dateStyle int) any {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.InexactFloat64()
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return excelize.Cell{StyleID: dateStyle, Value: val}
	case string, float64, int, int64, bool, nil:
		return val
	default:
		return FormatCell(val)
	}
}

// sheetName derives a valid worksheet name from a document title.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		return "Report"
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
