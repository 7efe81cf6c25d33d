package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points. Positions are top-left anchored.
const (
	pdfMargin      = 50.0
	pdfTitleY      = 50.0
	pdfSubtitleY   = 80.0
	pdfHeaderY     = 120.0
	pdfFirstRowY   = 140.0
	pdfRowSpacing  = 20.0
	pdfColumnWidth = 120.0

	pdfTitleSize  = 20.0
	pdfSubSize    = 12.0
	pdfHeaderSize = 10.0
	pdfBodySize   = 8.0
)

type pdfWriter struct {
	doc      *fpdf.Fpdf
	tr       func(string) string
	colWidth float64
	bottom   float64
}

func writePDF(w io.Writer, t Table, opts Options) error {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetCompression(opts.CompressPDF)
	doc.SetAutoPageBreak(false, pdfMargin)
	doc.SetTitle(opts.Title, true)

	pageW, pageH := doc.GetPageSize()
	p := &pdfWriter{
		doc:      doc,
		tr:       doc.UnicodeTranslatorFromDescriptor(""),
		colWidth: pdfColumnWidth,
		bottom:   pageH - pdfMargin,
	}
	// Narrow the columns when a wide table would run off the page.
	if n := len(t.Headers); n > 0 && pdfMargin+float64(n)*pdfColumnWidth > pageW-pdfMargin {
		p.colWidth = (pageW - 2*pdfMargin) / float64(n)
	}

	doc.AddPage()
	p.text(pdfMargin, pdfTitleY, pdfTitleSize, "", opts.Title)
	p.text(pdfMargin, pdfSubtitleY, pdfSubSize, "", "Generated on: "+opts.GeneratedAt.Format("1/2/2006"))

	if len(t.Rows) == 0 {
		p.text(pdfMargin, pdfHeaderY, pdfHeaderSize, "", Placeholder)
	} else {
		p.header(t.Headers, pdfHeaderY)
		y := pdfFirstRowY
		for _, row := range t.Rows {
			if y+pdfBodySize > p.bottom {
				doc.AddPage()
				p.header(t.Headers, pdfMargin)
				y = pdfMargin + pdfRowSpacing
			}
			p.row(row, y)
			y += pdfRowSpacing
		}
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (p *pdfWriter) header(headers []string, y float64) {
	for i, h := range headers {
		p.cell(i, y, pdfHeaderSize, "B", h)
	}
}

func (p *pdfWriter) row(values []any, y float64) {
	for i, v := range values {
		p.cell(i, y, pdfBodySize, "", FormatCell(v))
	}
}

func (p *pdfWriter) cell(col int, y, size float64, style, s string) {
	p.doc.SetFont("Helvetica", style, size)
	s = p.tr(s)
	limit := p.colWidth - 4
	for len(s) > 0 && p.doc.GetStringWidth(s) > limit {
		s = s[:len(s)-1]
	}
	p.doc.Text(pdfMargin+float64(col)*p.colWidth, y+size, s)
}

func (p *pdfWriter) text(x, y, size float64, style, s string) {
	p.doc.SetFont("Helvetica", style, size)
	p.doc.Text(x, y+size, p.tr(s))
}
