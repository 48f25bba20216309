package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 4.5
	pdfCellPad    = 1.0
)

// PDFExporter renders datasets into a landscape table that wraps long cells
// and repeats the header on every page.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document on the given page size.
func (e *PDFExporter) Render(data Dataset, page Page) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	page = page.orDefault()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: page.WidthMM, Ht: page.HeightMM},
	})
	pdf.SetMargins(pdfMargin, pdfMargin+5, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, tr(strings.ToUpper(data.Title)), "", 1, "C", false, 0, "")
	}
	if data.Subtitle != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7, tr(strings.ToUpper(data.Subtitle)), "", 1, "C", false, 0, "")
	}
	if data.Title != "" || data.Subtitle != "" {
		pdf.Ln(4)
	}

	pageW, pageH := pdf.GetPageSize()
	usable := pageW - 2*pdfMargin
	weights := data.weights()
	var sum float64
	for _, w := range weights {
		sum += w
	}
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = usable * w / sum
	}

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(229, 231, 235)
		tableRow(pdf, widths, translateAll(tr, data.Headers), true)
	}
	header()

	for i, row := range data.Rows {
		style := ""
		if data.Emphasis[i] {
			style = "B"
		}
		pdf.SetFont("Arial", style, 8)
		cells := translateAll(tr, data.record(row))
		if pdf.GetY()+rowHeight(pdf, widths, cells) > pageH-pdfMargin {
			pdf.AddPage()
			header()
			pdf.SetFont("Arial", style, 8)
		}
		tableRow(pdf, widths, cells, data.Emphasis[i])
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func rowHeight(pdf *gofpdf.Fpdf, widths []float64, cells []string) float64 {
	lines := 1
	for i, cell := range cells {
		if n := len(pdf.SplitLines([]byte(cell), widths[i]-2*pdfCellPad)); n > lines {
			lines = n
		}
	}
	return float64(lines)*pdfLineHeight + 2*pdfCellPad
}

// tableRow draws one bordered row whose height fits the tallest cell.
func tableRow(pdf *gofpdf.Fpdf, widths []float64, cells []string, fill bool) {
	h := rowHeight(pdf, widths, cells)
	x, y := pdf.GetXY()
	for i, cell := range cells {
		style := "D"
		if fill {
			style = "FD"
		}
		pdf.Rect(x, y, widths[i], h, style)
		pdf.SetXY(x+pdfCellPad, y+pdfCellPad)
		pdf.MultiCell(widths[i]-2*pdfCellPad, pdfLineHeight, cell, "", "L", false)
		x += widths[i]
	}
	pdf.SetXY(pdfMargin, y+h)
}

func translateAll(tr func(string) string, in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = tr(s)
	}
	return out
}
