package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "ATP"

// Spreadsheet paper codes (ECMA-376 ST_PaperSize).
var xlsxPaperCodes = map[string]int{
	"letter": 1,
	"a4":     9,
	"f4":     14,
}

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct {
	// ColumnWidth is the width of a column of weight 1, in characters.
	ColumnWidth float64
}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{ColumnWidth: 14}
}

// Render writes the title, the header and one row per record. The page is
// recorded in the sheet's print settings.
func (e *XLSXExporter) Render(data Dataset, page Page) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	page = page.orDefault()

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	last := colName(len(data.Headers) - 1)
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    cellBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    cellBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("body style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#F3F4F6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    cellBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("total style: %w", err)
	}

	row := 1
	for _, line := range []string{data.Title, data.Subtitle} {
		if line == "" {
			continue
		}
		start, end := cell("A", row), cell(last, row)
		f.SetCellValue(xlsxSheet, start, strings.ToUpper(line))
		f.MergeCell(xlsxSheet, start, end)
		f.SetCellStyle(xlsxSheet, start, end, titleStyle)
		row++
	}
	if row > 1 {
		row++
	}

	headerRow := row
	for i, h := range data.Headers {
		f.SetCellValue(xlsxSheet, cell(colName(i), row), h)
	}
	f.SetCellStyle(xlsxSheet, cell("A", row), cell(last, row), headerStyle)
	row++

	for i, record := range data.Rows {
		for j, value := range data.record(record) {
			f.SetCellValue(xlsxSheet, cell(colName(j), row), value)
		}
		style := bodyStyle
		if data.Emphasis[i] {
			style = totalStyle
		}
		f.SetCellStyle(xlsxSheet, cell("A", row), cell(last, row), style)
		row++
	}

	for i, w := range data.weights() {
		col := colName(i)
		if err := f.SetColWidth(xlsxSheet, col, col, w*e.ColumnWidth); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}
	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cell("A", headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	paper := xlsxPaperCodes["a4"]
	if code, ok := xlsxPaperCodes[strings.ToLower(page.Name)]; ok {
		paper = code
	}
	orientation := "landscape"
	if err := f.SetPageLayout(xlsxSheet, &excelize.PageLayoutOptions{Size: &paper, Orientation: &orientation}); err != nil {
		return nil, fmt.Errorf("page layout: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func cellBorders() []excelize.Border {
	out := make([]excelize.Border, 0, 4)
	for _, side := range []string{"left", "top", "right", "bottom"} {
		out = append(out, excelize.Border{Type: side, Color: "#000000", Style: 1})
	}
	return out
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
