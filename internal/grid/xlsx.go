package grid

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ContentType is the media type of the xlsx download
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename returns the attachment name for a jury grid
func Filename(juryID int64) string {
	return fmt.Sprintf("grille_%d.xlsx", juryID)
}

// Fill colors
const (
	colorTitle          = "4472C4"
	colorSubtitle       = "70AD47"
	colorFixedHeader    = "8FAADC"
	colorUnitHeader     = "D9E1F2"
	colorElementHeader  = "E2EFDA"
	colorAverageHeader  = "FFC000"
	colorDecisionHeader = "FF9999"
	colorSummaryHeader  = "FF6B6B"
	colorCredit         = "F2F2F2"

	colorHigh     = "92D050"
	colorPassGood = "FFFF00"
	colorPassMin  = "FFC000"
	colorFail     = "FF6B6B"

	colorWhite = "FFFFFF"
)

type styleKey struct {
	style Style
	band  Band
}

// xlsxWriter translates a Document into an excelize workbook
type xlsxWriter struct {
	f      *excelize.File
	sheet  string
	styles map[styleKey]int
}

// WriteXLSX writes the document as a single-sheet workbook, landscape and
// fitted to one page wide
func (d *Document) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	xw := &xlsxWriter{f: f, sheet: d.Sheet, styles: make(map[styleKey]int)}

	if err := f.SetSheetName("Sheet1", d.Sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := xw.pageSetup(); err != nil {
		return err
	}

	for col, width := range d.ColWidths {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(d.Sheet, name, name, width); err != nil {
			return fmt.Errorf("failed to set width of %s: %w", name, err)
		}
	}
	for row, height := range d.RowHeights {
		if err := f.SetRowHeight(d.Sheet, row, height); err != nil {
			return fmt.Errorf("failed to set height of row %d: %w", row, err)
		}
	}

	for _, c := range d.Cells() {
		if err := xw.writeCell(c); err != nil {
			return err
		}
	}

	for _, m := range d.Merges {
		if err := xw.writeMerge(d, m); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (xw *xlsxWriter) pageSetup() error {
	orientation := "landscape"
	fitWidth := 1
	fitHeight := 0
	if err := xw.f.SetPageLayout(xw.sheet, &excelize.PageLayoutOptions{
		Orientation: &orientation,
		FitToWidth:  &fitWidth,
		FitToHeight: &fitHeight,
	}); err != nil {
		return fmt.Errorf("failed to set page layout: %w", err)
	}

	fit := true
	if err := xw.f.SetSheetProps(xw.sheet, &excelize.SheetPropsOptions{FitToPage: &fit}); err != nil {
		return fmt.Errorf("failed to set sheet props: %w", err)
	}

	side, edge := 0.5, 0.75
	if err := xw.f.SetPageMargins(xw.sheet, &excelize.PageLayoutMarginsOptions{
		Left:   &side,
		Right:  &side,
		Top:    &edge,
		Bottom: &edge,
	}); err != nil {
		return fmt.Errorf("failed to set margins: %w", err)
	}
	return nil
}

func (xw *xlsxWriter) writeCell(c *Cell) error {
	ref, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return err
	}
	if err := xw.f.SetCellValue(xw.sheet, ref, c.Value); err != nil {
		return fmt.Errorf("failed to set %s: %w", ref, err)
	}

	id, err := xw.style(c.Style, c.Band)
	if err != nil {
		return err
	}
	return xw.f.SetCellStyle(xw.sheet, ref, ref, id)
}

// writeMerge merges the range and extends the top-left style over it so
// borders and fills cover the whole block
func (xw *xlsxWriter) writeMerge(d *Document, m Merge) error {
	from, err := excelize.CoordinatesToCellName(m.FromCol, m.FromRow)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(m.ToCol, m.ToRow)
	if err != nil {
		return err
	}
	if err := xw.f.MergeCell(xw.sheet, from, to); err != nil {
		return fmt.Errorf("failed to merge %s:%s: %w", from, to, err)
	}

	if c := d.Cell(m.FromRow, m.FromCol); c != nil {
		id, err := xw.style(c.Style, c.Band)
		if err != nil {
			return err
		}
		return xw.f.SetCellStyle(xw.sheet, from, to, id)
	}
	return nil
}

func (xw *xlsxWriter) style(s Style, b Band) (int, error) {
	key := styleKey{s, b}
	if id, ok := xw.styles[key]; ok {
		return id, nil
	}

	id, err := xw.f.NewStyle(styleFor(s, b))
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	xw.styles[key] = id
	return id, nil
}

func styleFor(s Style, b Band) *excelize.Style {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	st := &excelize.Style{Font: &excelize.Font{Family: "Calibri", Size: 11}}

	switch s {
	case StyleTitle:
		st.Font = &excelize.Font{Bold: true, Size: 16, Color: colorWhite}
		st.Fill = solid(colorTitle)
		st.Alignment = center
	case StyleSubtitle:
		st.Font = &excelize.Font{Bold: true, Size: 14, Color: colorWhite}
		st.Fill = solid(colorSubtitle)
		st.Alignment = center
	case StyleFixedHeader:
		st.Font = &excelize.Font{Bold: true, Size: 11}
		st.Fill = solid(colorFixedHeader)
		st.Alignment = center
		st.Border = thin
	case StyleUnitHeader:
		st.Font = &excelize.Font{Bold: true, Size: 10}
		st.Fill = solid(colorUnitHeader)
		st.Alignment = center
		st.Border = thin
	case StyleElementHeader:
		st.Font = &excelize.Font{Size: 9}
		st.Fill = solid(colorElementHeader)
		st.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true, TextRotation: 90}
		st.Border = thin
	case StyleAverageHeader:
		st.Font = &excelize.Font{Bold: true, Size: 9}
		st.Fill = solid(colorAverageHeader)
		st.Alignment = center
		st.Border = thin
	case StyleDecisionHeader:
		st.Font = &excelize.Font{Bold: true, Size: 9}
		st.Fill = solid(colorDecisionHeader)
		st.Alignment = center
		st.Border = thin
	case StyleCredit:
		st.Font = &excelize.Font{Italic: true, Size: 8}
		st.Fill = solid(colorCredit)
		st.Alignment = center
		st.Border = thin
	case StyleSummaryHeader:
		st.Font = &excelize.Font{Bold: true, Size: 10, Color: colorWhite}
		st.Fill = solid(colorSummaryHeader)
		st.Alignment = center
		st.Border = thin
	case StyleCell, StyleStrongCell:
		st.Font = &excelize.Font{Bold: s == StyleStrongCell, Size: 10}
		st.Alignment = center
		st.Border = thin
	case StyleLegendTitle:
		st.Font = &excelize.Font{Bold: true, Size: 12}
	case StyleLegend:
		st.Font = &excelize.Font{Size: 10}
	}

	switch b {
	case BandHigh:
		st.Fill = solid(colorHigh)
	case BandPassGood:
		st.Fill = solid(colorPassGood)
	case BandPassMinimum:
		st.Fill = solid(colorPassMin)
	case BandFail:
		st.Fill = solid(colorFail)
		st.Font.Color = colorWhite
	}

	return st
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}
