package grid

import "sort"

// Band is the value-range class that drives a cell's fill
type Band int

const (
	BandNone Band = iota
	BandHigh
	BandPassGood
	BandPassMinimum
	BandFail
)

// Style identifies the formatting role of a cell
type Style int

const (
	StylePlain Style = iota
	StyleTitle
	StyleSubtitle
	StyleFixedHeader
	StyleUnitHeader
	StyleElementHeader
	StyleAverageHeader
	StyleDecisionHeader
	StyleCredit
	StyleSummaryHeader
	StyleCell
	StyleStrongCell
	StyleLegendTitle
	StyleLegend
)

// NoteBand classifies an element note
func NoteBand(note float64) Band {
	switch {
	case note >= 16:
		return BandHigh
	case note >= 12:
		return BandPassGood
	case note >= 10:
		return BandPassMinimum
	default:
		return BandFail
	}
}

// AverageBand splits unit averages at the validation threshold
func AverageBand(average, threshold float64) Band {
	if average >= threshold {
		return BandHigh
	}
	return BandFail
}

// UnitDecisionBand marks validated units as passing
func UnitDecisionBand(decision string) Band {
	if decision == "V" {
		return BandHigh
	}
	return BandFail
}

// FinalDecisionBand marks "Passe" and "ADMIS" as passing
func FinalDecisionBand(decision string) Band {
	if decision == "Passe" || decision == "ADMIS" {
		return BandHigh
	}
	return BandFail
}

// Cell is one populated cell of the grid. Rows and columns are 1-based.
type Cell struct {
	Row   int
	Col   int
	Value any
	Style Style
	Band  Band
}

// Merge is a rectangular merged range
type Merge struct {
	FromRow, FromCol int
	ToRow, ToCol     int
}

type coord struct{ row, col int }

// Document is a rendered grid, independent of any file format
type Document struct {
	Sheet      string
	Merges     []Merge
	ColWidths  map[int]float64
	RowHeights map[int]float64

	cells  map[coord]*Cell
	maxRow int
	maxCol int
}

func newDocument(sheet string) *Document {
	return &Document{
		Sheet:      sheet,
		ColWidths:  make(map[int]float64),
		RowHeights: make(map[int]float64),
		cells:      make(map[coord]*Cell),
	}
}

// Cell returns the cell at row, col or nil when empty
func (d *Document) Cell(row, col int) *Cell {
	return d.cells[coord{row, col}]
}

// Value returns the value at row, col or nil when empty
func (d *Document) Value(row, col int) any {
	if c := d.Cell(row, col); c != nil {
		return c.Value
	}
	return nil
}

// Cells returns all populated cells in row-major order
func (d *Document) Cells() []*Cell {
	out := make([]*Cell, 0, len(d.cells))
	for _, c := range d.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Dimensions returns the last used row and column
func (d *Document) Dimensions() (rows, cols int) {
	return d.maxRow, d.maxCol
}

// MergeAt returns the merge whose top-left corner is row, col
func (d *Document) MergeAt(row, col int) (Merge, bool) {
	for _, m := range d.Merges {
		if m.FromRow == row && m.FromCol == col {
			return m, true
		}
	}
	return Merge{}, false
}

func (d *Document) set(row, col int, value any, style Style, band Band) *Cell {
	c := &Cell{Row: row, Col: col, Value: value, Style: style, Band: band}
	d.cells[coord{row, col}] = c
	if row > d.maxRow {
		d.maxRow = row
	}
	if col > d.maxCol {
		d.maxCol = col
	}
	return c
}

func (d *Document) merge(fromRow, fromCol, toRow, toCol int) {
	if fromRow == toRow && fromCol == toCol {
		return
	}
	d.Merges = append(d.Merges, Merge{FromRow: fromRow, FromCol: fromCol, ToRow: toRow, ToCol: toCol})
}
