// Package grid lays student sequences out into the jury grade grid: a title
// band, three header tiers, three identity columns, one column group per
// unit, six summary columns and a legend.
package grid

import (
	"fmt"
	"strconv"

	"github.com/terra-clan/jury-engine/internal/grading"
	"github.com/terra-clan/jury-engine/internal/record"
)

// Layout of the sheet
const (
	titleRow      = 1
	subtitleRow   = 2
	headerRow     = 4 // unit tier; element tier and credit tier follow
	firstDataRow  = headerRow + 3
	fixedColumns  = 3
	legendSpacing = 2
)

// SummaryHeaders are the labels of the trailing summary columns, in
// sequence order
var SummaryHeaders = []string{"TOTAL", "POURCENTAGE", "MENTION", "NCV", "NCNV", "DÉCISION"}

var summaryWidths = []float64{8, 12, 10, 8, 8, 12}

// LegendItems is the explanatory block written under the table
var LegendItems = []string{
	"NCV: Nombre de Crédits Validés",
	"NCNV: Nombre de Crédits Non Validés",
	"X: Note non disponible",
	"Mentions: A(90-100%), B(80-89%), C(70-79%), D(60-69%), E(50-59%), F(<50%)",
}

// Options configure the document chrome
type Options struct {
	SheetName           string
	Institution         string
	Title               string // e.g. "GRILLE DES NOTES - SESSION PRINCIPALE"
	AcademicYear        string
	ValidationThreshold float64
}

func (o Options) withDefaults() Options {
	if o.SheetName == "" {
		o.SheetName = "Grille des Notes"
	}
	if o.Institution == "" {
		o.Institution = "UNIVERSITÉ"
	}
	if o.Title == "" {
		o.Title = "GRILLE DES NOTES - SESSION PRINCIPALE"
	}
	if o.ValidationThreshold == 0 {
		o.ValidationThreshold = 10
	}
	return o
}

// Renderer builds grid documents
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer with the given chrome options
func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts.withDefaults()}
}

// FirstDataRow is the sheet row of the first student
func FirstDataRow() int {
	return firstDataRow
}

// Render lays out the header from the layout's units and one row per
// student. Every row is decoded through the same layout that encoded it.
func (r *Renderer) Render(layout *record.Layout, rows []record.Row) (*Document, error) {
	doc := newDocument(r.opts.SheetName)

	lastCol := r.addHeader(doc, layout)
	r.addChrome(doc, lastCol)

	for i, row := range rows {
		if err := r.addStudentRow(doc, layout, firstDataRow+i, i+1, row); err != nil {
			return nil, fmt.Errorf("student %s: %w", row.Student.Matricule, err)
		}
	}

	r.addLegend(doc, firstDataRow+len(rows)+legendSpacing)

	return doc, nil
}

func (r *Renderer) addChrome(doc *Document, lastCol int) {
	doc.set(titleRow, 1, r.opts.Institution, StyleTitle, BandNone)
	doc.merge(titleRow, 1, titleRow, lastCol)

	subtitle := r.opts.Title
	if r.opts.AcademicYear != "" {
		subtitle += " - " + r.opts.AcademicYear
	}
	doc.set(subtitleRow, 1, subtitle, StyleSubtitle, BandNone)
	doc.merge(subtitleRow, 1, subtitleRow, lastCol)

	doc.RowHeights[subtitleRow+1] = 10
}

// addHeader writes the three header tiers and returns the last column used
func (r *Renderer) addHeader(doc *Document, layout *record.Layout) int {
	unitRow, elementRow, creditRow := headerRow, headerRow+1, headerRow+2

	fixed := []struct {
		label string
		width float64
	}{
		{"N°", 5},
		{"MATRICULE", 15},
		{"NOM ET PRÉNOM", 25},
	}
	for i, f := range fixed {
		col := i + 1
		doc.set(unitRow, col, f.label, StyleFixedHeader, BandNone)
		doc.merge(unitRow, col, creditRow, col)
		doc.ColWidths[col] = f.width
	}

	col := fixedColumns + 1
	for _, u := range layout.Units() {
		span := len(u.Elements) + 2
		doc.set(unitRow, col, u.Title(), StyleUnitHeader, BandNone)
		doc.merge(unitRow, col, unitRow, col+span-1)

		for _, e := range u.Elements {
			doc.set(elementRow, col, e.Designation, StyleElementHeader, BandNone)
			doc.set(creditRow, col, "("+formatNumber(e.Credit)+")", StyleCredit, BandNone)
			doc.ColWidths[col] = 15
			col++
		}

		doc.set(elementRow, col, "Moyenne", StyleAverageHeader, BandNone)
		doc.set(creditRow, col, "("+formatNumber(u.Credits)+")", StyleCredit, BandNone)
		doc.ColWidths[col] = 10
		col++

		doc.set(elementRow, col, "Décision", StyleDecisionHeader, BandNone)
		doc.set(creditRow, col, "V/NV", StyleCredit, BandNone)
		doc.ColWidths[col] = 8
		col++
	}

	for i, label := range SummaryHeaders {
		doc.set(unitRow, col+i, label, StyleSummaryHeader, BandNone)
		doc.merge(unitRow, col+i, creditRow, col+i)
		doc.ColWidths[col+i] = summaryWidths[i]
	}

	doc.RowHeights[unitRow] = 30
	doc.RowHeights[elementRow] = 40
	doc.RowHeights[creditRow] = 20

	return col + len(SummaryHeaders) - 1
}

func (r *Renderer) addStudentRow(doc *Document, layout *record.Layout, sheetRow, number int, row record.Row) error {
	decoded, err := layout.Decode(row.Data)
	if err != nil {
		return err
	}

	doc.set(sheetRow, 1, number, StyleCell, BandNone)
	doc.set(sheetRow, 2, row.Student.Matricule, StyleCell, BandNone)
	doc.set(sheetRow, 3, row.Student.FullName(), StyleCell, BandNone)

	col := fixedColumns + 1
	for _, uv := range decoded.Units {
		for _, v := range uv.Elements {
			if v.IsNumber() {
				doc.set(sheetRow, col, v.Number, StyleCell, NoteBand(v.Number))
			} else {
				doc.set(sheetRow, col, v.String(), StyleCell, BandNone)
			}
			col++
		}

		if uv.Average.IsNumber() {
			doc.set(sheetRow, col, grading.Round2(uv.Average.Number), StyleStrongCell,
				AverageBand(uv.Average.Number, r.opts.ValidationThreshold))
		} else {
			doc.set(sheetRow, col, uv.Average.String(), StyleStrongCell, BandNone)
		}
		col++

		doc.set(sheetRow, col, uv.Decision.String(), StyleStrongCell, UnitDecisionBand(uv.Decision.String()))
		col++
	}

	for i, v := range decoded.Summary.Values() {
		c := doc.set(sheetRow, col+i, summaryValue(i, v), StyleStrongCell, BandNone)
		if i == len(SummaryHeaders)-1 {
			c.Band = FinalDecisionBand(v.String())
		}
	}

	doc.RowHeights[sheetRow] = 25
	return nil
}

func (r *Renderer) addLegend(doc *Document, startRow int) {
	doc.set(startRow, 1, "LÉGENDE", StyleLegendTitle, BandNone)
	doc.merge(startRow, 1, startRow, 6)

	for i, item := range LegendItems {
		doc.set(startRow+1+i, 1, "• "+item, StyleLegend, BandNone)
	}
}

// summaryValue formats the i-th summary entry for display
func summaryValue(i int, v record.Value) any {
	if !v.IsNumber() {
		return v.String()
	}
	switch i {
	case 1:
		return fmt.Sprintf("%.2f%%", v.Number)
	case 0:
		return grading.Round2(v.Number)
	default:
		return v.Number
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
