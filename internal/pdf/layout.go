package pdf

import (
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// All coordinates are millimeters on a fixed A4 portrait page. There is no
// pagination: content that would run past the caps below is truncated, the
// page count never grows.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	pageMargin = 10.0
	printWidth = pageWidth - 2*pageMargin

	summaryTableY    = 42.0
	summaryRowHeight = 6.0
	summaryMinRows   = 20
	summaryMaxRows   = 30
	summaryFooterY   = 275.0

	descriptionLineHeight = 7.0
	descriptionMinLines   = 12
	descriptionMaxLines   = 18
)

type rgb struct{ r, g, b int }

var (
	brandOrange = rgb{243, 125, 32}
	brandBlue   = rgb{72, 122, 150}
	brandGrey   = rgb{90, 89, 84}
	accentRed   = rgb{200, 0, 0}
	fillGrey    = rgb{240, 240, 240}
	barGrey     = rgb{220, 220, 220}
)

func setTextColor(pdf *gofpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
func setFillColor(pdf *gofpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func resetTextColor(pdf *gofpdf.Fpdf)      { pdf.SetTextColor(0, 0, 0) }

// headerCell is one cell of a two-row table header. colSpan covers the
// following columns, rowSpan stretches the cell across both header rows.
type headerCell struct {
	text     string
	colSpan  int
	rowSpan  int
	fontSize float64
	bold     bool
	color    *rgb
	align    string
}

// resolveWidths assigns whatever is left of the printable width to the
// single flexible (zero) entry.
func resolveWidths(widths []float64) []float64 {
	fixed := 0.0
	flex := -1
	out := make([]float64, len(widths))
	for i, w := range widths {
		out[i] = w
		if w == 0 {
			flex = i
			continue
		}
		fixed += w
	}
	if flex >= 0 {
		out[flex] = printWidth - fixed
	}
	return out
}

func colX(widths []float64, i int) float64 {
	x := pageMargin
	for j := 0; j < i && j < len(widths); j++ {
		x += widths[j]
	}
	return x
}

func spanWidth(widths []float64, i, n int) float64 {
	w := 0.0
	for j := i; j < i+n && j < len(widths); j++ {
		w += widths[j]
	}
	return w
}

// boxText draws a bordered cell with vertically centered text.
func boxText(pdf *gofpdf.Fpdf, x, y, w, h float64, text, align string) {
	pdf.Rect(x, y, w, h, "D")
	if text == "" {
		return
	}
	pdf.SetXY(x, y)
	pdf.CellFormat(w, h, text, "", 0, align, false, 0, "")
}

// boxMultiText is boxText for cells whose label spans several lines.
func boxMultiText(pdf *gofpdf.Fpdf, x, y, w, h float64, text string, lineHeight float64, align string) {
	pdf.Rect(x, y, w, h, "D")
	lines := float64(strings.Count(text, "\n") + 1)
	offset := (h - lines*lineHeight) / 2
	if offset < 0 {
		offset = 0
	}
	pdf.SetXY(x, y+offset)
	pdf.MultiCell(w, lineHeight, text, "", align, false)
}

// drawTableHeader renders a two-row spanning header and returns the y
// coordinate just below it.
func drawTableHeader(pdf *gofpdf.Fpdf, tr func(string) string, y float64, widths []float64, rows [][]headerCell, rowHeights []float64) float64 {
	totalH := 0.0
	for _, h := range rowHeights {
		totalH += h
	}

	pdf.SetLineWidth(0.2)
	occupied := make([]bool, len(widths))
	rowY := y
	for ri, row := range rows {
		col := 0
		for _, cell := range row {
			for ri > 0 && col < len(widths) && occupied[col] {
				col++
			}
			cs := cell.colSpan
			if cs == 0 {
				cs = 1
			}
			x := colX(widths, col)
			w := spanWidth(widths, col, cs)
			h := rowHeights[ri]
			if cell.rowSpan > 1 {
				h = totalH - (rowY - y)
				for k := col; k < col+cs && k < len(occupied); k++ {
					occupied[k] = true
				}
			}

			size := cell.fontSize
			if size == 0 {
				size = 8
			}
			style := ""
			if cell.bold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, size)
			if cell.color != nil {
				setTextColor(pdf, *cell.color)
			}
			align := cell.align
			if align == "" {
				align = "C"
			}
			if strings.Contains(cell.text, "\n") {
				boxMultiText(pdf, x, rowY, w, h, tr(cell.text), 3, align)
			} else {
				boxText(pdf, x, rowY, w, h, tr(cell.text), align)
			}
			if cell.color != nil {
				resetTextColor(pdf)
			}
			col += cs
		}
		rowY += rowHeights[ri]
	}
	return y + totalH
}

// drawBodyRow renders one bordered table row and returns the y below it.
// Overlong cell text is clipped by the fixed geometry, not wrapped.
func drawBodyRow(pdf *gofpdf.Fpdf, tr func(string) string, y float64, widths []float64, cells, aligns []string, rowHeight float64) float64 {
	for i := range widths {
		align := "C"
		if i < len(aligns) {
			align = aligns[i]
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		boxText(pdf, colX(widths, i), y, widths[i], rowHeight, tr(text), align)
	}
	return y + rowHeight
}

// padRows appends blank rows until the body reaches minRows, so the printed
// table fills the page regardless of how many reports the day has.
func padRows(rows [][]string, columns, minRows int) [][]string {
	for len(rows) < minRows {
		rows = append(rows, make([]string, columns))
	}
	return rows
}

// wrapLines splits text into lines no wider than width, using the font
// currently selected on the document.
func wrapLines(pdf *gofpdf.Fpdf, tr func(string) string, text string, width float64) []string {
	return pdf.SplitText(tr(text), width)
}

func centerText(pdf *gofpdf.Fpdf, y float64, text string) {
	pdf.SetXY(pageMargin, y-4)
	pdf.CellFormat(printWidth, 8, text, "", 0, "C", false, 0, "")
}

// sectionBar draws the grey title band used by the form-style document.
func sectionBar(pdf *gofpdf.Fpdf, y float64, title string) {
	setFillColor(pdf, barGrey)
	pdf.Rect(pageMargin, y, printWidth, 5, "F")
	pdf.Rect(pageMargin, y, printWidth, 5, "D")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(printWidth, 5, title, "", 0, "C", false, 0, "")
}

// drawLogo draws the CFS mark (two interlocking arrows plus wordmark) at
// x,y scaled to s millimeters.
func drawLogo(pdf *gofpdf.Fpdf, x, y, s float64) {
	px := func(v float64) float64 { return x + v*s/100 }
	py := func(v float64) float64 { return y + v*s/100 }

	setFillColor(pdf, brandOrange)
	pdf.Polygon([]gofpdf.PointType{
		{X: px(50), Y: py(20)}, {X: px(20), Y: py(20)}, {X: px(20), Y: py(80)},
		{X: px(0), Y: py(80)}, {X: px(25), Y: py(100)}, {X: px(50), Y: py(80)},
		{X: px(42), Y: py(80)}, {X: px(42), Y: py(50)}, {X: px(50), Y: py(40)},
	}, "F")

	setFillColor(pdf, brandBlue)
	pdf.Polygon([]gofpdf.PointType{
		{X: px(50), Y: py(80)}, {X: px(80), Y: py(80)}, {X: px(80), Y: py(20)},
		{X: px(100), Y: py(20)}, {X: px(75), Y: py(0)}, {X: px(50), Y: py(20)},
		{X: px(58), Y: py(20)}, {X: px(58), Y: py(50)}, {X: px(50), Y: py(60)},
	}, "F")

	textX := x + s*1.1
	textY := y + s*0.55
	pdf.SetFont("Helvetica", "B", s*1.8)
	setTextColor(pdf, brandGrey)
	pdf.Text(textX, textY, "CFS")
	pdf.SetFont("Helvetica", "", s*0.55)
	pdf.Text(textX, textY+s*0.4, "F A C I L I T Y")
	resetTextColor(pdf)
}

// formatHoursValue renders an hours value with no trailing ".0" for whole
// hours, zeros included.
func formatHoursValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatHours renders a row hours value the way the paper form shows it:
// nothing for zero.
func formatHours(v float64) string {
	if v <= 0 {
		return ""
	}
	return formatHoursValue(v)
}

// formatTotal renders a totals cell to one decimal, blank when zero.
func formatTotal(v float64) string {
	if v <= 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// truncate caps s at max runes; cutting on bytes could split a multi-byte
// character and feed invalid UTF-8 to the cp1252 translator.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
