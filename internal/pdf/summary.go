package pdf

import (
	"github.com/jung-kurt/gofpdf"

	"github.com/cfs-facility/rapportini-service/internal/aggregate"
	"github.com/cfs-facility/rapportini-service/internal/model"
)

// extraordinaryPlaceholder replaces the description of extraordinary rows
// in the summary table; their detail lives on the separate form.
const extraordinaryPlaceholder = "Vedi foglio interventi straordinari"

var summaryColumnWidths = []float64{40, 0, 10, 10, 10, 8, 8, 12, 8, 10, 8}

func summaryHeader() [][]headerCell {
	return [][]headerCell{
		{
			{text: "Intervento", colSpan: 2, bold: true},
			{text: "ORE", rowSpan: 2, bold: true},
			{text: "REP.", colSpan: 2, bold: true, color: &accentRed},
			{text: "CC", rowSpan: 2},
			{text: "PRC", rowSpan: 2},
			{text: "CG / GRC", rowSpan: 2},
			{text: "LE", rowSpan: 2},
			{text: "FERIE", rowSpan: 2},
			{text: "ROL", rowSpan: 2},
		},
		{
			{text: "Luogo intervento", align: "L"},
			{text: "Descrizione intervento", align: "L"},
			{text: "Ore\nint.", fontSize: 7, color: &accentRed},
			{text: "Ore\nviag.\nrep.", fontSize: 7, color: &accentRed},
		},
	}
}

// buildSummary renders the daily summary table document onto one A4 page.
func buildSummary(pdf *gofpdf.Fpdf, tr func(string) string, reports []model.Report, date, technician string) {
	drawLogo(pdf, pageMargin, 8, 12)

	// Info box, top right.
	const infoBoxWidth = 60.0
	boxX := pageWidth - pageMargin - infoBoxWidth
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.1)
	pdf.Rect(boxX, 6, infoBoxWidth, 18, "D")
	pdf.SetFont("Helvetica", "B", 8)
	pdf.Text(boxX+2, 11, "DATA:")
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(boxX+15, 11, date)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.Text(boxX+2, 18, "TECNICO:")
	pdf.SetFont("Helvetica", "", 8)
	setTextColor(pdf, brandBlue)
	pdf.Text(boxX+2, 22, tr(truncate(technician, 25)))
	resetTextColor(pdf)

	pdf.SetFont("Helvetica", "B", 14)
	centerText(pdf, 32, "FOGLIO GIORNALIERO INTERVENTI")
	pdf.SetFont("Helvetica", "", 9)
	centerText(pdf, 37, "M-FGI-01-IT")

	widths := resolveWidths(summaryColumnWidths)
	y := drawTableHeader(pdf, tr, summaryTableY, widths, summaryHeader(), []float64{6, 10})

	totals := aggregate.ComputeDayTotals(reports)

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		desc := r.Description
		hours := formatHours(aggregate.RowHours(r))
		repIntervention, repTravel := "", ""
		switch r.WorkType {
		case model.WorkTypeExtraordinary:
			// Hidden per-row value: the ORE cell stays blank while the
			// hours still count toward the TOTALI row.
			desc = extraordinaryPlaceholder
			hours = ""
		case model.WorkTypeOnCall:
			repIntervention = formatHours(r.InterventionHours)
			repTravel = formatHours(r.TravelHours)
		}
		rows = append(rows, []string{r.Location, desc, hours, repIntervention, repTravel, "", "", "", "", "", ""})
	}
	rows = padRows(rows, len(widths), summaryMinRows)
	if len(rows) > summaryMaxRows {
		rows = rows[:summaryMaxRows]
	}

	aligns := []string{"L", "L", "C", "C", "C", "C", "C", "C", "C", "C", "C"}
	pdf.SetLineWidth(0.1)
	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		y = drawBodyRow(pdf, tr, y, widths, row, aligns, summaryRowHeight)
	}
	drawTotalsRow(pdf, y, widths, totals)

	// The RIEPILOGO box is anchored to the physical bottom margin, not to
	// where the table ends.
	pdf.SetLineWidth(0.1)
	pdf.Rect(pageMargin, summaryFooterY, printWidth, 10, "D")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(pageMargin+2, summaryFooterY+6, "RIEPILOGO:")
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(pageMargin+50, summaryFooterY+6, "ORE INT. REP.:")
	pdf.Text(pageMargin+81, summaryFooterY+6, formatFooterTotal(totals.OnCallInterventionHours))
	pdf.Text(pageMargin+110, summaryFooterY+6, "ORE VIAG. REP.:")
	pdf.Text(pageMargin+144, summaryFooterY+6, formatFooterTotal(totals.OnCallTravelHours))
}

func drawTotalsRow(pdf *gofpdf.Fpdf, y float64, widths []float64, totals aggregate.DayTotals) {
	h := summaryRowHeight
	pdf.SetFont("Helvetica", "B", 8)
	boxText(pdf, colX(widths, 0), y, widths[0], h, "TOTALI", "R")

	setFillColor(pdf, fillGrey)
	pdf.Rect(colX(widths, 1), y, widths[1], h, "FD")

	boxText(pdf, colX(widths, 2), y, widths[2], h, formatTotal(totals.MainTableHours), "C")
	boxText(pdf, colX(widths, 3), y, widths[3], h, formatTotal(totals.OnCallInterventionHours), "C")
	setTextColor(pdf, accentRed)
	boxText(pdf, colX(widths, 4), y, widths[4], h, formatTotal(totals.OnCallTravelHours), "C")
	resetTextColor(pdf)

	for i := 5; i < len(widths); i++ {
		pdf.Rect(colX(widths, i), y, widths[i], h, "D")
	}
}

// The footer restates the on-call totals unconditionally, zeros included.
func formatFooterTotal(v float64) string {
	if v <= 0 {
		return "0.0"
	}
	return formatTotal(v)
}
