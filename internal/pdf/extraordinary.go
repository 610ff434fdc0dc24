package pdf

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/cfs-facility/rapportini-service/internal/aggregate"
	"github.com/cfs-facility/rapportini-service/internal/model"
)

// buildExtraordinary renders the free-form extraordinary-work document.
// reports must already be filtered to the extraordinary ones of the day.
func buildExtraordinary(pdf *gofpdf.Fpdf, tr func(string) string, reports []model.Report, date, technician string) {
	drawLogo(pdf, pageMargin, 8, 15)

	// Grey rounded header box.
	const headerBoxX = 80.0
	headerBoxW := pageWidth - headerBoxX - pageMargin
	setFillColor(pdf, rgb{230, 230, 230})
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.RoundedRect(headerBoxX, 8, headerBoxW, 15, 2, "1234", "FD")

	headerCenterX := headerBoxX + headerBoxW/2
	pdf.SetFont("Helvetica", "B", 11)
	textCentered(pdf, headerCenterX, 13, "INTERVENTI TECNICI")
	textCentered(pdf, headerCenterX, 18, "ASSISTENZA - MANUTENZIONE")
	pdf.SetFont("Helvetica", "", 8)
	textCentered(pdf, headerCenterX, 22, "MT-INT-23-01")

	// Date line and client box.
	const infoY = 28.0
	pdf.SetLineWidth(0.1)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(pageMargin, infoY+8, "DATA :")
	pdf.Line(pageMargin+15, infoY+8, 70, infoY+8)
	pdf.Text(pageMargin+18, infoY+7, date)

	client := ""
	if len(reports) > 0 {
		client = reports[0].Location
	}
	const clientBoxX = 100.0
	clientBoxW := pageWidth - clientBoxX - pageMargin
	pdf.Rect(clientBoxX, infoY, clientBoxW, 20, "D")
	pdf.Text(clientBoxX+2, infoY+5, "CLIENTE:")
	pdf.Line(clientBoxX+20, infoY+5, pageWidth-pageMargin-2, infoY+5)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(clientBoxX+22, infoY+4, tr(client))
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(clientBoxX+2, infoY+12, "INDIRIZZO:")
	pdf.Line(clientBoxX+22, infoY+12, pageWidth-pageMargin-2, infoY+12)
	pdf.Line(clientBoxX+22, infoY+18, pageWidth-pageMargin-2, infoY+18)

	// Technician section: one line for the technician with the summed
	// extraordinary hours, a second blank line for a colleague.
	const techY = 52.0
	pdf.Text(pageMargin, techY, "PERSONALE TECNICO:")
	totalHours := aggregate.SumInterventionHours(reports)

	pdf.Text(pageMargin, techY+6, "Sig. :")
	pdf.Line(pageMargin+12, techY+6, 80, techY+6)
	pdf.Text(pageMargin+15, techY+5, tr(technician))
	pdf.Text(82, techY+6, "Ore:")
	pdf.Line(90, techY+6, 105, techY+6)
	pdf.Text(92, techY+5, formatHoursValue(totalHours))

	pdf.Text(pageMargin, techY+12, "Sig. :")
	pdf.Line(pageMargin+12, techY+12, 80, techY+12)
	pdf.Text(82, techY+12, "Ore:")
	pdf.Line(90, techY+12, 105, techY+12)

	pdf.Text(115, techY+6, "MANUTENZIONE ORDINARIA   :")
	pdf.Text(115, techY+12, "MANUTENZIONE STRAORDINARIA :")

	// Description section, one entry per report, wrapped to the print
	// width, padded to the minimum line count and hard-capped.
	const descHeaderY = 75.0
	sectionBar(pdf, descHeaderY, "DESCRIZIONE LAVORI ESEGUITI")

	pdf.SetFont("Helvetica", "", 9)
	lines := make([]string, 0, descriptionMinLines)
	for _, r := range reports {
		entry := r.Description
		if r.Location != "" {
			entry = fmt.Sprintf("[%s] %s", r.Location, r.Description)
		}
		lines = append(lines, wrapLines(pdf, tr, entry, printWidth)...)
	}
	for len(lines) < descriptionMinLines {
		lines = append(lines, "")
	}
	if len(lines) > descriptionMaxLines {
		lines = lines[:descriptionMaxLines]
	}

	y := descHeaderY + 5
	for _, line := range lines {
		if line != "" {
			pdf.Text(pageMargin+1.5, y+descriptionLineHeight-1.5, line)
		}
		pdf.Line(pageMargin, y+descriptionLineHeight, pageWidth-pageMargin, y+descriptionLineHeight)
		y += descriptionLineHeight
	}

	pdf.Text(pageMargin, y+5, "NOTE:")
	pdf.Rect(pageMargin, y, printWidth, 6, "D")
	y += 10

	// Materials section stays empty: nothing feeds it, the technician
	// fills it in by hand.
	sectionBar(pdf, y, "MATERIALI IMPIEGATI")
	y += 5
	for i := 0; i < 3; i++ {
		pdf.Line(pageMargin, y+descriptionLineHeight, pageWidth-pageMargin, y+descriptionLineHeight)
		y += descriptionLineHeight
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(pageMargin, y+5, "NOTE:")
	pdf.Rect(pageMargin, y, printWidth, 6, "D")

	// Signature boxes and the PROD-IT approval box sit at fixed
	// bottom-of-page coordinates regardless of how long the form ran.
	const footerY = 255.0
	pdf.Rect(pageMargin, footerY, printWidth, 15, "D")
	pdf.Line(pageWidth/2, footerY, pageWidth/2, footerY+15)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(pageMargin+25, footerY+13, "FIRMA DEL TECNICO")
	pdf.Text(pageWidth/2+25, footerY+13, "FIRMA DEL CLIENTE")

	const prodBoxW = 83.0
	prodY := footerY + 18
	prodX := (pageWidth - prodBoxW) / 2
	pdf.Rect(prodX, prodY, prodBoxW, 10, "D")
	setFillColor(pdf, barGrey)
	pdf.Rect(prodX, prodY, prodBoxW, 4, "F")
	pdf.Rect(prodX, prodY, prodBoxW, 4, "D")
	pdf.SetFont("Helvetica", "B", 8)
	textCentered(pdf, pageWidth/2, prodY+3, "PROD-IT")
	pdf.Line(prodX+31, prodY+4, prodX+31, prodY+10)
	pdf.SetFont("Helvetica", "", 7)
	textCentered(pdf, prodX+15, prodY+7, "Data")
	textCentered(pdf, prodX+57, prodY+7, "Firma")
}

func textCentered(pdf *gofpdf.Fpdf, x, y float64, text string) {
	pdf.Text(x-pdf.GetStringWidth(text)/2, y, text)
}
