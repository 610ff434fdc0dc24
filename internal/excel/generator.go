package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cfs-facility/rapportini-service/internal/aggregate"
	"github.com/cfs-facility/rapportini-service/internal/model"
)

// Generator builds the monthly recap workbook: a summary sheet of per-day
// hour totals plus a detail sheet listing every intervention.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(technician, month string, reports []model.Report) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Riepilogo"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, technician, month, reports); err != nil {
		return nil, err
	}

	detailSheet := "Interventi"
	if _, err := file.NewSheet(detailSheet); err != nil {
		return nil, err
	}
	if err := g.writeDetail(file, detailSheet, reports); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet, technician, month string, reports []model.Report) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	groups := aggregate.GroupByDate(reports)
	dates := aggregate.SortedDates(groups)

	monthTotals := aggregate.ComputeDayTotals(reports)

	set("A1", "Tecnico")
	set("B1", technician)
	set("A2", "Mese")
	set("B2", month)
	set("A3", "Interventi")
	set("B3", len(reports))
	set("A4", "Ore totali")
	set("B4", formatHours(monthTotals.MainTableHours))
	set("A5", "Ore int. reperibilita")
	set("B5", formatHours(monthTotals.OnCallInterventionHours))
	set("A6", "Ore viaggio reperibilita")
	set("B6", formatHours(monthTotals.OnCallTravelHours))

	tableRow := 8
	set(fmt.Sprintf("A%d", tableRow), "Data")
	set(fmt.Sprintf("B%d", tableRow), "Interventi")
	set(fmt.Sprintf("C%d", tableRow), "Ore")
	set(fmt.Sprintf("D%d", tableRow), "Ore int. rep.")
	set(fmt.Sprintf("E%d", tableRow), "Ore viag. rep.")

	for i, date := range dates {
		totals := aggregate.ComputeDayTotals(groups[date])
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), date)
		set(fmt.Sprintf("B%d", row), len(groups[date]))
		set(fmt.Sprintf("C%d", row), formatHours(totals.MainTableHours))
		set(fmt.Sprintf("D%d", row), formatHours(totals.OnCallInterventionHours))
		set(fmt.Sprintf("E%d", row), formatHours(totals.OnCallTravelHours))
	}

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "E", 14)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, reports []model.Report) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Data",
		"Cantiere",
		"Descrizione",
		"Tipo",
		"Ore intervento",
		"Ore viaggio",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, report := range reports {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), report.Date)
		set(fmt.Sprintf("B%d", row), report.Location)
		set(fmt.Sprintf("C%d", row), report.Description)
		set(fmt.Sprintf("D%d", row), workTypeLabel(report.WorkType))
		set(fmt.Sprintf("E%d", row), formatHours(report.InterventionHours))
		set(fmt.Sprintf("F%d", row), formatHours(report.TravelHours))
	}

	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "B", 28)
	_ = file.SetColWidth(sheet, "C", "C", 48)
	_ = file.SetColWidth(sheet, "D", "F", 14)
	return nil
}

func workTypeLabel(w model.WorkType) string {
	switch w {
	case model.WorkTypeOnCall:
		return "Reperibilita"
	case model.WorkTypeExtraordinary:
		return "Straordinario"
	default:
		return "Ordinario"
	}
}

func formatHours(value float64) string {
	return fmt.Sprintf("%.1f", value)
}
