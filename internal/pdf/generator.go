package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/cfs-facility/rapportini-service/internal/aggregate"
	"github.com/cfs-facility/rapportini-service/internal/model"
)

// Generator composes the per-day documents. It is stateless apart from the
// clock used for the PDF creation date; pin the clock and output becomes
// byte-identical for identical input.
type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorAt returns a Generator whose documents carry the given
// creation date.
func NewGeneratorAt(created time.Time) *Generator {
	return &Generator{now: func() time.Time { return created }}
}

// ComposeDay builds the Summary Document for one technician/day, plus the
// Extraordinary Document when the day has at least one extraordinary
// report. A day with zero reports still yields the summary with an
// all-blank table. A failure on the second document does not invalidate
// the first: everything produced so far is returned alongside the error.
func (g *Generator) ComposeDay(reports []model.Report, date, technicianName string) ([]model.GeneratedFile, error) {
	files := make([]model.GeneratedFile, 0, 2)

	content, err := g.render(func(pdf *gofpdf.Fpdf, tr func(string) string) {
		buildSummary(pdf, tr, reports, date, technicianName)
	})
	if err != nil {
		return nil, fmt.Errorf("summary document: %w", err)
	}
	files = append(files, model.GeneratedFile{
		FileName: DocumentFileName("Rapportino", technicianName, date),
		Content:  content,
	})

	_, extraordinary := aggregate.SplitExtraordinary(reports)
	if len(extraordinary) > 0 {
		content, err := g.render(func(pdf *gofpdf.Fpdf, tr func(string) string) {
			buildExtraordinary(pdf, tr, extraordinary, date, technicianName)
		})
		if err != nil {
			return files, fmt.Errorf("extraordinary document: %w", err)
		}
		files = append(files, model.GeneratedFile{
			FileName: DocumentFileName("Straordinari", technicianName, date),
			Content:  content,
		})
	}

	return files, nil
}

func (g *Generator) render(build func(*gofpdf.Fpdf, func(string) string)) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Sorted resource dictionaries plus a pinned creation date make output
	// byte-identical for identical input.
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(g.now())
	pdf.SetModificationDate(g.now())
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	build(pdf, tr)

	if pdf.Err() {
		return nil, pdf.Error()
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DocumentFileName builds the deterministic artifact name, e.g.
// "Rapportino_Mario_Rossi_2024-05-01.pdf".
func DocumentFileName(kind, technician, date string) string {
	name := strings.Join(strings.Fields(technician), "_")
	return fmt.Sprintf("%s_%s_%s.pdf", kind, name, date)
}
