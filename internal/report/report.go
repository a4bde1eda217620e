package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"mgnrega/internal/core"
)

// ContentType is the media type of rendered reports.
const ContentType = "application/pdf"

const (
	fontFamily    = "Helvetica"
	titleSize     = 16
	summarySize   = 11
	trendSize     = 10
	trendIndent   = 10
	titleAdvance  = 20
	summaryLine   = 15
	sectionGap    = 20
	trendLineStep = 12
)

// Filename returns the attachment name for a district's report.
func Filename(district string) string {
	return "MGNREGA_" + district + "_report.pdf"
}

// Result describes a rendered document.
type Result struct {
	Pages int
	Lines int
}

// Build turns a district report into layout blocks: a title, six summary
// lines, the trend header and one line per monthly record.
func Build(r core.DistrictReport, tr func(string) string) []Block {
	if tr == nil {
		tr = func(s string) string { return s }
	}
	s := r.Snapshot

	blocks := []Block{
		textBlock(titleAdvance, "B", titleSize, 0, tr("MGNREGA Report - "+s.District)),
	}

	summary := []string{
		"Latest Month: " + s.Month + " " + strconv.Itoa(s.Year),
		"Total Persondays: " + core.FormatCount(s.Persondays),
		"Total Expenditure: " + core.FormatCrores(s.Expenditure),
		"Average Wage per Person: " + core.FormatRupees(s.AvgWage),
		"Projects Completed: " + core.FormatCount(s.ProjectsCompleted),
		"Active Workers: " + core.FormatCount(s.ActiveWorkers),
	}
	for i, line := range summary {
		advance := float64(summaryLine)
		if i == len(summary)-1 {
			advance = sectionGap
		}
		blocks = append(blocks, textBlock(advance, "", summarySize, 0, tr(line)))
	}

	blocks = append(blocks, textBlock(summaryLine, "", summarySize, 0, tr("Monthly trend:")))
	for _, m := range r.Monthly {
		blocks = append(blocks, textBlock(trendLineStep, "", trendSize, trendIndent, tr(TrendLine(m))))
	}

	return blocks
}

// TrendLine formats one monthly record as a compact report line.
func TrendLine(m core.MonthlyRecord) string {
	return fmt.Sprintf("%s/%d - PD: %s, Exp: %s Cr, Projects: %s, Workers: %s",
		m.Month, m.Year,
		core.FormatCount(m.Persondays),
		core.FormatRupees(m.Expenditure),
		core.FormatCount(m.ProjectsCompleted),
		core.FormatCount(m.ActiveWorkers))
}

func textBlock(height float64, style string, size, indent float64, text string) Block {
	return Block{
		Height: height,
		Draw: func(c Canvas, x, y float64) {
			c.SetFont(fontFamily, style, size)
			c.Text(x+indent, y, text)
		},
	}
}

// Render lays out the report on A4 pages and writes the finished PDF to w.
func Render(w io.Writer, r core.DistrictReport) (Result, error) {
	g := A4()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("MGNREGA Report - "+r.Snapshot.District, true)
	pdf.SetCreator("mgnrega", true)

	pages := Paginate(Build(r, pdf.UnicodeTranslatorFromDescriptor("")), g)
	for _, page := range pages {
		pdf.AddPage()
		for _, p := range page {
			p.Draw(pdf, g.Left, p.Y)
		}
	}
	// Finalize the last page even when pagination just closed one.
	pdf.Close()

	if err := pdf.Output(w); err != nil {
		return Result{}, fmt.Errorf("write pdf: %w", err)
	}

	return Result{Pages: pdf.PageCount(), Lines: len(r.Monthly)}, nil
}
