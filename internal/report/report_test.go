package report

import (
	"bytes"
	"strings"
	"testing"

	"mgnrega/internal/core"
)

type recordingCanvas struct {
	fonts []string
	texts []string
	xs    []float64
}

func (c *recordingCanvas) SetFont(family, style string, size float64) {
	c.fonts = append(c.fonts, family+"/"+style)
}

func (c *recordingCanvas) Text(x, y float64, text string) {
	c.texts = append(c.texts, text)
	c.xs = append(c.xs, x)
}

func sampleReport(months int) core.DistrictReport {
	r := core.DistrictReport{
		Snapshot: core.Snapshot{
			District:          "Pune",
			Month:             "March",
			Year:              2024,
			Persondays:        150000,
			Expenditure:       12.5,
			AvgWage:           285,
			ProjectsCompleted: 45,
			ActiveWorkers:     9000,
			LastUpdated:       "2024-04-01",
		},
	}
	for i := 0; i < months; i++ {
		r.Monthly = append(r.Monthly, core.MonthlyRecord{
			Month:             "March",
			Year:              2000 + i,
			Persondays:        150000,
			Expenditure:       12.5,
			ProjectsCompleted: 45,
			ActiveWorkers:     9000,
		})
	}
	return r
}

func TestBuildContent(t *testing.T) {
	blocks := Build(sampleReport(1), nil)
	if len(blocks) != 9 {
		t.Fatalf("expected 9 blocks (title, 6 summary, header, 1 trend), got %d", len(blocks))
	}

	c := &recordingCanvas{}
	for _, b := range blocks {
		b.Draw(c, 50, 0)
	}

	want := []string{
		"MGNREGA Report - Pune",
		"Latest Month: March 2024",
		"Total Persondays: 150000",
		"Total Expenditure: Rs. 12.5 Crores",
		"Average Wage per Person: Rs. 285",
		"Projects Completed: 45",
		"Active Workers: 9000",
		"Monthly trend:",
		"March/2000 - PD: 150000, Exp: Rs. 12.5 Cr, Projects: 45, Workers: 9000",
	}
	for i, w := range want {
		if c.texts[i] != w {
			t.Errorf("line %d = %q, want %q", i, c.texts[i], w)
		}
	}
	if c.fonts[0] != "Helvetica/B" || c.fonts[1] != "Helvetica/" {
		t.Errorf("unexpected fonts %v", c.fonts[:2])
	}
	if c.xs[8] != 60 {
		t.Errorf("trend lines should be indented to x=60, got %v", c.xs[8])
	}
}

func TestBuildAppliesTranslator(t *testing.T) {
	blocks := Build(sampleReport(0), strings.ToUpper)
	c := &recordingCanvas{}
	blocks[0].Draw(c, 0, 0)
	if c.texts[0] != "MGNREGA REPORT - PUNE" {
		t.Fatalf("translator not applied: %q", c.texts[0])
	}
}

func TestPaginateFirstPageCoordinates(t *testing.T) {
	g := A4()
	pages := Paginate(Build(sampleReport(1), nil), g)
	if len(pages) != 1 {
		t.Fatalf("expected a single page, got %d", len(pages))
	}
	page := pages[0]

	// Baselines measured from the top, mirroring 800/780/.../685/670 from the bottom.
	fromBottom := []float64{800, 780, 765, 750, 735, 720, 705, 685, 670}
	for i, want := range fromBottom {
		got := g.Height - page[i].Y
		if diff := got - want; diff > 0.001 || diff < -0.001 {
			t.Errorf("block %d at %.2f from bottom, want %.2f", i, got, want)
		}
	}
}

func TestPaginateCapacity(t *testing.T) {
	g := A4()
	const headerBlocks = 8

	tests := []struct {
		name      string
		months    int
		wantPages int
		perPage   []int // trend lines per page
	}{
		{name: "no monthly rows", months: 0, wantPages: 1, perPage: []int{0}},
		{name: "fills first page", months: 52, wantPages: 1, perPage: []int{52}},
		{name: "spills one line", months: 53, wantPages: 2, perPage: []int{52, 1}},
		{name: "fills second page", months: 52 + 63, wantPages: 2, perPage: []int{52, 63}},
		{name: "three pages", months: 52 + 63 + 10, wantPages: 3, perPage: []int{52, 63, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := Paginate(Build(sampleReport(tt.months), nil), g)
			if len(pages) != tt.wantPages {
				t.Fatalf("pages = %d, want %d", len(pages), tt.wantPages)
			}
			for i, page := range pages {
				lines := len(page)
				if i == 0 {
					lines -= headerBlocks
				}
				if lines != tt.perPage[i] {
					t.Errorf("page %d holds %d trend lines, want %d", i+1, lines, tt.perPage[i])
				}
				for _, p := range page {
					if p.Y > g.Bottom {
						t.Errorf("page %d: block at %.2f crosses bottom margin %.2f", i+1, p.Y, g.Bottom)
					}
				}
				if i > 0 && page[0].Y != g.Top {
					t.Errorf("page %d starts at %.2f, want top margin %.2f", i+1, page[0].Y, g.Top)
				}
			}
		})
	}
}

func TestPaginateOversizedBlock(t *testing.T) {
	g := Geometry{Height: 100, Top: 10, Bottom: 50}
	blocks := []Block{{Height: 500}, {Height: 500}}
	pages := Paginate(blocks, g)
	if len(pages) != 2 || len(pages[0]) != 1 || len(pages[1]) != 1 {
		t.Fatalf("each oversized block should get its own page, got %d pages", len(pages))
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name      string
		months    int
		wantPages int
	}{
		{name: "single page", months: 1, wantPages: 1},
		{name: "multi page", months: 120, wantPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			res, err := Render(&buf, sampleReport(tt.months))
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if res.Pages != tt.wantPages {
				t.Errorf("pages = %d, want %d", res.Pages, tt.wantPages)
			}
			if res.Lines != tt.months {
				t.Errorf("lines = %d, want %d", res.Lines, tt.months)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
				t.Errorf("output is not a PDF document")
			}
		})
	}
}

func TestRenderEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	res, err := Render(&buf, core.DistrictReport{Snapshot: core.Snapshot{District: "Nowhere"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Pages != 1 {
		t.Fatalf("pages = %d, want 1", res.Pages)
	}
}

func TestFilenameAndTrendLine(t *testing.T) {
	if got := Filename("Pune"); got != "MGNREGA_Pune_report.pdf" {
		t.Errorf("Filename = %q", got)
	}
	line := TrendLine(core.MonthlyRecord{Month: "April", Year: 2024, Persondays: 10.9, Expenditure: 0.25, ProjectsCompleted: 3, ActiveWorkers: 7})
	if line != "April/2024 - PD: 10, Exp: Rs. 0.25 Cr, Projects: 3, Workers: 7" {
		t.Errorf("TrendLine = %q", line)
	}
}
