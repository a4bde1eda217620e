// Package report lays out and renders the single-district PDF report.
//
// The document is a flat sequence of blocks, each with a declared height.
// Paginate packs them top-down onto pages; Render draws the packed pages.
package report

// Canvas is the drawing surface a block writes to. *fpdf.Fpdf satisfies it.
type Canvas interface {
	SetFont(family, style string, size float64)
	Text(x, y float64, text string)
}

// Block is one unit of content. Height is the vertical advance from this
// block's baseline to the next one.
type Block struct {
	Height float64
	Draw   func(c Canvas, x, y float64)
}

// Placed is a block positioned on a page at baseline Y.
type Placed struct {
	Block
	Y float64
}

// Geometry describes the usable area of a page, measured in points from the
// top-left corner.
type Geometry struct {
	Width  float64
	Height float64
	Left   float64
	Top    float64 // baseline of the first block on a page
	Bottom float64 // no block is placed with its baseline below this
}

const (
	a4Width  = 595.28
	a4Height = 841.89
)

// A4 returns portrait A4 geometry: content starts 800pt above the page
// bottom and stops at a 50pt bottom margin.
func A4() Geometry {
	return Geometry{
		Width:  a4Width,
		Height: a4Height,
		Left:   50,
		Top:    a4Height - 800,
		Bottom: a4Height - 50,
	}
}

// Paginate assigns every block to a page. A block whose baseline would fall
// below the bottom margin starts a new page at the top margin. The result
// always has at least one page.
func Paginate(blocks []Block, g Geometry) [][]Placed {
	pages := [][]Placed{{}}
	cursor := g.Top

	for _, b := range blocks {
		if cursor > g.Bottom && len(pages[len(pages)-1]) > 0 {
			pages = append(pages, []Placed{})
			cursor = g.Top
		}
		last := len(pages) - 1
		pages[last] = append(pages[last], Placed{Block: b, Y: cursor})
		cursor += b.Height
	}

	return pages
}
