package keynav

// Region is the part of a date picker that holds focus.
type Region int

const (
	// RegionGrid is a day or month cell.
	RegionGrid Region = iota
	// RegionHeader is the month/year toggle above the grid.
	RegionHeader
	// RegionFooter is the "today" shortcut below the grid.
	RegionFooter
)

func (r Region) String() string {
	switch r {
	case RegionHeader:
		return "header"
	case RegionFooter:
		return "footer"
	}
	return "grid"
}

// GridFocus is a focus position. Index is the cell index for RegionGrid
// and the column focus left the grid from for RegionFooter.
type GridFocus struct {
	Region Region
	Index  int
}

// Cell focuses grid cell idx.
func Cell(idx int) GridFocus { return GridFocus{Region: RegionGrid, Index: idx} }

// Header focuses the toggle control.
func Header() GridFocus { return GridFocus{Region: RegionHeader} }

// Footer focuses the today control, remembering column col.
func Footer(col int) GridFocus { return GridFocus{Region: RegionFooter, Index: col} }

// Grid is a row-major grid with a header control above and a footer control
// below it.
type Grid struct {
	Columns int
	Cells   int
}

// Rows returns the number of rows.
func (g Grid) Rows() int {
	if g.Columns <= 0 {
		return 0
	}
	return (g.Cells + g.Columns - 1) / g.Columns
}

// Move resolves intent from the current focus. Left and Right stay within
// a row; Up and Down keep the column and hand focus to the header above the
// top row and to the footer below the bottom row.
func (g Grid) Move(from GridFocus, intent Intent) GridFocus {
	if g.Columns <= 0 || g.Cells <= 0 {
		return from
	}
	switch from.Region {
	case RegionHeader:
		if intent == IntentDown {
			return Cell(0)
		}
		return from
	case RegionFooter:
		if intent == IntentUp {
			return Cell(g.clamp((g.Rows()-1)*g.Columns + g.column(from.Index)))
		}
		return from
	}

	idx := g.clamp(from.Index)
	col := idx % g.Columns
	switch intent {
	case IntentLeft:
		if col > 0 {
			return Cell(idx - 1)
		}
	case IntentRight:
		if col < g.Columns-1 && idx+1 < g.Cells {
			return Cell(idx + 1)
		}
	case IntentUp:
		if idx < g.Columns {
			return Header()
		}
		return Cell(idx - g.Columns)
	case IntentDown:
		if next := idx + g.Columns; next < g.Cells {
			return Cell(next)
		}
		return Footer(col)
	}
	return Cell(idx)
}

// Contains reports whether f is a valid position of g.
func (g Grid) Contains(f GridFocus) bool {
	if f.Region != RegionGrid {
		return true
	}
	return f.Index >= 0 && f.Index < g.Cells
}

func (g Grid) column(c int) int {
	if c < 0 {
		return 0
	}
	if c >= g.Columns {
		return g.Columns - 1
	}
	return c
}

func (g Grid) clamp(idx int) int {
	if idx < 0 {
		return 0
	}
	if idx >= g.Cells {
		return g.Cells - 1
	}
	return idx
}
