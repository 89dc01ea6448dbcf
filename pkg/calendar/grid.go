package calendar

import "time"

const (
	// MonthColumns is the width of the day grid (one week per row).
	MonthColumns = 7
	// MonthRows is the fixed number of week rows in the day grid.
	MonthRows = 6
	// MonthCells is the number of cells in every day grid.
	MonthCells = MonthColumns * MonthRows

	// YearColumns is the width of the month grid.
	YearColumns = 3
	// YearRows is the number of rows in the month grid.
	YearRows = 4
	// YearCells is the number of cells in every month grid.
	YearCells = YearColumns * YearRows
)

// Cell is a single grid position.
type Cell struct {
	Date           Date
	InCurrentMonth bool
	IsToday        bool
	IsSelected     bool
}

// BuildMonthGrid lays out the month containing reference as 6 weeks of 7
// days starting on Monday. Cells before the first and after the last day of
// the month come from the neighbouring months and have InCurrentMonth unset.
// A nil selected marks no cell.
func BuildMonthGrid(reference Date, selected *Date, today Date) []Cell {
	first := StartOfMonth(reference)
	leading := WeekdayOffset(first)
	days := DaysIn(first.Year, first.Month)

	cells := make([]Cell, 0, MonthCells)
	start := AddDays(first, -leading)
	for i := 0; i < MonthCells; i++ {
		d := AddDays(start, i)
		cells = append(cells, Cell{
			Date:           d,
			InCurrentMonth: i >= leading && i < leading+days,
			IsToday:        d.Equal(today),
			IsSelected:     selected != nil && d.Equal(*selected),
		})
	}
	return cells
}

// LeadingCells is the number of previous-month cells in reference's grid.
func LeadingCells(reference Date) int {
	return WeekdayOffset(StartOfMonth(reference))
}

// TrailingCells is the number of next-month cells in reference's grid.
func TrailingCells(reference Date) int {
	return MonthCells - LeadingCells(reference) - DaysIn(reference.Year, reference.Month)
}

// BuildYearGrid lays out the twelve months of reference's year as 4 rows of
// 3. Each cell holds the first day of its month; IsToday and IsSelected mark
// the months containing today and the selection.
func BuildYearGrid(reference Date, selected *Date, today Date) []Cell {
	cells := make([]Cell, 0, YearCells)
	for m := time.January; m <= time.December; m++ {
		d := Date{Year: reference.Year, Month: m, Day: 1}
		cells = append(cells, Cell{
			Date:           d,
			InCurrentMonth: true,
			IsToday:        d.SameMonth(today),
			IsSelected:     selected != nil && d.SameMonth(*selected),
		})
	}
	return cells
}

// IndexOf returns the position of d in cells, or -1.
func IndexOf(cells []Cell, d Date) int {
	for i, c := range cells {
		if c.Date.Equal(d) {
			return i
		}
	}
	return -1
}
