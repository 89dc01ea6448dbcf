package datepicker

import (
	"time"

	"tableflip.dev/widgets/pkg/calendar"
)

// Formatter produces the labels shown by the picker.
type Formatter interface {
	// MonthYear labels the toggle control in month view.
	MonthYear(d calendar.Date) string
	// Month labels a cell of the year view.
	Month(d calendar.Date) string
	// Weekday labels a column of the month view.
	Weekday(wd time.Weekday) string
	// Long labels the today control.
	Long(d calendar.Date) string
}

// DefaultFormatter formats with English Go time layouts.
type DefaultFormatter struct{}

func (DefaultFormatter) MonthYear(d calendar.Date) string {
	return d.Time(time.UTC).Format("January 2006")
}

func (DefaultFormatter) Month(d calendar.Date) string {
	return d.Time(time.UTC).Format("Jan")
}

func (DefaultFormatter) Weekday(wd time.Weekday) string {
	return wd.String()[:2]
}

func (DefaultFormatter) Long(d calendar.Date) string {
	return d.Time(time.UTC).Format("Mon Jan 2, 2006")
}

// weekdays lists the month view columns, Monday first.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}
