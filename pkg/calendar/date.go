// Package calendar provides pure date arithmetic and grid generation for the
// date picker. Dates carry no time of day or location.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// LayoutISO is the text form dates are read from and written to.
const LayoutISO = "2006-01-02"

// Date is a calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the date for the provided components, normalizing overflow the
// way time.Date does (e.g. April 31 becomes May 1).
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime drops the time of day from t, keeping its calendar day in t's
// location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current day according to clock. A nil clock uses
// time.Now.
func Today(clock func() time.Time) Date {
	if clock == nil {
		clock = time.Now
	}
	return FromTime(clock())
}

// ParseDate reads an ISO yyyy-mm-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(LayoutISO, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("calendar: parse %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Time returns midnight of d in loc. A nil loc uses UTC.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String renders d as yyyy-mm-dd.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Equal compares year, month and day.
func (d Date) Equal(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// SameMonth reports whether d and o fall in the same month of the same year.
func (d Date) SameMonth(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Weekday returns the day of the week d falls on.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// Valid reports whether the day exists in its month.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysIn(d.Year, d.Month)
}

// DaysIn returns the number of days in a month.
func DaysIn(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// StartOfMonth returns the first day of d's month.
func StartOfMonth(d Date) Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// EndOfMonth returns the last day of d's month.
func EndOfMonth(d Date) Date {
	return Date{Year: d.Year, Month: d.Month, Day: DaysIn(d.Year, d.Month)}
}

// AddDays moves d by n days, carrying across months and years.
func AddDays(d Date, n int) Date {
	return FromTime(d.Time(time.UTC).AddDate(0, 0, n))
}

// AddMonths moves d by n months. The day is clamped to the length of the
// target month, so January 31 plus one month is the last day of February.
func AddMonths(d Date, n int) Date {
	total := d.Year*12 + int(d.Month-1) + n
	year := total / 12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	target := Date{Year: year, Month: time.Month(month + 1), Day: d.Day}
	if last := DaysIn(target.Year, target.Month); target.Day > last {
		target.Day = last
	}
	return target
}

// AddYears moves d by n years, clamping February 29 to February 28 in
// common years.
func AddYears(d Date, n int) Date {
	return AddMonths(d, n*12)
}

// WeekdayOffset returns the column of d in a Monday-first week: Monday is 0
// and Sunday is 6. Applied to the first of a month it is the count of leading
// cells taken from the previous month.
func WeekdayOffset(d Date) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}
