package selection

import "tableflip.dev/widgets/pkg/calendar"

// Date is the committed date of a date picker.
type Date struct {
	selected calendar.Date
	has      bool
}

// Selected returns the committed date.
func (d *Date) Selected() (calendar.Date, bool) { return d.selected, d.has }

// Pointer returns the committed date or nil, as grid builders expect.
func (d *Date) Pointer() *calendar.Date {
	if !d.has {
		return nil
	}
	v := d.selected
	return &v
}

// Commit records v as the selection.
func (d *Date) Commit(v calendar.Date) {
	d.selected = v
	d.has = true
}

// Clear drops the selection.
func (d *Date) Clear() {
	d.selected = calendar.Date{}
	d.has = false
}
