// Package selection tracks which item or date a widget has chosen and
// whether the widget is showing its list.
package selection

// CloseReason says why a widget closed.
type CloseReason string

const (
	// CloseEscape is an Escape key press.
	CloseEscape CloseReason = "escape"
	// CloseTab is focus leaving through Tab.
	CloseTab CloseReason = "tab"
	// CloseOutside is an interaction outside the widget.
	CloseOutside CloseReason = "outside"
	// CloseCommit follows a committed selection.
	CloseCommit CloseReason = "commit"
)

// Open is the open/closed state of a widget.
type Open struct {
	open       bool
	lastReason CloseReason
}

// IsOpen reports whether the widget shows its list or grid.
func (o *Open) IsOpen() bool { return o.open }

// LastClose returns the reason of the most recent close.
func (o *Open) LastClose() CloseReason { return o.lastReason }

// Open opens the widget and reports whether that changed anything.
func (o *Open) Open() bool {
	if o.open {
		return false
	}
	o.open = true
	return true
}

// Close closes the widget and reports whether that changed anything.
func (o *Open) Close(reason CloseReason) bool {
	if !o.open {
		return false
	}
	o.open = false
	o.lastReason = reason
	return true
}
