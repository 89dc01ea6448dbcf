package selection

import (
	"tableflip.dev/widgets/pkg/filter"
)

// Combo is the filter and active-item state of a combobox.
type Combo struct {
	query   string
	visible []filter.Item
	active  string
	has     bool
}

// Query returns the current filter text.
func (c *Combo) Query() string { return c.query }

// Visible returns the items passing the filter, ordered by Order.
func (c *Combo) Visible() []filter.Item {
	return append([]filter.Item(nil), c.visible...)
}

// VisibleKeys returns the keys of the visible items.
func (c *Combo) VisibleKeys() map[string]struct{} {
	return filter.Keys(c.visible)
}

// IsVisible reports whether key passes the current filter.
func (c *Combo) IsVisible(key string) bool {
	for _, it := range c.visible {
		if it.Key == key {
			return true
		}
	}
	return false
}

// Active returns the highlighted item key.
func (c *Combo) Active() (string, bool) { return c.active, c.has }

// SetQuery replaces the filter text. Any active item is cleared before the
// visible set is rebuilt; a query equal to exactly one visible label then
// activates that item.
func (c *Combo) SetQuery(query string, items []filter.Item) {
	c.query = query
	c.Clear()
	c.refilter(items)
	c.autoActivate()
}

// Recompute rebuilds the visible set after the item list changed without
// a query change. The active item survives only while it still exists and
// is visible; otherwise an exact match may activate a replacement.
func (c *Combo) Recompute(items []filter.Item) {
	c.refilter(items)
	if c.has && !c.IsVisible(c.active) {
		c.Clear()
	}
	if !c.has {
		c.autoActivate()
	}
}

// Activate highlights key. Keys that are not visible are ignored.
func (c *Combo) Activate(key string) bool {
	if !c.IsVisible(key) {
		return false
	}
	c.active = key
	c.has = true
	return true
}

// Clear drops the active item.
func (c *Combo) Clear() {
	c.active = ""
	c.has = false
}

func (c *Combo) refilter(items []filter.Item) {
	visible := filter.Filter(items, c.query)
	filter.SortByOrder(visible)
	c.visible = visible
}

func (c *Combo) autoActivate() {
	if exact := filter.FindExact(c.visible, c.query); len(exact) == 1 {
		c.active = exact[0].Key
		c.has = true
	}
}
