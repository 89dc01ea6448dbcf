// Package filter matches combobox items against a typed query.
package filter

import (
	"sort"
	"strings"
	"unicode"
)

// Item is a single selectable option held by a widget.
type Item struct {
	// Key is the stable identifier taken from the option source.
	Key string
	// Label is the text shown to, and matched against, the user.
	Label string
	// Order is the traversal index assigned when the item was inserted.
	Order int
}

// Normalize collapses every run of whitespace to a single space and trims the
// result.
func Normalize(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// Matches reports whether the item's normalized label contains the
// normalized query, ignoring case. An empty query matches everything.
func Matches(item Item, query string) bool {
	q := strings.ToLower(Normalize(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(Normalize(item.Label)), q)
}

// Filter returns the items matching query, preserving their order.
func Filter(items []Item, query string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if Matches(it, query) {
			out = append(out, it)
		}
	}
	return out
}

// FindExact returns the items whose normalized label equals the normalized
// query. The comparison is case sensitive.
func FindExact(items []Item, query string) []Item {
	q := Normalize(query)
	if q == "" {
		return nil
	}
	var out []Item
	for _, it := range items {
		if Normalize(it.Label) == q {
			out = append(out, it)
		}
	}
	return out
}

// Keys returns the keys of items as a set.
func Keys(items []Item) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it.Key] = struct{}{}
	}
	return set
}

// SortByOrder sorts items by their traversal index.
func SortByOrder(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
}
