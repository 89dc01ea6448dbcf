package keynav

import "tableflip.dev/widgets/pkg/filter"

// Target is the focus position within a combobox: its text input or one of
// its items.
type Target struct {
	Input bool
	Key   string
	Order int
}

// InputTarget focuses the text input.
func InputTarget() Target { return Target{Input: true} }

// ItemTarget focuses item.
func ItemTarget(item filter.Item) Target {
	return Target{Key: item.Key, Order: item.Order}
}

// Linear walks the visible items of a combobox. Visible must be ordered by
// Order.
type Linear struct {
	Visible []filter.Item
}

// Move resolves intent from the current focus. Only Up and Down move; every
// other intent, and a move with no candidate, returns from unchanged.
func (l Linear) Move(from Target, intent Intent) Target {
	switch intent {
	case IntentDown:
		if from.Input {
			if len(l.Visible) == 0 {
				return from
			}
			return ItemTarget(l.Visible[0])
		}
		for _, it := range l.Visible {
			if it.Order > from.Order {
				return ItemTarget(it)
			}
		}
		return from
	case IntentUp:
		if from.Input {
			return from
		}
		for i := len(l.Visible) - 1; i >= 0; i-- {
			if l.Visible[i].Order < from.Order {
				return ItemTarget(l.Visible[i])
			}
		}
		return InputTarget()
	}
	return from
}

// Contains reports whether t is the input or a visible item.
func (l Linear) Contains(t Target) bool {
	if t.Input {
		return true
	}
	for _, it := range l.Visible {
		if it.Key == t.Key {
			return true
		}
	}
	return false
}
