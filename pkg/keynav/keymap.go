// Package keynav resolves directional key presses into focus targets for
// list and grid widgets.
package keynav

// Intent is what a key press asks the widget to do.
type Intent int

// Intents understood by the navigators and widgets.
const (
	IntentNone Intent = iota
	IntentUp
	IntentDown
	IntentLeft
	IntentRight
	IntentActivate
	IntentEscape
	IntentTab
	IntentBackTab
	IntentPagePrev
	IntentPageNext
)

var intentNames = map[Intent]string{
	IntentNone:     "none",
	IntentUp:       "up",
	IntentDown:     "down",
	IntentLeft:     "left",
	IntentRight:    "right",
	IntentActivate: "activate",
	IntentEscape:   "escape",
	IntentTab:      "tab",
	IntentBackTab:  "backtab",
	IntentPagePrev: "page-prev",
	IntentPageNext: "page-next",
}

func (i Intent) String() string {
	if s, ok := intentNames[i]; ok {
		return s
	}
	return "unknown"
}

// Keymap maps key names, as reported by tea.KeyMsg.String, to intents.
type Keymap map[string]Intent

// DefaultKeymap binds arrows, Enter/Space, Escape, Tab and paging keys.
func DefaultKeymap() Keymap {
	return Keymap{
		"up":        IntentUp,
		"down":      IntentDown,
		"left":      IntentLeft,
		"right":     IntentRight,
		"enter":     IntentActivate,
		"space":     IntentActivate,
		" ":         IntentActivate,
		"esc":       IntentEscape,
		"tab":       IntentTab,
		"shift+tab": IntentBackTab,
		"pgup":      IntentPagePrev,
		"pgdown":    IntentPageNext,
	}
}

// WithVim returns a copy of k that also binds hjkl and [ ] paging.
func (k Keymap) WithVim() Keymap {
	out := make(Keymap, len(k)+6)
	for key, in := range k {
		out[key] = in
	}
	out["h"] = IntentLeft
	out["j"] = IntentDown
	out["k"] = IntentUp
	out["l"] = IntentRight
	out["["] = IntentPagePrev
	out["]"] = IntentPageNext
	return out
}

// Resolve returns the intent bound to key.
func (k Keymap) Resolve(key string) Intent {
	return k[key]
}
