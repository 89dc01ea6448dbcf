package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Theme centralizes Lip Gloss styles for the widgets.
type Theme struct {
	Input      InputTheme
	Combobox   ComboboxTheme
	DatePicker DatePickerTheme
	Panel      PanelTheme
}

// InputTheme styles the text field shared by both widgets.
type InputTheme struct {
	Frame   lipgloss.Style
	Focused lipgloss.Style
	Invalid lipgloss.Style
	Loading lipgloss.Style
	Caret   lipgloss.Style
}

// ComboboxTheme styles the dropdown item list.
type ComboboxTheme struct {
	Frame   lipgloss.Style
	Item    lipgloss.Style
	Active  lipgloss.Style
	Focused lipgloss.Style
	Empty   lipgloss.Style
}

// DatePickerTheme styles the calendar dropdown.
type DatePickerTheme struct {
	Frame    lipgloss.Style
	Header   lipgloss.Style
	Control  lipgloss.Style
	Focused  lipgloss.Style
	Weekday  lipgloss.Style
	Day      lipgloss.Style
	Overflow lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	Footer   lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// Palette holds the colors a theme is built from, as hex strings.
type Palette struct {
	Accent   string
	Muted    string
	Border   string
	Text     string
	Control  string
	Weekday  string
	Selected string
	Invalid  string
}

// DarkPalette suits terminals with a dark background.
func DarkPalette() Palette {
	return Palette{
		Accent:   "#ff87d7",
		Muted:    "#808080",
		Border:   "#585858",
		Text:     "#ffffff",
		Control:  "#a8a8a8",
		Weekday:  "#626262",
		Selected: "#5f5fff",
		Invalid:  "#ff5f5f",
	}
}

// LightPalette mirrors the lightness of DarkPalette so the same hues stay
// readable on a light background.
func LightPalette() Palette {
	d := DarkPalette()
	return Palette{
		Accent:   mirror(d.Accent),
		Muted:    mirror(d.Muted),
		Border:   mirror(d.Border),
		Text:     mirror(d.Text),
		Control:  mirror(d.Control),
		Weekday:  mirror(d.Weekday),
		Selected: d.Selected,
		Invalid:  mirror(d.Invalid),
	}
}

func mirror(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	l, a, b := c.Lab()
	return colorful.Lab(1-l, a, b).Clamped().Hex()
}

// Auto picks a theme for the terminal on stdout: Plain without color
// support, otherwise a dark or light theme to match the background.
func Auto() Theme {
	if termenv.EnvColorProfile() == termenv.Ascii {
		return Plain()
	}
	if termenv.HasDarkBackground() {
		return Default()
	}
	return FromPalette(LightPalette())
}

// Default returns the built-in dark theme used across the widgets.
func Default() Theme {
	return FromPalette(DarkPalette())
}

// FromPalette builds a theme from p.
func FromPalette(p Palette) Theme {
	accent := lipgloss.Color(p.Accent)
	muted := lipgloss.Color(p.Muted)
	border := lipgloss.Color(p.Border)

	focused := lipgloss.NewStyle().Reverse(true)
	dropdown := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return Theme{
		Input: InputTheme{
			Frame:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(border),
			Focused: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(accent),
			Invalid: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(p.Invalid)),
			Loading: lipgloss.NewStyle().Foreground(muted).Italic(true),
			Caret:   lipgloss.NewStyle().Foreground(muted),
		},
		Combobox: ComboboxTheme{
			Frame:   dropdown,
			Item:    lipgloss.NewStyle(),
			Active:  lipgloss.NewStyle().Bold(true).Foreground(accent),
			Focused: focused,
			Empty:   lipgloss.NewStyle().Foreground(muted).Italic(true),
		},
		DatePicker: DatePickerTheme{
			Frame:    dropdown,
			Header:   lipgloss.NewStyle().Bold(true),
			Control:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Control)),
			Focused:  focused,
			Weekday:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Weekday)).Bold(true),
			Day:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)),
			Overflow: lipgloss.NewStyle().Foreground(muted),
			Today:    lipgloss.NewStyle().Underline(true),
			Selected: lipgloss.NewStyle().Background(lipgloss.Color(p.Selected)).Foreground(lipgloss.Color("#000000")),
			Footer:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Control)),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true).Foreground(accent),
			Body:  lipgloss.NewStyle(),
		},
	}
}

// Plain returns a theme without colors or borders, for tests and dumb
// terminals.
func Plain() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Input:      InputTheme{Frame: s, Focused: s, Invalid: s, Loading: s, Caret: s},
		Combobox:   ComboboxTheme{Frame: s, Item: s, Active: s, Focused: s, Empty: s},
		DatePicker: DatePickerTheme{Frame: s, Header: s, Control: s, Focused: s, Weekday: s, Day: s, Overflow: s, Today: s, Selected: s, Footer: s},
		Panel:      PanelTheme{Frame: s, Title: s, Body: s},
	}
}
