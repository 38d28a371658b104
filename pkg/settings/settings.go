// Package settings holds the appearance configuration and its small
// mutate-and-persist unit. Its lifecycle is independent of notes.
package settings

// Theme is the selected color theme.
type Theme int

const (
	ThemeKanagawaDragon Theme = iota
	ThemeNord
	ThemeSolarizedLight
	ThemeSolarizedDark
)

// Themes lists every theme in picker order.
var Themes = []Theme{ThemeKanagawaDragon, ThemeNord, ThemeSolarizedLight, ThemeSolarizedDark}

// Name returns the identifier used in the settings file.
func (t Theme) Name() string {
	switch t {
	case ThemeNord:
		return "Nord"
	case ThemeSolarizedLight:
		return "SolarizedLight"
	case ThemeSolarizedDark:
		return "SolarizedDark"
	default:
		return "KanagawaDragon"
	}
}

// String returns the human label.
func (t Theme) String() string {
	switch t {
	case ThemeNord:
		return "Nord"
	case ThemeSolarizedLight:
		return "Solarized Light"
	case ThemeSolarizedDark:
		return "Solarized Dark"
	default:
		return "Kanagawa Dragon"
	}
}

// Dark reports whether the theme uses a dark background.
func (t Theme) Dark() bool {
	return t != ThemeSolarizedLight
}

// Font is the selected font family.
type Font int

const (
	FontSans Font = iota
	FontSerif
	FontMonospace
)

// Fonts lists every font in picker order.
var Fonts = []Font{FontSans, FontSerif, FontMonospace}

// Name returns the identifier used in the settings file.
func (f Font) Name() string {
	switch f {
	case FontSerif:
		return "Serif"
	case FontMonospace:
		return "Monospace"
	default:
		return "Sans"
	}
}

func (f Font) String() string { return f.Name() }

// Family returns the concrete family name handed to the renderer, or ""
// for the platform default.
func (f Font) Family() string {
	switch f {
	case FontSerif:
		return "Times New Roman"
	case FontMonospace:
		return "Fira Code"
	default:
		return ""
	}
}

// Font size bounds.
const (
	MinFontSize     = 10
	MaxFontSize     = 48
	DefaultFontSize = 16
)

// Settings is the appearance configuration.
type Settings struct {
	Theme    Theme
	Font     Font
	FontSize int
}

// Defaults returns the settings used on first run or when the file is unreadable.
func Defaults() Settings {
	return Settings{
		Theme:    ThemeKanagawaDragon,
		Font:     FontSans,
		FontSize: DefaultFontSize,
	}
}

// ClampFontSize forces size into [MinFontSize, MaxFontSize].
func ClampFontSize(size int) int {
	return min(max(size, MinFontSize), MaxFontSize)
}

// ParseTheme maps a file name to a Theme. Unknown names yield the default theme and false.
func ParseTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name() == name {
			return t, true
		}
	}
	return ThemeKanagawaDragon, false
}

// ParseFont maps a file name to a Font. Unknown names yield the default font and false.
func ParseFont(name string) (Font, bool) {
	for _, f := range Fonts {
		if f.Name() == name {
			return f, true
		}
	}
	return FontSans, false
}
