package core

// Color is the label color of a note.
type Color int

const (
	ColorDefault Color = iota
	ColorCherry
	ColorEmerald
	ColorOcean
	ColorAmber
	ColorViolet
)

// Colors lists every color in picker order.
var Colors = []Color{
	ColorDefault,
	ColorCherry,
	ColorEmerald,
	ColorOcean,
	ColorAmber,
	ColorViolet,
}

// String returns the name used in the notes file.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "Default"
	case ColorCherry:
		return "Cherry"
	case ColorEmerald:
		return "Emerald"
	case ColorOcean:
		return "Ocean"
	case ColorAmber:
		return "Amber"
	case ColorViolet:
		return "Violet"
	default:
		return "Default"
	}
}

// Swatch returns the RGB hex of the color, or "" for the neutral default.
func (c Color) Swatch() string {
	switch c {
	case ColorCherry:
		return "#f56a6a"
	case ColorEmerald:
		return "#5bc07a"
	case ColorOcean:
		return "#4a90e2"
	case ColorAmber:
		return "#f1c40f"
	case ColorViolet:
		return "#b479e6"
	default:
		return ""
	}
}

// Valid reports whether c is one of the defined colors.
func (c Color) Valid() bool {
	return c >= ColorDefault && c <= ColorViolet
}

// ParseColor maps a file name back to a Color.
// Unknown names yield ColorDefault and false; callers decide whether
// that is a fallback or an error.
func ParseColor(name string) (Color, bool) {
	for _, c := range Colors {
		if c.String() == name {
			return c, true
		}
	}
	return ColorDefault, false
}
