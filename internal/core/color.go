package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color style.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Cell is a single screen position: a rune, its color, and whether it is
// drawn highlighted (reverse video in the terminal).
type Cell struct {
	Rune      rune
	Color     Color
	Highlight bool
}

// blankCell is what Clear writes into every position.
var blankCell = Cell{Rune: ' '}
