// Package program turns raw source text into a validated stream of
// instruction symbols.
package program

// The eight instruction symbols of the tape language.
const (
	SymPlus   byte = '+'
	SymMinus  byte = '-'
	SymLeft   byte = '<'
	SymRight  byte = '>'
	SymOpen   byte = '['
	SymClose  byte = ']'
	SymInput  byte = ','
	SymOutput byte = '.'
)

var isSymbol = [256]bool{
	SymPlus:   true,
	SymMinus:  true,
	SymLeft:   true,
	SymRight:  true,
	SymOpen:   true,
	SymClose:  true,
	SymInput:  true,
	SymOutput: true,
}

// IsSymbol reports whether b is one of the eight instruction symbols.
func IsSymbol(b byte) bool {
	return isSymbol[b]
}

// IsDelta reports whether b only changes the current cell.
func IsDelta(b byte) bool {
	return b == SymPlus || b == SymMinus
}
