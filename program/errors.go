package program

import "fmt"

// SyntaxErrorKind tells which bracket rule a source violates.
type SyntaxErrorKind int

const (
	// UnmatchedClose is a ']' with no open loop.
	UnmatchedClose SyntaxErrorKind = iota
	// UnmatchedOpen means loops are still open at the end of the source.
	UnmatchedOpen
)

func (k SyntaxErrorKind) String() string {
	switch k {
	case UnmatchedClose:
		return "UnmatchedClose"
	case UnmatchedOpen:
		return "UnmatchedOpen"
	default:
		return fmt.Sprintf("SyntaxErrorKind(%d)", int(k))
	}
}

// SyntaxError reports unbalanced brackets. Line and Col are set for
// UnmatchedClose; Missing is set for UnmatchedOpen.
type SyntaxError struct {
	Kind    SyntaxErrorKind
	Line    int
	Col     int
	Missing int
}

func (e *SyntaxError) Error() string {
	if e.Kind == UnmatchedOpen {
		return fmt.Sprintf(
			"opening bracket with no closing bracket (need %d at end)",
			e.Missing)
	}

	return fmt.Sprintf(
		"closing bracket with no opening bracket at line %d col %d",
		e.Line, e.Col)
}
