package program

import (
	"fmt"
	"os"
)

// Stream is a filtered and bracket-validated instruction stream.
type Stream struct {
	// Code holds only instruction symbols.
	Code []byte

	// MaxDepth is the deepest loop nesting seen in the source. It is at
	// least 1 and bounds the bracket stack the code generator needs.
	MaxDepth int
}

// Len returns the number of symbols in the stream.
func (s Stream) Len() int {
	return len(s.Code)
}

// Filter drops every byte that is not an instruction symbol.
func Filter(src []byte) []byte {
	code := make([]byte, 0, len(src))
	for _, b := range src {
		if IsSymbol(b) {
			code = append(code, b)
		}
	}

	return code
}

// Validate checks that the brackets of src balance and returns its filtered
// form. Line and column are counted over the raw bytes, so comments and
// whitespace still move the position reported in a SyntaxError.
func Validate(src []byte) (Stream, error) {
	s := Stream{MaxDepth: 1}

	depth := 0
	line, col := 1, 0

	for _, ch := range src {
		if ch == '\n' {
			line++
			col = 0

			continue
		}
		col++

		switch ch {
		case SymOpen:
			depth++
			if depth > s.MaxDepth {
				s.MaxDepth = depth
			}
		case SymClose:
			if depth == 0 {
				return Stream{}, &SyntaxError{
					Kind: UnmatchedClose,
					Line: line,
					Col:  col,
				}
			}
			depth--
		}
	}

	if depth != 0 {
		return Stream{}, &SyntaxError{Kind: UnmatchedOpen, Missing: depth}
	}

	s.Code = Filter(src)

	return s, nil
}

// LoadFile reads and validates the source file at path.
func LoadFile(path string) (Stream, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Stream{}, fmt.Errorf("unable to open file '%s': %w", path, err)
	}

	return Validate(src)
}
