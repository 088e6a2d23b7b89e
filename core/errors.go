package core

import (
	"errors"
	"fmt"
)

// ErrTapeFault is returned when a run without bounds checking touches a cell
// outside the tape.
var ErrTapeFault = errors.New("tape access out of range")

// BoundsError reports a cursor that left the tape while bounds checking was
// enabled. The run stops before the cell at Cursor is accessed.
type BoundsError struct {
	Cursor   int
	TapeSize int
	Inst     int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf(
		"tape pointer out of bounds: cursor %d outside [0, %d) at instruction %d",
		e.Cursor, e.TapeSize, e.Inst)
}
