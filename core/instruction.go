package core

import "fmt"

// OpKind selects the behavior of an instruction record.
type OpKind uint8

// The closed set of instruction variants.
const (
	OpEnd OpKind = iota
	OpPlus
	OpMinus
	OpInc
	OpLeft
	OpRight
	OpShift
	OpIncShift
	OpOpen
	OpClose
	OpCloseNop
	OpIncShiftOpen
	OpIncShiftClose
	OpZero
	OpInput
	OpOutput
)

var opNames = [...]string{
	OpEnd:           "END",
	OpPlus:          "PLUS",
	OpMinus:         "MINUS",
	OpInc:           "INC",
	OpLeft:          "LEFT",
	OpRight:         "RIGHT",
	OpShift:         "SHIFT",
	OpIncShift:      "INC_SHIFT",
	OpOpen:          "OPEN",
	OpClose:         "CLOSE",
	OpCloseNop:      "CLOSE_NOP",
	OpIncShiftOpen:  "INC_SHIFT_OPEN",
	OpIncShiftClose: "INC_SHIFT_CLOSE",
	OpZero:          "ZERO",
	OpInput:         "INPUT",
	OpOutput:        "OUTPUT",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}

	return fmt.Sprintf("OpKind(%d)", uint8(k))
}

// IsOpen reports whether k is a loop-entry test.
func (k OpKind) IsOpen() bool {
	return k == OpOpen || k == OpIncShiftOpen
}

// IsClose reports whether k ends a loop body.
func (k OpKind) IsClose() bool {
	return k == OpClose || k == OpCloseNop || k == OpIncShiftClose
}

// MovesCursor reports whether k changes the cursor.
func (k OpKind) MovesCursor() bool {
	switch k {
	case OpLeft, OpRight, OpShift, OpIncShift,
		OpIncShiftOpen, OpIncShiftClose:
		return true
	default:
		return false
	}
}

// NoInst is the null link between instruction records.
const NoInst = -1

// Inst is one record of a compiled program. Next and Branch are indices into
// the owning Program.
type Inst struct {
	Op OpKind

	// Inc is added to the current cell, wrapping modulo 256.
	Inc uint8

	// Shift is added to the cursor.
	Shift int

	Next   int
	Branch int
}

// SignedInc returns Inc as a signed delta.
func (i Inst) SignedInc() int {
	return int(int8(i.Inc))
}

func (i Inst) String() string {
	switch i.Op {
	case OpInc:
		return fmt.Sprintf("%s(%d)", i.Op, i.SignedInc())
	case OpShift:
		return fmt.Sprintf("%s(%d)", i.Op, i.Shift)
	case OpIncShift, OpIncShiftOpen, OpIncShiftClose:
		return fmt.Sprintf("%s(%d,%d)", i.Op, i.SignedInc(), i.Shift)
	default:
		return i.Op.String()
	}
}
