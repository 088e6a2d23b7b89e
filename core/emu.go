package core

import (
	"errors"
	"fmt"
	"io"
)

// EOFPolicy decides what an input instruction does once input is exhausted.
type EOFPolicy int

const (
	// EOFUnchanged leaves the current cell as it is.
	EOFUnchanged EOFPolicy = iota
	// EOFValue stores MachineConfig.EOFValue in the current cell.
	EOFValue
)

func (p EOFPolicy) String() string {
	switch p {
	case EOFUnchanged:
		return "unchanged"
	case EOFValue:
		return "value"
	default:
		return fmt.Sprintf("EOFPolicy(%d)", int(p))
	}
}

// MachineConfig is fixed before a run starts and never changes during it.
type MachineConfig struct {
	TapeSize    int
	Origin      int
	EOF         EOFPolicy
	EOFValue    byte
	BoundsCheck bool
}

// DefaultTapeSize is the number of cells used when none is configured.
const DefaultTapeSize = 30000

// DefaultMachineConfig returns a bounds-checked 30000-cell tape that leaves
// cells unchanged at end of input.
func DefaultMachineConfig() MachineConfig {
	return MachineConfig{
		TapeSize:    DefaultTapeSize,
		EOF:         EOFUnchanged,
		BoundsCheck: true,
	}
}

type coreState struct {
	tape   []byte
	cursor int
	steps  uint64
}

type instEmulator struct {
	cfg MachineConfig
	in  io.ByteReader
	out io.ByteWriter
}

// RunInst executes the record at pc and returns the index of the record to
// run next, or NoInst once the terminal is reached.
func (e instEmulator) RunInst(prog *Program, pc int, state *coreState) (int, error) {
	inst := &prog.Insts[pc]
	state.steps++

	switch inst.Op {
	case OpEnd:
		return NoInst, nil
	case OpPlus:
		state.tape[state.cursor]++
	case OpMinus:
		state.tape[state.cursor]--
	case OpInc:
		state.tape[state.cursor] += inst.Inc
	case OpLeft:
		state.cursor--
		return e.checkBounds(pc, inst.Next, state)
	case OpRight:
		state.cursor++
		return e.checkBounds(pc, inst.Next, state)
	case OpShift:
		state.cursor += inst.Shift
		return e.checkBounds(pc, inst.Next, state)
	case OpIncShift:
		state.tape[state.cursor] += inst.Inc
		state.cursor += inst.Shift
		return e.checkBounds(pc, inst.Next, state)
	case OpOpen:
		return e.runOpen(inst, state), nil
	case OpClose:
		return e.runClose(inst, state), nil
	case OpCloseNop:
	case OpIncShiftOpen:
		state.tape[state.cursor] += inst.Inc
		state.cursor += inst.Shift
		if _, err := e.checkBounds(pc, inst.Next, state); err != nil {
			return NoInst, err
		}
		return e.runOpen(inst, state), nil
	case OpIncShiftClose:
		state.tape[state.cursor] += inst.Inc
		state.cursor += inst.Shift
		if _, err := e.checkBounds(pc, inst.Next, state); err != nil {
			return NoInst, err
		}
		return e.runClose(inst, state), nil
	case OpZero:
		state.tape[state.cursor] = 0
	case OpInput:
		if err := e.runInput(state); err != nil {
			return NoInst, err
		}
	case OpOutput:
		if err := e.out.WriteByte(state.tape[state.cursor]); err != nil {
			return NoInst, fmt.Errorf("write output: %w", err)
		}
	default:
		panic(fmt.Sprintf("unknown instruction %s at %d", inst.Op, pc))
	}

	return inst.Next, nil
}

func (e instEmulator) checkBounds(pc, next int, state *coreState) (int, error) {
	if !e.cfg.BoundsCheck {
		return next, nil
	}

	if state.cursor < 0 || state.cursor >= len(state.tape) {
		return NoInst, &BoundsError{
			Cursor:   state.cursor,
			TapeSize: len(state.tape),
			Inst:     pc,
		}
	}

	return next, nil
}

func (e instEmulator) runOpen(inst *Inst, state *coreState) int {
	if state.tape[state.cursor] != 0 {
		return inst.Next
	}

	return inst.Branch
}

func (e instEmulator) runClose(inst *Inst, state *coreState) int {
	if state.tape[state.cursor] != 0 {
		return inst.Branch
	}

	return inst.Next
}

func (e instEmulator) runInput(state *coreState) error {
	b, err := e.in.ReadByte()
	if errors.Is(err, io.EOF) {
		if e.cfg.EOF == EOFValue {
			state.tape[state.cursor] = e.cfg.EOFValue
		}

		return nil
	}

	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	state.tape[state.cursor] = b

	return nil
}
