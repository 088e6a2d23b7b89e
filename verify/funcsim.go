package verify

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/program"
)

// ErrStepLimit is returned when the reference run does not halt in time.
var ErrStepLimit = errors.New("step limit reached")

// FunctionalSimulator interprets a filtered stream one symbol at a time,
// with none of the code generator's rewrites. It shares the EOF and bounds
// policy of the machine configuration it is given.
type FunctionalSimulator struct {
	code []byte
	jump []int
	cfg  core.MachineConfig

	in  io.ByteReader
	out io.ByteWriter

	tape   []byte
	cursor int
	steps  int
}

// NewFunctionalSimulator prepares s for execution. A nil in behaves as an
// empty input and a nil out drops all output.
func NewFunctionalSimulator(
	s program.Stream,
	cfg core.MachineConfig,
	in io.ByteReader,
	out io.ByteWriter,
) *FunctionalSimulator {
	if in == nil {
		in = bytes.NewReader(nil)
	}

	if out == nil {
		out = &bytes.Buffer{}
	}

	return &FunctionalSimulator{
		code: s.Code,
		jump: matchBrackets(s.Code),
		cfg:  cfg,
		in:   in,
		out:  out,
	}
}

func matchBrackets(code []byte) []int {
	jump := make([]int, len(code))
	var stack []int

	for i, ch := range code {
		switch ch {
		case program.SymOpen:
			stack = append(stack, i)
		case program.SymClose:
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jump[open] = i
			jump[i] = open
		}
	}

	return jump
}

// Tape returns the tape of the last run.
func (fs *FunctionalSimulator) Tape() []byte {
	return fs.tape
}

// Cursor returns the cursor of the last run.
func (fs *FunctionalSimulator) Cursor() int {
	return fs.cursor
}

// Steps returns the number of symbols the last run executed.
func (fs *FunctionalSimulator) Steps() int {
	return fs.steps
}

// Run executes the stream for up to maxSteps symbols on a fresh tape.
// Returns an error if execution fails.
func (fs *FunctionalSimulator) Run(maxSteps int) error {
	fs.tape = make([]byte, fs.cfg.TapeSize)
	fs.cursor = fs.cfg.Origin
	fs.steps = 0

	for pc := 0; pc < len(fs.code); pc++ {
		if fs.steps >= maxSteps {
			return fmt.Errorf("%w: %d symbols", ErrStepLimit, maxSteps)
		}
		fs.steps++

		ch := fs.code[pc]
		if ch == program.SymLeft || ch == program.SymRight {
			if err := fs.move(pc, ch); err != nil {
				return err
			}

			continue
		}

		if fs.cursor < 0 || fs.cursor >= len(fs.tape) {
			return fs.fault(pc)
		}

		next, err := fs.execute(pc, ch)
		if err != nil {
			return err
		}
		pc = next
	}

	return nil
}

func (fs *FunctionalSimulator) move(pc int, ch byte) error {
	if ch == program.SymLeft {
		fs.cursor--
	} else {
		fs.cursor++
	}

	if fs.cfg.BoundsCheck && (fs.cursor < 0 || fs.cursor >= len(fs.tape)) {
		return &core.BoundsError{
			Cursor:   fs.cursor,
			TapeSize: len(fs.tape),
			Inst:     pc,
		}
	}

	return nil
}

func (fs *FunctionalSimulator) fault(pc int) error {
	if fs.cfg.BoundsCheck {
		return &core.BoundsError{
			Cursor:   fs.cursor,
			TapeSize: len(fs.tape),
			Inst:     pc,
		}
	}

	return fmt.Errorf("%w: cursor %d", core.ErrTapeFault, fs.cursor)
}

// execute runs a cell-touching symbol and returns the index of the last
// symbol it consumed.
func (fs *FunctionalSimulator) execute(pc int, ch byte) (int, error) {
	switch ch {
	case program.SymPlus:
		fs.tape[fs.cursor]++
	case program.SymMinus:
		fs.tape[fs.cursor]--
	case program.SymOpen:
		if fs.tape[fs.cursor] == 0 {
			return fs.jump[pc], nil
		}
	case program.SymClose:
		if fs.tape[fs.cursor] != 0 {
			return fs.jump[pc], nil
		}
	case program.SymInput:
		b, err := fs.in.ReadByte()
		switch {
		case errors.Is(err, io.EOF):
			if fs.cfg.EOF == core.EOFValue {
				fs.tape[fs.cursor] = fs.cfg.EOFValue
			}
		case err != nil:
			return pc, fmt.Errorf("read input: %w", err)
		default:
			fs.tape[fs.cursor] = b
		}
	case program.SymOutput:
		if err := fs.out.WriteByte(fs.tape[fs.cursor]); err != nil {
			return pc, fmt.Errorf("write output: %w", err)
		}
	}

	return pc, nil
}
