package core

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
)

// Machine is the execution context of a compiled program: the tape, the
// cursor and the I/O endpoints. A Machine is not safe for concurrent use.
type Machine struct {
	cfg   MachineConfig
	emu   instEmulator
	state coreState
}

type discardWriter struct{}

func (discardWriter) WriteByte(byte) error { return nil }

// NewMachine creates a machine. A nil in behaves as an empty input and a nil
// out drops every output byte.
func NewMachine(cfg MachineConfig, in io.ByteReader, out io.ByteWriter) *Machine {
	if in == nil {
		in = bytes.NewReader(nil)
	}

	if out == nil {
		out = discardWriter{}
	}

	return &Machine{
		cfg: cfg,
		emu: instEmulator{cfg: cfg, in: in, out: out},
	}
}

// Config returns the configuration the machine was created with.
func (m *Machine) Config() MachineConfig {
	return m.cfg
}

// Tape returns the tape of the last run.
func (m *Machine) Tape() []byte {
	return m.state.tape
}

// Cursor returns the cursor position of the last run.
func (m *Machine) Cursor() int {
	return m.state.cursor
}

// Steps returns how many records the last run executed.
func (m *Machine) Steps() uint64 {
	return m.state.steps
}

// Run executes prog on a freshly zeroed tape until the terminal record is
// reached or an error stops it. The tape keeps whatever state it reached.
func (m *Machine) Run(prog *Program) error {
	err := m.reset()
	if err == nil {
		_, err = m.exec(prog, prog.Entry(), 0)
	}

	Trace("Run",
		"Steps", m.state.steps,
		"Cursor", m.state.cursor,
		"Error", err,
	)

	return err
}

// reset allocates a zeroed tape and places the cursor at the origin.
func (m *Machine) reset() error {
	m.state = coreState{
		tape:   make([]byte, m.cfg.TapeSize),
		cursor: m.cfg.Origin,
	}

	if m.cfg.BoundsCheck && (m.cfg.Origin < 0 || m.cfg.Origin >= m.cfg.TapeSize) {
		return &BoundsError{
			Cursor:   m.cfg.Origin,
			TapeSize: m.cfg.TapeSize,
			Inst:     NoInst,
		}
	}

	return nil
}

// exec runs from pc for at most limit records, or until the end when limit
// is zero. It returns the next record to run.
func (m *Machine) exec(prog *Program, pc, limit int) (next int, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if re, ok := r.(runtime.Error); ok && !m.cfg.BoundsCheck {
			next = NoInst
			err = fmt.Errorf("%w: cursor %d (%v)", ErrTapeFault, m.state.cursor, re)

			return
		}

		panic(r)
	}()

	for n := 0; pc != NoInst; n++ {
		if limit > 0 && n == limit {
			return pc, nil
		}

		pc, err = m.emu.RunInst(prog, pc, &m.state)
		if err != nil {
			return NoInst, err
		}
	}

	return NoInst, nil
}
