// Package api defines the driver API for running programs on a timed tape
// machine.
package api

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tapevm/config"
	"github.com/sarchlab/tapevm/core"
)

// ErrNoProgram is returned by Run when no program has been mapped.
var ErrNoProgram = errors.New("no program mapped")

// Driver provides the interface to control a tape machine.
type Driver interface {
	// MapProgram sets the program the next Run executes.
	MapProgram(prog *core.Program)

	// FeedIn sets where input records read from. Without it the machine
	// sees an empty input.
	FeedIn(r io.Reader)

	// Collect sets where output records write to. Without it output is
	// dropped.
	Collect(w io.Writer)

	// Run builds a fresh machine, runs the mapped program on the engine
	// until it halts, and flushes the collected output. It returns the
	// error that stopped the program, if any.
	Run() error

	// Steps returns how many records the last run executed.
	Steps() uint64

	// Ticks returns how many cycles the last run used.
	Ticks() uint64

	// Time returns the simulated time at the end of the last run.
	Time() sim.VTimeInSec

	// Tape returns the tape of the last run.
	Tape() []byte
}

type driverImpl struct {
	name   string
	engine sim.Engine
	freq   sim.Freq
	cfg    config.Config

	prog *core.Program
	in   io.Reader
	out  io.Writer

	core *core.Core
}

func (d *driverImpl) MapProgram(prog *core.Program) {
	d.prog = prog
}

func (d *driverImpl) FeedIn(r io.Reader) {
	d.in = r
}

func (d *driverImpl) Collect(w io.Writer) {
	d.out = w
}

func (d *driverImpl) Run() error {
	if d.prog == nil {
		return ErrNoProgram
	}

	if err := d.cfg.Validate(); err != nil {
		return err
	}

	in := d.in
	if in == nil {
		in = bytes.NewReader(nil)
	}

	out := d.out
	if out == nil {
		out = io.Discard
	}

	bufIn := bufio.NewReader(in)
	bufOut := bufio.NewWriter(out)

	d.core = config.MachineBuilder{}.
		WithEngine(d.engine).
		WithFreq(d.freq).
		WithConfig(d.cfg).
		WithInput(bufIn).
		WithOutput(bufOut).
		Build(d.name)

	d.core.MapProgram(d.prog)
	d.core.Start()

	if err := d.engine.Run(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	core.Trace("DriverDone",
		"Driver", d.name,
		"Time", float64(d.engine.CurrentTime()),
		"Ticks", d.core.Ticks(),
	)

	if err := bufOut.Flush(); err != nil {
		return errors.Join(d.core.Err(), fmt.Errorf("write output: %w", err))
	}

	return d.core.Err()
}

func (d *driverImpl) Steps() uint64 {
	if d.core == nil {
		return 0
	}

	return d.core.Machine().Steps()
}

func (d *driverImpl) Ticks() uint64 {
	if d.core == nil {
		return 0
	}

	return d.core.Ticks()
}

func (d *driverImpl) Time() sim.VTimeInSec {
	return d.engine.CurrentTime()
}

func (d *driverImpl) Tape() []byte {
	if d.core == nil {
		return nil
	}

	return d.core.Machine().Tape()
}
