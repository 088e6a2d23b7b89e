package core

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Core runs a mapped program on the simulation engine, executing a fixed
// number of instruction records per tick.
type Core struct {
	*sim.TickingComponent

	machine      *Machine
	instsPerTick int

	prog   *Program
	pc     int
	ticks  uint64
	halted bool
	err    error
}

// MapProgram sets the program that the core needs to run and resets the
// tape.
func (c *Core) MapProgram(prog *Program) {
	c.prog = prog
	c.pc = prog.Entry()
	c.ticks = 0
	c.halted = false
	c.err = c.machine.reset()

	if c.err != nil {
		c.halted = true
	}
}

// Start schedules the first tick.
func (c *Core) Start() {
	c.TickLater()
}

// Tick runs the program for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	if c.prog == nil || c.halted {
		return false
	}

	c.ticks++
	c.pc, c.err = c.machine.exec(c.prog, c.pc, c.instsPerTick)

	if c.err != nil || c.pc == NoInst {
		c.halted = true

		Trace("CoreHalt",
			"Core", c.Name(),
			"Time", float64(c.Engine.CurrentTime()),
			"Ticks", c.ticks,
			"Steps", c.machine.Steps(),
			"Error", c.err,
		)
	}

	return true
}

// Halted reports whether the mapped program has finished or failed.
func (c *Core) Halted() bool {
	return c.halted
}

// Err returns the error that stopped the program, if any.
func (c *Core) Err() error {
	return c.err
}

// Ticks returns how many cycles the program has used.
func (c *Core) Ticks() uint64 {
	return c.ticks
}

// Machine returns the execution context of the core.
func (c *Core) Machine() *Machine {
	return c.machine
}
