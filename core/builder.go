package core

import (
	"io"

	"github.com/sarchlab/akita/v4/sim"
)

// Builder can create new cores.
type Builder struct {
	engine       sim.Engine
	freq         sim.Freq
	cfg          MachineConfig
	instsPerTick int
	in           io.ByteReader
	out          io.ByteWriter
}

func NewBuilder() Builder {
	return Builder{
		freq:         1 * sim.GHz,
		cfg:          DefaultMachineConfig(),
		instsPerTick: 1,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithMachineConfig sets the tape and policy configuration.
func (b Builder) WithMachineConfig(cfg MachineConfig) Builder {
	b.cfg = cfg
	return b
}

// WithInstsPerTick sets how many records run in one cycle.
func (b Builder) WithInstsPerTick(n int) Builder {
	if n < 1 {
		panic("Need at least 1 instruction per tick")
	}
	b.instsPerTick = n
	return b
}

// WithInput sets where input instructions read from.
func (b Builder) WithInput(in io.ByteReader) Builder {
	b.in = in
	return b
}

// WithOutput sets where output instructions write to.
func (b Builder) WithOutput(out io.ByteWriter) Builder {
	b.out = out
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	c := &Core{
		machine:      NewMachine(b.cfg, b.in, b.out),
		instsPerTick: b.instsPerTick,
		pc:           NoInst,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
