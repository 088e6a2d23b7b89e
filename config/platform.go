package config

import (
	"io"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tapevm/core"
)

// MachineBuilder can build timed tape machines from a Config.
type MachineBuilder struct {
	engine sim.Engine
	freq   sim.Freq
	cfg    Config
	in     io.ByteReader
	out    io.ByteWriter
}

// WithEngine sets the engine that drives the machine simulation.
func (b MachineBuilder) WithEngine(engine sim.Engine) MachineBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the machine.
func (b MachineBuilder) WithFreq(freq sim.Freq) MachineBuilder {
	b.freq = freq
	return b
}

// WithConfig sets the configuration the machine is built from.
func (b MachineBuilder) WithConfig(cfg Config) MachineBuilder {
	b.cfg = cfg
	return b
}

// WithInput sets where the machine reads input from.
func (b MachineBuilder) WithInput(in io.ByteReader) MachineBuilder {
	b.in = in
	return b
}

// WithOutput sets where the machine writes output to.
func (b MachineBuilder) WithOutput(out io.ByteWriter) MachineBuilder {
	b.out = out
	return b
}

// Build creates a core. A zero frequency defaults to 1 GHz; a config that
// does not validate panics.
func (b MachineBuilder) Build(name string) *core.Core {
	if err := b.cfg.Validate(); err != nil {
		panic(err)
	}

	freq := b.freq
	if freq == 0 {
		freq = 1 * sim.GHz
	}

	return core.NewBuilder().
		WithEngine(b.engine).
		WithFreq(freq).
		WithMachineConfig(b.cfg.MachineConfig()).
		WithInstsPerTick(b.cfg.InstsPerTick).
		WithInput(b.in).
		WithOutput(b.out).
		Build(name + ".Core")
}
