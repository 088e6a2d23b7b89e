package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tapevm/config"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine sim.Engine
	freq   sim.Freq
	cfg    *config.Config
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the machine the driver runs.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithConfig sets the machine configuration.
func (b DriverBuilder) WithConfig(cfg config.Config) DriverBuilder {
	b.cfg = &cfg
	return b
}

// Build create a driver. Without an engine the driver uses its own serial
// engine; without a config it uses config.Default.
func (b DriverBuilder) Build(name string) Driver {
	d := &driverImpl{
		name:   name,
		engine: b.engine,
		freq:   b.freq,
		cfg:    config.Default(),
	}

	if d.engine == nil {
		d.engine = sim.NewSerialEngine()
	}

	if b.cfg != nil {
		d.cfg = *b.cfg
	}

	return d
}
