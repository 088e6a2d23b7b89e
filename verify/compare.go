package verify

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/program"
)

// Comparison holds the outcome of running one program both through the
// reference interpreter and through the compiled form.
type Comparison struct {
	RefOutput []byte
	OptOutput []byte
	RefErr    error
	OptErr    error
	RefSteps  int
	OptSteps  uint64

	OutputMatch bool
	TapeMatch   bool

	// Inconclusive is set when the reference run hit the step limit. The
	// compiled run is skipped in that case.
	Inconclusive bool
}

// Equivalent reports whether both runs finished cleanly with the same
// output and final tape.
func (c *Comparison) Equivalent() bool {
	return !c.Inconclusive &&
		c.RefErr == nil && c.OptErr == nil &&
		c.OutputMatch && c.TapeMatch
}

func (c *Comparison) String() string {
	if c.Inconclusive {
		return fmt.Sprintf("inconclusive after %d reference steps", c.RefSteps)
	}

	return fmt.Sprintf(
		"ref(steps=%d, out=%dB, err=%v) opt(steps=%d, out=%dB, err=%v) output=%t tape=%t",
		c.RefSteps, len(c.RefOutput), c.RefErr,
		c.OptSteps, len(c.OptOutput), c.OptErr,
		c.OutputMatch, c.TapeMatch,
	)
}

// Compare validates src, runs it through the reference interpreter and then
// through the compiler and machine, both with the same input and
// configuration. The returned error is only set when src does not validate.
func Compare(src, input []byte, cfg core.MachineConfig, maxSteps int) (*Comparison, error) {
	s, err := program.Validate(src)
	if err != nil {
		return nil, err
	}

	c := &Comparison{}

	var refOut bytes.Buffer
	fs := NewFunctionalSimulator(s, cfg, bytes.NewReader(input), &refOut)
	c.RefErr = fs.Run(maxSteps)
	c.RefSteps = fs.Steps()
	c.RefOutput = refOut.Bytes()

	if errors.Is(c.RefErr, ErrStepLimit) {
		c.Inconclusive = true
		return c, nil
	}

	var optOut bytes.Buffer
	m := core.NewMachine(cfg, bytes.NewReader(input), &optOut)
	c.OptErr = m.Run(core.Compile(s))
	c.OptSteps = m.Steps()
	c.OptOutput = optOut.Bytes()

	c.OutputMatch = bytes.Equal(c.RefOutput, c.OptOutput)
	c.TapeMatch = fs.Cursor() == m.Cursor() && bytes.Equal(fs.Tape(), m.Tape())

	return c, nil
}
