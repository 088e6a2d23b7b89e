package core

import (
	"github.com/sarchlab/tapevm/program"
)

// codegen is the state of a single compilation pass.
type codegen struct {
	code  []byte
	insts []Inst

	// stack holds the indices of loop-entry records still waiting for their
	// matching exit.
	stack []int
	depth int

	// Deltas seen but not emitted yet. A pending pair means "add inc to the
	// cell, then move the cursor by shift".
	inc   uint8
	shift int

	// zero is true when the current cell is known to be zero whatever the
	// input was. The tape starts zeroed.
	zero bool
}

// Compile translates a validated stream into an instruction graph. It does
// not fail: bracket errors are rejected by program.Validate.
func Compile(s program.Stream) *Program {
	g := &codegen{
		code:  s.Code,
		insts: make([]Inst, 0, len(s.Code)+1),
		stack: make([]int, max(s.MaxDepth, 1)),
		zero:  true,
	}

	for i := 0; i < len(g.code); i++ {
		i = g.gen(i)
	}

	g.flush()
	g.emit(newInst(OpEnd))
	g.link()

	Trace("Compile",
		"Symbols", len(s.Code),
		"Insts", len(g.insts),
		"MaxDepth", s.MaxDepth,
	)

	return &Program{Insts: g.insts}
}

// CompileSource validates and compiles raw source text.
func CompileSource(src []byte) (*Program, error) {
	s, err := program.Validate(src)
	if err != nil {
		return nil, err
	}

	return Compile(s), nil
}

// gen handles the symbol at i and returns the index of the last symbol it
// consumed.
func (g *codegen) gen(i int) int {
	ch := g.code[i]

	if !g.zero && g.isZeroLoop(i) {
		return g.genZeroLoop(i)
	}

	switch ch {
	case program.SymLeft:
		g.shift--
		g.zero = false
	case program.SymRight:
		g.shift++
		g.zero = false
	case program.SymPlus, program.SymMinus:
		// A pending pair increments before it shifts, so an increment
		// after a shift starts a new pair.
		if g.shift != 0 {
			g.flush()
		}

		if ch == program.SymPlus {
			g.inc++
		} else {
			g.inc--
		}
		g.zero = false
	case program.SymOpen:
		return g.genOpen(i)
	case program.SymClose:
		g.genClose()
	case program.SymOutput:
		g.flush()
		g.emit(newInst(OpOutput))
	case program.SymInput:
		g.flush()
		g.emit(newInst(OpInput))
		g.zero = false
	}

	return i
}

// isZeroLoop matches "[+]" and "[-]" starting at i.
func (g *codegen) isZeroLoop(i int) bool {
	return i+2 < len(g.code) &&
		g.code[i] == program.SymOpen &&
		program.IsDelta(g.code[i+1]) &&
		g.code[i+2] == program.SymClose
}

func (g *codegen) genZeroLoop(i int) int {
	if g.shift != 0 {
		g.flush()
	}

	// Any pending increment targets the cell that is about to be cleared.
	g.inc = 0

	g.emit(newInst(OpZero))
	g.zero = true

	return i + 2
}

func (g *codegen) genOpen(i int) int {
	inst, fused := g.takeDelta()
	if fused {
		g.zero = false
	}

	if g.zero {
		return g.skipLoop(i)
	}

	if fused {
		inst.Op = OpIncShiftOpen
	} else {
		inst = newInst(OpOpen)
	}

	g.stack[g.depth] = len(g.insts)
	g.depth++
	g.emit(inst)

	return i
}

// skipLoop returns the index of the ']' matching the '[' at i.
func (g *codegen) skipLoop(i int) int {
	depth := 1
	for depth > 0 {
		i++
		switch g.code[i] {
		case program.SymOpen:
			depth++
		case program.SymClose:
			depth--
		}
	}

	Trace("DeadLoop", "End", i)

	return i
}

func (g *codegen) genClose() {
	inst, fused := g.takeDelta()

	switch {
	case fused:
		inst.Op = OpIncShiftClose
	case g.zero:
		inst = newInst(OpCloseNop)
	default:
		inst = newInst(OpClose)
	}

	g.depth--
	open := g.stack[g.depth]
	at := len(g.insts)

	g.insts[open].Branch = at + 1
	inst.Branch = open + 1
	g.emit(inst)

	// A loop is only left when its cell is zero.
	g.zero = true
}

// takeDelta clears the pending pair and returns it as a single record.
func (g *codegen) takeDelta() (Inst, bool) {
	if g.inc == 0 && g.shift == 0 {
		return Inst{}, false
	}

	inst := deltaInst(g.inc, g.shift)
	g.inc, g.shift = 0, 0

	return inst, true
}

func (g *codegen) flush() {
	if inst, ok := g.takeDelta(); ok {
		g.emit(inst)
	}
}

func (g *codegen) emit(inst Inst) {
	g.insts = append(g.insts, inst)
}

// link fills in the Next chain. Passthrough exits are never the Next of
// another record; they keep their own Next so a Branch landing on them
// still falls through.
func (g *codegen) link() {
	last := len(g.insts) - 1
	for i := 0; i < last; i++ {
		next := i + 1
		for g.insts[next].Op == OpCloseNop {
			next++
		}
		g.insts[i].Next = next
	}
}

func newInst(op OpKind) Inst {
	return Inst{Op: op, Next: NoInst, Branch: NoInst}
}

// deltaInst picks the narrowest variant for a pending pair. At least one of
// inc and shift must be nonzero.
func deltaInst(inc uint8, shift int) Inst {
	inst := newInst(OpIncShift)
	inst.Inc = inc
	inst.Shift = shift

	switch {
	case inc == 0 && shift == 1:
		inst.Op = OpRight
	case inc == 0 && shift == -1:
		inst.Op = OpLeft
	case inc == 0:
		inst.Op = OpShift
	case shift == 0 && inc == 1:
		inst.Op = OpPlus
	case shift == 0 && inc == 0xff:
		inst.Op = OpMinus
	case shift == 0:
		inst.Op = OpInc
	}

	return inst
}
