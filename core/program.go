package core

// Program is a compiled instruction graph. All records live in one slice and
// link to each other by index; execution starts at index 0 and the terminal
// OpEnd record is always the last one.
type Program struct {
	Insts []Inst
}

// Entry is the index of the first record to execute.
func (p *Program) Entry() int {
	return 0
}

// Len returns the number of records, terminal included.
func (p *Program) Len() int {
	return len(p.Insts)
}

// At returns the record at index i.
func (p *Program) At(i int) Inst {
	return p.Insts[i]
}

// Terminal returns the index of the OpEnd record.
func (p *Program) Terminal() int {
	return len(p.Insts) - 1
}

// CountOp returns how many records use the given variant.
func (p *Program) CountOp(op OpKind) int {
	n := 0
	for _, inst := range p.Insts {
		if inst.Op == op {
			n++
		}
	}

	return n
}
