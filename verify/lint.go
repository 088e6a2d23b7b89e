package verify

import (
	"fmt"

	"github.com/sarchlab/tapevm/core"
)

// RunLint performs static checks on a compiled program.
// It validates structure (STRUCT) and the Next/Branch links (LINK).
// Returns a list of issues found, or empty list if no issues.
func RunLint(prog *core.Program) []Issue {
	var issues []Issue

	if prog == nil || prog.Len() == 0 {
		return []Issue{{
			Type:    IssueStruct,
			Index:   -1,
			Message: "program has no records",
		}}
	}

	issues = append(issues, checkTerminal(prog)...)
	issues = append(issues, checkVariants(prog)...)
	issues = append(issues, checkNextChain(prog)...)
	issues = append(issues, checkBrackets(prog)...)

	return issues
}

func checkTerminal(prog *core.Program) []Issue {
	var issues []Issue

	last := prog.Terminal()
	for i, inst := range prog.Insts {
		if inst.Op == core.OpEnd && i != last {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Index:   i,
				Message: fmt.Sprintf("terminal record at %d before the end (%d)", i, last),
			})
		}
	}

	end := prog.At(last)
	if end.Op != core.OpEnd {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			Index:   last,
			Message: fmt.Sprintf("last record is %s, not END", end.Op),
		})
	}

	if end.Next != core.NoInst {
		issues = append(issues, Issue{
			Type:    IssueLink,
			Index:   last,
			Message: fmt.Sprintf("terminal record has successor %d", end.Next),
		})
	}

	return issues
}

// checkVariants makes sure every record carries the deltas its variant
// promises.
func checkVariants(prog *core.Program) []Issue {
	var issues []Issue

	for i, inst := range prog.Insts {
		if msg := variantProblem(inst); msg != "" {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Index:   i,
				Message: fmt.Sprintf("%s: %s", inst, msg),
				Details: map[string]any{
					"op":    inst.Op.String(),
					"inc":   inst.SignedInc(),
					"shift": inst.Shift,
				},
			})
		}

		if !inst.Op.IsOpen() && !inst.Op.IsClose() && inst.Branch != core.NoInst {
			issues = append(issues, Issue{
				Type:    IssueLink,
				Index:   i,
				Message: fmt.Sprintf("%s is not a loop test but branches to %d", inst.Op, inst.Branch),
			})
		}
	}

	return issues
}

func variantProblem(inst core.Inst) string {
	inc, shift := inst.Inc, inst.Shift

	if shift != 0 && !inst.Op.MovesCursor() {
		return "shift on a record that does not move the cursor"
	}

	switch inst.Op {
	case core.OpPlus:
		if inc != 1 {
			return "expected inc 1"
		}
	case core.OpMinus:
		if inc != 0xff {
			return "expected inc -1"
		}
	case core.OpInc:
		if inc == 0 {
			return "expected a nonzero inc"
		}
	case core.OpLeft:
		if inc != 0 || shift != -1 {
			return "expected shift -1 and no inc"
		}
	case core.OpRight:
		if inc != 0 || shift != 1 {
			return "expected shift 1 and no inc"
		}
	case core.OpShift:
		if inc != 0 || shift == 0 {
			return "expected a nonzero shift and no inc"
		}
	case core.OpIncShift:
		if inc == 0 || shift == 0 {
			return "expected both inc and shift"
		}
	case core.OpIncShiftOpen, core.OpIncShiftClose:
		if inc == 0 && shift == 0 {
			return "fused test without a delta"
		}
	default:
		if inc != 0 {
			return "unexpected inc"
		}
	}

	return ""
}

func checkNextChain(prog *core.Program) []Issue {
	var issues []Issue

	last := prog.Terminal()
	for i, inst := range prog.Insts[:last] {
		next := inst.Next

		if next <= i || next > last {
			issues = append(issues, Issue{
				Type:    IssueLink,
				Index:   i,
				Message: fmt.Sprintf("Next %d of %s is not a later record", next, inst.Op),
			})

			continue
		}

		if prog.At(next).Op == core.OpCloseNop {
			issues = append(issues, Issue{
				Type:    IssueLink,
				Index:   i,
				Message: fmt.Sprintf("Next %d of %s is a passthrough exit", next, inst.Op),
			})
		}

		for j := i + 1; j < next; j++ {
			if prog.At(j).Op != core.OpCloseNop {
				issues = append(issues, Issue{
					Type:    IssueLink,
					Index:   i,
					Message: fmt.Sprintf("Next %d of %s skips live record %d", next, inst.Op, j),
				})

				break
			}
		}
	}

	return issues
}

// checkBrackets pairs loop tests in arena order and checks the branch
// cross-wiring of each pair.
func checkBrackets(prog *core.Program) []Issue {
	var (
		issues []Issue
		stack  []int
	)

	for i, inst := range prog.Insts {
		switch {
		case inst.Op.IsOpen():
			stack = append(stack, i)
		case inst.Op.IsClose():
			if len(stack) == 0 {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					Index:   i,
					Message: fmt.Sprintf("%s at %d has no matching entry", inst.Op, i),
				})

				continue
			}

			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			issues = append(issues, checkPair(prog, open, i)...)
		}
	}

	for _, open := range stack {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			Index:   open,
			Message: fmt.Sprintf("%s at %d has no matching exit", prog.At(open).Op, open),
		})
	}

	return issues
}

func checkPair(prog *core.Program, entry, exit int) []Issue {
	var issues []Issue

	if b := prog.At(entry).Branch; b != exit+1 {
		issues = append(issues, Issue{
			Type:    IssueLink,
			Index:   entry,
			Message: fmt.Sprintf("entry at %d branches to %d, want %d", entry, b, exit+1),
			Details: map[string]any{"exit": exit},
		})
	}

	if b := prog.At(exit).Branch; b != entry+1 {
		issues = append(issues, Issue{
			Type:    IssueLink,
			Index:   exit,
			Message: fmt.Sprintf("exit at %d branches to %d, want %d", exit, b, entry+1),
			Details: map[string]any{"entry": entry},
		})
	}

	return issues
}
