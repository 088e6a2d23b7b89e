// Package verify provides debugging tools that check compiled programs.
//
// This package implements two complementary verification stages:
//
// 1. Static Lint (lint.go): structural checks on the instruction graph
//   - STRUCT checks: terminal placement, bracket pairing, variant/delta
//     consistency
//   - LINK checks: Next chain range and direction, branch cross-wiring,
//     passthrough exits kept out of the Next chain
//
// 2. Functional Simulator (funcsim.go): symbol-by-symbol interpreter
//   - Executes the filtered stream with no optimization at all
//   - Gives the reference output and tape for a program
//   - Useful for isolating code generator bugs from engine bugs
//
// # Graph Structure
//
// A core.Program is a slice of records linked by index:
//
//	core.Program
//	  └── Inst (one per record, terminal last)
//	      ├── Op     (variant: PLUS, INC_SHIFT_OPEN, ZERO, ...)
//	      ├── Inc    (cell delta, mod 256)
//	      ├── Shift  (cursor delta)
//	      ├── Next   (fall-through successor)
//	      └── Branch (loop tests only)
//
// An entry test branches to the record after its exit; an exit test
// branches to the record after its entry. Passthrough exits (CLOSE_NOP)
// are never the Next of another record.
//
// # Usage Example
//
//	prog, err := core.CompileSource(src)
//	if err != nil {
//	    return err
//	}
//
//	// Stage 1: Lint checks
//	for _, issue := range verify.RunLint(prog) {
//	    log.Printf("[%s] #%d: %s", issue.Type, issue.Index, issue.Message)
//	}
//
//	// Stage 2: Compare with the reference interpreter
//	cmp, err := verify.Compare(src, input, core.DefaultMachineConfig(), 1_000_000)
//	if err == nil && !cmp.Equivalent() {
//	    log.Printf("optimized run differs: %s", cmp)
//	}
//
// # Limitations
//
// - Bounds are checked after every single move in the reference but only
// after fused moves in the optimized program, so the two may stop at
// different points on programs that leave the tape.
// - Non-terminating programs are cut off by a step limit.
package verify

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Record layout error (terminal, pairing, variant)
	IssueLink   IssueType = "LINK"   // Next/Branch error
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType      // STRUCT or LINK
	Index   int            // Record index, -1 if not applicable
	Message string         // Human-readable description
	Details map[string]any // Additional structured data
}
