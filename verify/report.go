package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/program"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Name         string
	SymbolCount  int
	RecordCount  int
	LintIssues   []Issue
	StructIssues []Issue
	LinkIssues   []Issue
	Comparison   *Comparison
	Program      *core.Program
}

// GenerateReport compiles src, lints the result and compares it against the
// reference interpreter. It fails only when src does not validate.
func GenerateReport(
	name string,
	src, input []byte,
	cfg core.MachineConfig,
	maxSimSteps int,
) (*VerificationReport, error) {
	s, err := program.Validate(src)
	if err != nil {
		return nil, err
	}

	prog := core.Compile(s)
	report := &VerificationReport{
		Name:        name,
		SymbolCount: s.Len(),
		RecordCount: prog.Len(),
		Program:     prog,
	}

	report.LintIssues = RunLint(prog)

	for _, issue := range report.LintIssues {
		if issue.Type == IssueStruct {
			report.StructIssues = append(report.StructIssues, issue)
		} else {
			report.LinkIssues = append(report.LinkIssues, issue)
		}
	}

	report.Comparison, err = Compare(src, input, cfg, maxSimSteps)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// Passed reports whether lint found nothing and the two runs agreed.
// An inconclusive comparison does not fail the report.
func (r *VerificationReport) Passed() bool {
	if len(r.LintIssues) > 0 {
		return false
	}

	return r.Comparison.Inconclusive || r.Comparison.Equivalent() ||
		(r.Comparison.OutputMatch && errorsAgree(r.Comparison))
}

// errorsAgree accepts runs that both stopped on an error. The two may stop
// at different points after leaving the tape.
func errorsAgree(c *Comparison) bool {
	return c.RefErr != nil && c.OptErr != nil
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "VERIFICATION REPORT: %s\n", r.Name)
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\n✓ Compiled %d symbols into %d records\n",
		r.SymbolCount, r.RecordCount)
	for _, op := range []core.OpKind{
		core.OpZero, core.OpIncShift, core.OpIncShiftOpen,
		core.OpIncShiftClose, core.OpCloseNop,
	} {
		if n := r.Program.CountOp(op); n > 0 {
			fmt.Fprintf(w, "  - %s: %d\n", op, n)
		}
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "✓ No lint issues found!")
	} else {
		fmt.Fprintf(w, "⚠ Found %d lint issues:\n", len(r.LintIssues))
		writeIssues(w, "STRUCT", dash, r.StructIssues)
		writeIssues(w, "LINK", dash, r.LinkIssues)
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: REFERENCE COMPARISON")
	fmt.Fprintln(w, separator)

	c := r.Comparison
	switch {
	case c.Inconclusive:
		fmt.Fprintf(w, "⚠ Reference run did not halt within %d steps\n", c.RefSteps)
	case c.Equivalent():
		fmt.Fprintln(w, "✓ Output and tape match the reference")
	default:
		fmt.Fprintf(w, "⚠ Runs differ: %s\n", c)
	}
	fmt.Fprintf(w, "Reference steps: %d\n", c.RefSteps)
	fmt.Fprintf(w, "Compiled steps:  %d\n", c.OptSteps)

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d LINK)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.LinkIssues))

	if r.Passed() {
		fmt.Fprintln(w, "✓ PROGRAM PASSED ALL CHECKS")
	} else {
		fmt.Fprintln(w, "⚠ PROGRAM FAILED VERIFICATION")
	}

	fmt.Fprintln(w)
}

func writeIssues(w io.Writer, title, dash string, issues []Issue) {
	if len(issues) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s ISSUES (%d):\n", title, len(issues))
	fmt.Fprintln(w, dash)

	for _, issue := range issues {
		fmt.Fprintf(w, "  [#%d] %s\n", issue.Index, issue.Message)
		for k, v := range issue.Details {
			fmt.Fprintf(w, "    %s: %v\n", k, v)
		}
	}
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
