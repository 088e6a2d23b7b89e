// Package disasm renders compiled programs as text.
package disasm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/tapevm/core"
)

// Mode selects the output form of Print.
type Mode int

const (
	// ModeSource prints symbols only. Feeding the output back to the
	// compiler gives a program with the same behavior.
	ModeSource Mode = iota
	// ModeDebug prints fused records with their deltas, e.g. c(3,-2).
	ModeDebug
)

// Print writes prog in arena order followed by a newline. Passthrough loop
// exits are printed like any other exit, so the loop structure survives.
func Print(w io.Writer, prog *core.Program, mode Mode) error {
	bw := bufio.NewWriter(w)

	for _, inst := range prog.Insts {
		if inst.Op == core.OpEnd {
			break
		}

		if mode == ModeDebug {
			writeDebug(bw, inst)
		} else {
			writeSource(bw, inst)
		}
	}

	bw.WriteByte('\n')

	return bw.Flush()
}

// String returns the output of Print as a string.
func String(prog *core.Program, mode Mode) string {
	var sb strings.Builder
	_ = Print(&sb, prog, mode)

	return sb.String()
}

var simple = map[core.OpKind]byte{
	core.OpOpen:     '[',
	core.OpClose:    ']',
	core.OpCloseNop: ']',
	core.OpOutput:   '.',
	core.OpInput:    ',',
	core.OpLeft:     '<',
	core.OpRight:    '>',
	core.OpPlus:     '+',
	core.OpMinus:    '-',
}

func writeSource(w *bufio.Writer, inst core.Inst) {
	if ch, ok := simple[inst.Op]; ok {
		w.WriteByte(ch)
		return
	}

	switch inst.Op {
	case core.OpZero:
		w.WriteString("[-]")
	case core.OpInc:
		writeRepeat(w, inst.SignedInc(), '+', '-')
	case core.OpShift:
		writeRepeat(w, inst.Shift, '>', '<')
	case core.OpIncShift:
		writeRepeat(w, inst.SignedInc(), '+', '-')
		writeRepeat(w, inst.Shift, '>', '<')
	case core.OpIncShiftOpen:
		writeRepeat(w, inst.SignedInc(), '+', '-')
		writeRepeat(w, inst.Shift, '>', '<')
		w.WriteByte('[')
	case core.OpIncShiftClose:
		writeRepeat(w, inst.SignedInc(), '+', '-')
		writeRepeat(w, inst.Shift, '>', '<')
		w.WriteByte(']')
	default:
		w.WriteByte('?')
	}
}

func writeDebug(w *bufio.Writer, inst core.Inst) {
	if ch, ok := simple[inst.Op]; ok {
		w.WriteByte(ch)
		return
	}

	switch inst.Op {
	case core.OpZero:
		w.WriteByte('z')
	case core.OpInc:
		fmt.Fprintf(w, "i(%d)", inst.SignedInc())
	case core.OpShift:
		fmt.Fprintf(w, "s(%d)", inst.Shift)
	case core.OpIncShift:
		fmt.Fprintf(w, "c(%d,%d)", inst.SignedInc(), inst.Shift)
	case core.OpIncShiftOpen:
		fmt.Fprintf(w, "c(%d,%d)[", inst.SignedInc(), inst.Shift)
	case core.OpIncShiftClose:
		fmt.Fprintf(w, "c(%d,%d)]", inst.SignedInc(), inst.Shift)
	default:
		w.WriteByte('?')
	}
}

// writeRepeat writes |n| copies of up when n > 0 or of down when n < 0.
func writeRepeat(w *bufio.Writer, n int, up, down byte) {
	ch := up
	if n < 0 {
		ch, n = down, -n
	}

	for ; n > 0; n-- {
		w.WriteByte(ch)
	}
}

// Table writes an indexed listing of every record with its links.
func Table(w io.Writer, prog *core.Program) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Program (%d records)", prog.Len()))
	t.AppendHeader(table.Row{"#", "Op", "Inc", "Shift", "Next", "Branch"})

	for i, inst := range prog.Insts {
		t.AppendRow(table.Row{
			i,
			inst.Op,
			inst.SignedInc(),
			inst.Shift,
			link(inst.Next),
			link(inst.Branch),
		})
	}

	t.Render()
}

func link(i int) string {
	if i == core.NoInst {
		return "-"
	}

	return fmt.Sprint(i)
}
