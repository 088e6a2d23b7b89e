package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1

	// stateWindow is how many cells on each side of the cursor PrintState
	// shows.
	stateWindow = 8
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// PrintState renders the cells around the cursor of m as a table.
func PrintState(w io.Writer, m *Machine) {
	tape := m.Tape()
	cursor := m.Cursor()

	lo := max(cursor-stateWindow, 0)
	hi := min(cursor+stateWindow+1, len(tape))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Tape (cursor=%d, steps=%d)", cursor, m.Steps()))
	t.AppendHeader(table.Row{"Cell", "Value", "Char", ""})

	for i := lo; i < hi; i++ {
		marker := ""
		if i == cursor {
			marker = "<"
		}

		t.AppendRow(table.Row{i, tape[i], printable(tape[i]), marker})
	}

	t.Render()
}

func printable(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return string(rune(b))
	}

	return "."
}

func LogState(m *Machine) {
	slog.Debug("StateCheckpoint",
		"Cursor", m.state.cursor,
		"Steps", m.state.steps,
		"TapeSize", len(m.state.tape),
	)
}
