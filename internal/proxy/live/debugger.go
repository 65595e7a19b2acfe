// Package live implements component E of spec.md: thin, typed wrappers
// over the native debugger's own live objects (debugger, inferior,
// thread, frame), running inside the agent process described in
// SPEC_FULL.md §0. Every structural fact about a frame or symbol is
// obtained by asking the debugger's already-loaded interpreter-frame
// extension to report it as JSON; this package never decodes frames
// itself.
package live

import (
	"fmt"

	"github.com/leonletto/pyprobe/internal/gdbmi"
)

// Debugger is the root proxy, identity key 1 (spec.md §3).
type Debugger struct {
	ch *gdbmi.Channel
}

func NewDebugger(ch *gdbmi.Channel) *Debugger { return &Debugger{ch: ch} }

func (d *Debugger) ClassName() string { return "Debugger" }
func (d *Debugger) Key() int64        { return 1 }

// ListInferiors returns a proxy for every inferior the debugger knows
// about.
func (d *Debugger) ListInferiors() ([]*Inferior, error) {
	var nums []int64
	if err := d.ch.EvalJSON("pyprobe.list_inferiors()", &nums); err != nil {
		return nil, err
	}
	out := make([]*Inferior, len(nums))
	for i, n := range nums {
		out[i] = NewInferior(d.ch, n)
	}
	return out, nil
}

// SelectedInferior returns a proxy for the currently selected inferior.
func (d *Debugger) SelectedInferior() (*Inferior, error) {
	var num int64
	if err := d.ch.EvalJSON("pyprobe.selected_inferior()", &num); err != nil {
		return nil, err
	}
	return NewInferior(d.ch, num), nil
}

// SelectedThread returns a proxy for the currently selected thread.
func (d *Debugger) SelectedThread() (*Thread, error) {
	var num int64
	if err := d.ch.EvalJSON("pyprobe.selected_thread()", &num); err != nil {
		return nil, err
	}
	return NewThread(d.ch, num), nil
}

// Execute runs a raw debugger command and returns its console text,
// the direct analogue of gdb.execute(cmd, to_string=True).
func (d *Debugger) Execute(cmd string) (string, error) {
	out, err := d.ch.Exec(cmd)
	if err != nil {
		return "", fmt.Errorf("live: execute %q: %w", cmd, err)
	}
	return out, nil
}
