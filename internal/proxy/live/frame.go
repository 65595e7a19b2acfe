package live

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/leonletto/pyprobe/internal/gdbmi"
)

var gilSlotCounter int64

func nextGILSlot() int {
	return int(atomic.AddInt64(&gilSlotCounter, 1))
}

// Frame wraps one interpreter activation record; proxy identity key is
// the address of the underlying frame descriptor (spec.md §3).
type Frame struct {
	ch   *gdbmi.Channel
	addr int64
}

func NewFrame(ch *gdbmi.Channel, addr int64) *Frame {
	return &Frame{ch: ch, addr: addr}
}

func (f *Frame) ClassName() string { return "Frame" }
func (f *Frame) Key() int64        { return f.addr }

type frameState struct {
	Filename      string `json:"filename"`
	Line          int64  `json:"line"`
	SourceLine    string `json:"source_line"`
	OptimizedOut  bool   `json:"optimized_out"`
	IsEvalFrame   bool   `json:"is_eval_frame"`
	OtherInterp   string `json:"other_interpreter_frame"`
}

func (f *Frame) state() (frameState, error) {
	var st frameState
	err := f.ch.EvalJSON("pyprobe.frame_state("+itoa(f.addr)+")", &st)
	return st, err
}

func (f *Frame) Filename() (string, error) {
	st, err := f.state()
	return st.Filename, err
}

func (f *Frame) Line() (int64, error) {
	st, err := f.state()
	return st.Line, err
}

func (f *Frame) SourceLine() (string, error) {
	st, err := f.state()
	return st.SourceLine, err
}

func (f *Frame) OptimizedOut() (bool, error) {
	st, err := f.state()
	return st.OptimizedOut, err
}

func (f *Frame) IsEvalFrame() (bool, error) {
	st, err := f.state()
	return st.IsEvalFrame, err
}

// IsOtherInterpreterFrame returns a short descriptive string when the
// frame belongs to a second interpreter's frame kind, or "" otherwise.
func (f *Frame) IsOtherInterpreterFrame() (string, error) {
	st, err := f.state()
	return st.OtherInterp, err
}

// GetIndex counts newer frames up to the newest, per spec.md §4.E.
func (f *Frame) GetIndex() (int64, error) {
	var idx int64
	err := f.ch.EvalJSON("pyprobe.frame_index("+itoa(f.addr)+")", &idx)
	return idx, err
}

// CheckSelected compares this frame's index to the currently selected
// frame's index.
func (f *Frame) CheckSelected() (bool, error) {
	var selected bool
	err := f.ch.EvalJSON("pyprobe.frame_is_selected("+itoa(f.addr)+")", &selected)
	return selected, err
}

// Select makes this frame the debugger's current frame.
func (f *Frame) Select() error {
	_, err := f.ch.Exec("python pyprobe.select_frame(" + itoa(f.addr) + ")")
	return err
}

func (f *Frame) ListLocalVariables() ([]string, error) {
	var names []string
	err := f.ch.EvalJSON("pyprobe.frame_locals("+itoa(f.addr)+")", &names)
	return names, err
}

func (f *Frame) ListGlobalVariables() ([]string, error) {
	var names []string
	err := f.ch.EvalJSON("pyprobe.frame_globals("+itoa(f.addr)+")", &names)
	return names, err
}

// VariableRepr is the (scope, truncated repr) pair spec.md §4.E
// describes, with Found indicating whether the name resolved at all.
type VariableRepr struct {
	Scope string
	Repr  string
	Found bool
}

func (f *Frame) GetVariableRepr(name string, maxLen int64) (VariableRepr, error) {
	var out struct {
		Scope string `json:"scope"`
		Repr  string `json:"repr"`
		Found bool   `json:"found"`
	}
	expr := fmt.Sprintf("pyprobe.frame_variable_repr(%d, %q, %d)", f.addr, name, maxLen)
	if err := f.ch.EvalJSON(expr, &out); err != nil {
		return VariableRepr{}, err
	}
	return VariableRepr{Scope: out.Scope, Repr: out.Repr, Found: out.Found}, nil
}

// RunSimpleString evaluates source under the target's global interpreter
// lock, per spec.md §4.E: acquire, evaluate, release, even on error.
// The source runs in the target through PyRun_SimpleString, so anything
// it prints goes to the target's own output and the returned string is
// empty; a -1 result from PyRun_SimpleString is returned as an error.
func (f *Frame) RunSimpleString(source string) (string, error) {
	release, err := f.ch.AcquireGIL(nextGILSlot())
	if err != nil {
		return "", err
	}
	defer release()

	selectCmd := "python pyprobe.select_frame(" + itoa(f.addr) + ")"
	if _, err := f.ch.Exec(selectCmd); err != nil {
		return "", err
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(source)
	out, err := f.ch.Exec(fmt.Sprintf(`call (int) PyRun_SimpleString("%s")`, escaped))
	if err != nil {
		return "", err
	}
	if strings.HasSuffix(strings.TrimSpace(out), "= -1") {
		return "", fmt.Errorf("live: source raised an exception in the target")
	}
	return "", nil
}

// RunFile reads and executes path from inside the target, rejecting any
// path containing a quote character before issuing a single debugger
// command (spec.md §4.E, property #8).
func (f *Frame) RunFile(path string) (string, error) {
	if err := gdbmi.QuoteReject(path); err != nil {
		return "", err
	}
	source := fmt.Sprintf("with open(%q) as f:\n    exec(f.read())", path)
	return f.RunSimpleString(source)
}
