package live

import "github.com/leonletto/pyprobe/internal/gdbmi"

// Inferior is the native debugger's term for a target process it
// controls; proxy identity key is its inferior number (spec.md §3).
type Inferior struct {
	ch  *gdbmi.Channel
	num int64
}

func NewInferior(ch *gdbmi.Channel, num int64) *Inferior {
	return &Inferior{ch: ch, num: num}
}

func (i *Inferior) ClassName() string { return "Inferior" }
func (i *Inferior) Key() int64        { return i.num }

type inferiorState struct {
	PID         int64   `json:"pid"`
	WasAttached bool    `json:"was_attached"`
	IsValid     bool    `json:"is_valid"`
	Threads     []int64 `json:"threads"`
}

func (i *Inferior) state() (inferiorState, error) {
	var st inferiorState
	err := i.ch.EvalJSON(pyExpr(i.num), &st)
	return st, err
}

func pyExpr(num int64) string {
	return "pyprobe.inferior_state(" + itoa(num) + ")"
}

// Threads returns a proxy for every thread belonging to this inferior,
// plus (per SPEC_FULL.md's supplemented ThreadWrapper feature) each
// thread remembers its owning inferior number so callers walking
// thread-first do not need to re-resolve the inferior.
func (i *Inferior) Threads() ([]*Thread, error) {
	st, err := i.state()
	if err != nil {
		return nil, err
	}
	out := make([]*Thread, len(st.Threads))
	for idx, n := range st.Threads {
		t := NewThread(i.ch, n)
		t.inferiorNum = i.num
		out[idx] = t
	}
	return out, nil
}

func (i *Inferior) PID() (int64, error) {
	st, err := i.state()
	if err != nil {
		return 0, err
	}
	return st.PID, nil
}

func (i *Inferior) WasAttached() (bool, error) {
	st, err := i.state()
	if err != nil {
		return false, err
	}
	return st.WasAttached, nil
}

func (i *Inferior) IsValid() (bool, error) {
	st, err := i.state()
	if err != nil {
		return false, err
	}
	return st.IsValid, nil
}
