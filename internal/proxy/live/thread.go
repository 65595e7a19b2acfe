package live

import (
	"fmt"

	"github.com/leonletto/pyprobe/internal/gdbmi"
)

// Thread wraps one native-debugger thread; proxy identity key is its
// global thread number (spec.md §3).
type Thread struct {
	ch        *gdbmi.Channel
	globalNum int64

	// inferiorNum is set when the thread was resolved via
	// Inferior.Threads, letting callers walk back to the owning
	// inferior without a second round trip (SPEC_FULL.md's
	// ThreadWrapper.inferior supplement). Zero means unknown.
	inferiorNum int64
}

// Inferior returns the owning inferior proxy if known, or nil if this
// thread was resolved independently of an Inferior.Threads() call.
func (t *Thread) Inferior() *Inferior {
	if t.inferiorNum == 0 {
		return nil
	}
	return NewInferior(t.ch, t.inferiorNum)
}

func NewThread(ch *gdbmi.Channel, globalNum int64) *Thread {
	return &Thread{ch: ch, globalNum: globalNum}
}

func (t *Thread) ClassName() string { return "Thread" }
func (t *Thread) Key() int64        { return t.globalNum }

type threadState struct {
	LocalNum int64  `json:"local_num"`
	PID      int64  `json:"pid"`
	LWPID    int64  `json:"lwpid"`
	TID      int64  `json:"tid"`
	Name     string `json:"name"`
	Running  bool   `json:"running"`
	Exited   bool   `json:"exited"`
	Stopped  bool   `json:"stopped"`
	Valid    bool   `json:"is_valid"`
	Selected bool   `json:"selected"`
}

func (t *Thread) state() (threadState, error) {
	var st threadState
	err := t.ch.EvalJSON("pyprobe.thread_state("+itoa(t.globalNum)+")", &st)
	return st, err
}

func (t *Thread) LocalNumber() (int64, error) {
	st, err := t.state()
	return st.LocalNum, err
}

// OSTuple returns (pid, lwpid, tid) as reported by the debugger.
func (t *Thread) OSTuple() (pid, lwpid, tid int64, err error) {
	st, err := t.state()
	return st.PID, st.LWPID, st.TID, err
}

func (t *Thread) Name() (string, error) {
	st, err := t.state()
	return st.Name, err
}

func (t *Thread) Running() (bool, error) {
	st, err := t.state()
	return st.Running, err
}

func (t *Thread) Exited() (bool, error) {
	st, err := t.state()
	return st.Exited, err
}

func (t *Thread) Stopped() (bool, error) {
	st, err := t.state()
	return st.Stopped, err
}

func (t *Thread) IsValid() (bool, error) {
	st, err := t.state()
	return st.Valid, err
}

func (t *Thread) Selected() (bool, error) {
	st, err := t.state()
	return st.Selected, err
}

// Switch makes the thread current, the precondition every frame
// operation on it depends on.
func (t *Thread) Switch() error {
	_, err := t.ch.Exec(fmt.Sprintf("thread %d", t.globalNum))
	return err
}

// GetPythonFrames enumerates interpreter call frames, walking from the
// newest native frame to the oldest and retaining only frames the
// debugger's interpreter-frame extension recognizes as interpreter
// frames (spec.md §4.E). The thread must already be selected.
func (t *Thread) GetPythonFrames() ([]*Frame, error) {
	st, err := t.state()
	if err != nil {
		return nil, err
	}
	if !st.Selected {
		return nil, fmt.Errorf("live: thread %d not active", t.globalNum)
	}
	var addrs []int64
	if err := t.ch.EvalJSON("pyprobe.python_frames()", &addrs); err != nil {
		return nil, err
	}
	out := make([]*Frame, len(addrs))
	for i, a := range addrs {
		out[i] = NewFrame(t.ch, a)
	}
	return out, nil
}
