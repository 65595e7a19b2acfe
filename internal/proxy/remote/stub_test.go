package remote

import (
	"testing"

	"github.com/leonletto/pyprobe/internal/wire"
)

// fakeClient is a minimal wire.RemoteClient + valueCaller double that lets
// these tests exercise stub plumbing without a real socket.
type fakeClient struct {
	calls   []string
	results map[string]any
}

func (f *fakeClient) Call(class, member string, args []wire.Value, key *int64) (wire.Value, error) {
	panic("not used: tests exercise CallValue")
}

func (f *fakeClient) CallValue(class, member string, args []any, key *int64) (any, error) {
	f.calls = append(f.calls, class+"."+member)
	return f.results[class+"."+member], nil
}

func TestDebuggerStubForwardsCalls(t *testing.T) {
	fc := &fakeClient{results: map[string]any{
		"Debugger.execute": "value printed",
	}}
	d := &Debugger{client: fc, key: 1}

	out, err := d.Execute("print 1")
	if err != nil || out != "value printed" {
		t.Fatalf("Execute() = %q, %v", out, err)
	}
	if len(fc.calls) != 1 || fc.calls[0] != "Debugger.execute" {
		t.Fatalf("unexpected calls: %v", fc.calls)
	}
}

func TestThreadStubDecodesBoolFromWireInt(t *testing.T) {
	fc := &fakeClient{results: map[string]any{
		"Thread.is_valid": int64(1),
	}}
	th := &Thread{client: fc, key: 7}

	valid, err := th.IsValid()
	if err != nil || !valid {
		t.Fatalf("IsValid() = %v, %v", valid, err)
	}
}

func TestFrameStubGetVariableReprAbsent(t *testing.T) {
	fc := &fakeClient{results: map[string]any{
		"Frame.get_variable_repr": nil,
	}}
	f := &Frame{client: fc, key: 42}

	v, err := f.GetVariableRepr("missing", 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Found {
		t.Fatalf("expected Found=false, got %+v", v)
	}
}

func TestFrameStubGetVariableReprPresent(t *testing.T) {
	fc := &fakeClient{results: map[string]any{
		"Frame.get_variable_repr": []any{"local", "42"},
	}}
	f := &Frame{client: fc, key: 42}

	v, err := f.GetVariableRepr("x", 80)
	if err != nil || !v.Found || v.Scope != "local" || v.Repr != "42" {
		t.Fatalf("unexpected result: %+v, %v", v, err)
	}
}
