package wire

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeRemote is a minimal RemoteObject for identity tests.
type fakeRemote struct {
	class string
	key   int64
}

func (f *fakeRemote) ClassName() string { return f.class }
func (f *fakeRemote) Key() int64        { return f.key }

func TestValueRoundTripScalars(t *testing.T) {
	cases := []any{
		nil,
		int64(42),
		int64(-7),
		3.5,
		"hello",
		[]any{int64(1), "two", 3.0, nil},
	}

	for _, in := range cases {
		wv, err := Serialize(nil, in)
		if err != nil {
			t.Fatalf("Serialize(%v): %v", in, err)
		}

		data, err := json.Marshal(wv)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", in, err)
		}
		var decoded Value
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal(%v): %v", in, err)
		}

		out, err := DeserializeServer(NewIdentityMap(), decoded)
		if err != nil {
			t.Fatalf("DeserializeServer(%v): %v", in, err)
		}
		if diff := cmp.Diff(in, out); diff != "" {
			t.Errorf("round trip mismatch for %v (-want +got):\n%s", in, diff)
		}
	}
}

func TestValueRoundTripDict(t *testing.T) {
	m := OrderedMap{
		{Key: Str("a"), Value: Int(1)},
		{Key: Int(2), Value: Str("two")},
	}
	wv := Dict(m)

	data, err := json.Marshal(wv)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Value
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got, ok := decoded.V.(OrderedMap)
	if !ok {
		t.Fatalf("decoded dict has wrong Go type: %T", decoded.V)
	}
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("dict round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStubIdentityStability(t *testing.T) {
	reg := NewIdentityMap()
	obj := &fakeRemote{class: "Frame", key: 99}

	v1, err := Serialize(reg.Put, obj)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	v2, err := Serialize(reg.Put, obj)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if v1.V.(int64) != v2.V.(int64) || v1.Class != v2.Class {
		t.Fatalf("two serializations of the same object yielded different wire keys: %v vs %v", v1, v2)
	}

	stubs := NewStubRegistry(nil)
	stubs.RegisterClass("Frame", func(_ RemoteClient, key int64) RemoteObject {
		return &fakeRemote{class: "Frame", key: key}
	})

	s1, err := stubs.Get("Frame", 99, true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	s2, err := stubs.Get("Frame", 99, true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("two resolutions of the same (class, key) yielded different stub instances")
	}
}

func TestDeserializeServerUnknownInstance(t *testing.T) {
	reg := NewIdentityMap()
	_, err := DeserializeServer(reg, Class("Frame", 1))
	if err == nil {
		t.Fatal("expected error for unregistered (class, key)")
	}
}

func TestDeserializeClientUnknownClass(t *testing.T) {
	stubs := NewStubRegistry(nil)
	_, err := DeserializeClient(stubs, Class("Bogus", 1))
	if err == nil {
		t.Fatal("expected error for unregistered stub class")
	}
}
