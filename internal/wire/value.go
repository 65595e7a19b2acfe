// Package wire implements the tagged value grammar and remote-object
// identity bookkeeping used by the RPC protocol between controller and
// agent.
package wire

import (
	"encoding/json"
	"fmt"
)

// Tag identifies the shape of a Value on the wire.
type Tag string

const (
	TagNone  Tag = "none"
	TagInt   Tag = "int"
	TagFloat Tag = "float"
	TagStr   Tag = "str"
	TagList  Tag = "list"
	TagDict  Tag = "dict"
	TagClass Tag = "class"
)

// KV is one entry of a dict-tagged Value, preserving arbitrary key types
// by encoding the key itself as a Value rather than a JSON object key.
type KV struct {
	Key   Value
	Value Value
}

// OrderedMap is the decoded form of a dict-tagged Value: an
// insertion-ordered association list, built by appending (key, value)
// pairs in wire order. This replaces the source lineage's invalid
// list-indexed-by-arbitrary-key behavior (see DESIGN.md, Open Question 1).
type OrderedMap []KV

// Value is a tagged wire record: {t, v, c?}.
//
// V holds a Go-native representation of the tag's payload:
//
//	TagNone  -> nil
//	TagInt   -> int64
//	TagFloat -> float64
//	TagStr   -> string
//	TagList  -> []Value
//	TagDict  -> OrderedMap
//	TagClass -> int64 (the identity key); Class holds the class name
type Value struct {
	T     Tag
	V     any
	Class string
}

// None is the wire value for Python's None / Go's nil.
var None = Value{T: TagNone}

func Int(v int64) Value       { return Value{T: TagInt, V: v} }
func Float(v float64) Value   { return Value{T: TagFloat, V: v} }
func Str(v string) Value      { return Value{T: TagStr, V: v} }
func List(v []Value) Value    { return Value{T: TagList, V: v} }
func Dict(v OrderedMap) Value { return Value{T: TagDict, V: v} }

// Class builds a class-tagged Value: a remote object identity reference.
func Class(className string, key int64) Value {
	return Value{T: TagClass, V: key, Class: className}
}

// wireJSON is the on-the-wire shape of Value, matching spec.md §6's
// wire value grammar exactly: {t, v, c?}.
type wireJSON struct {
	T Tag             `json:"t"`
	V json.RawMessage `json:"v"`
	C string          `json:"c,omitempty"`
}

type kvJSON [2]json.RawMessage

func (val Value) MarshalJSON() ([]byte, error) {
	out := wireJSON{T: val.T, C: val.Class}
	var raw []byte
	var err error
	switch val.T {
	case TagNone:
		raw = []byte("null")
	case TagInt:
		raw, err = json.Marshal(val.V)
	case TagFloat:
		raw, err = json.Marshal(val.V)
	case TagStr:
		raw, err = json.Marshal(val.V)
	case TagList:
		items, ok := val.V.([]Value)
		if !ok {
			items = []Value{}
		}
		raw, err = json.Marshal(items)
	case TagDict:
		pairs, ok := val.V.(OrderedMap)
		if !ok {
			pairs = OrderedMap{}
		}
		encoded := make([]kvJSON, 0, len(pairs))
		for _, kv := range pairs {
			kb, kerr := json.Marshal(kv.Key)
			if kerr != nil {
				return nil, kerr
			}
			vb, verr := json.Marshal(kv.Value)
			if verr != nil {
				return nil, verr
			}
			encoded = append(encoded, kvJSON{kb, vb})
		}
		raw, err = json.Marshal(encoded)
	case TagClass:
		raw, err = json.Marshal(val.V)
	default:
		return nil, fmt.Errorf("wire: %w: unknown tag %q", ErrMalformedWire, val.T)
	}
	if err != nil {
		return nil, err
	}
	out.V = raw
	return json.Marshal(out)
}

func (val *Value) UnmarshalJSON(data []byte) error {
	var raw wireJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("wire: %w: %v", ErrMalformedWire, err)
	}
	val.T = raw.T
	val.Class = raw.C
	switch raw.T {
	case TagNone:
		val.V = nil
	case TagInt:
		var v int64
		if err := json.Unmarshal(raw.V, &v); err != nil {
			return fmt.Errorf("wire: %w: int: %v", ErrMalformedWire, err)
		}
		val.V = v
	case TagFloat:
		var v float64
		if err := json.Unmarshal(raw.V, &v); err != nil {
			return fmt.Errorf("wire: %w: float: %v", ErrMalformedWire, err)
		}
		val.V = v
	case TagStr:
		var v string
		if err := json.Unmarshal(raw.V, &v); err != nil {
			return fmt.Errorf("wire: %w: str: %v", ErrMalformedWire, err)
		}
		val.V = v
	case TagList:
		var items []Value
		if err := json.Unmarshal(raw.V, &items); err != nil {
			return fmt.Errorf("wire: %w: list: %v", ErrMalformedWire, err)
		}
		val.V = items
	case TagDict:
		var encoded []kvJSON
		if err := json.Unmarshal(raw.V, &encoded); err != nil {
			return fmt.Errorf("wire: %w: dict: %v", ErrMalformedWire, err)
		}
		pairs := make(OrderedMap, 0, len(encoded))
		for _, pair := range encoded {
			var k, v Value
			if err := json.Unmarshal(pair[0], &k); err != nil {
				return fmt.Errorf("wire: %w: dict key: %v", ErrMalformedWire, err)
			}
			if err := json.Unmarshal(pair[1], &v); err != nil {
				return fmt.Errorf("wire: %w: dict value: %v", ErrMalformedWire, err)
			}
			pairs = append(pairs, KV{Key: k, Value: v})
		}
		val.V = pairs
	case TagClass:
		var v int64
		if err := json.Unmarshal(raw.V, &v); err != nil {
			return fmt.Errorf("wire: %w: class key: %v", ErrMalformedWire, err)
		}
		val.V = v
	default:
		return fmt.Errorf("wire: %w: unknown tag %q", ErrMalformedWire, raw.T)
	}
	return nil
}
