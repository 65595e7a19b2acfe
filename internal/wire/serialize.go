package wire

import "fmt"

// Register is called by Serialize when it encounters a RemoteObject, so
// the caller can record the (class, key) -> object mapping in whatever
// identity map it owns. It may be nil when the caller has no registry to
// update (e.g. the controller serializing an argument that references an
// already-known stub).
type Register func(class string, key int64, obj any)

// Serialize converts a Go-native value into its tagged wire form,
// per spec.md §4.B. Scalars pass by value; []any and OrderedMap recurse;
// any other RemoteObject is emitted as a class record and, if register
// is non-nil, recorded under its (class, key).
func Serialize(register Register, v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return None, nil
	case bool:
		// The wire grammar has no bool tag; Python bool is an int
		// subclass in the source lineage, so this module encodes Go
		// bool the same way: as an int 0/1.
		if x {
			return Int(1), nil
		}
		return Int(0), nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float64:
		return Float(x), nil
	case string:
		return Str(x), nil
	case []any:
		items := make([]Value, 0, len(x))
		for _, elem := range x {
			ev, err := Serialize(register, elem)
			if err != nil {
				return Value{}, err
			}
			items = append(items, ev)
		}
		return List(items), nil
	case OrderedMap:
		pairs := make(OrderedMap, 0, len(x))
		for _, kv := range x {
			kw, err := Serialize(register, decodeValueForReserialize(kv.Key))
			if err != nil {
				return Value{}, err
			}
			vw, err := Serialize(register, decodeValueForReserialize(kv.Value))
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, KV{Key: kw, Value: vw})
		}
		return Dict(pairs), nil
	case Value:
		// Already wire-shaped (e.g. re-serializing a decoded dict key).
		return x, nil
	case RemoteObject:
		key := x.Key()
		class := x.ClassName()
		if register != nil {
			register(class, key, x)
		}
		return Class(class, key), nil
	default:
		return Value{}, fmt.Errorf("wire: cannot serialize %T", v)
	}
}

// decodeValueForReserialize lets OrderedMap entries, which already hold
// decoded Values from a prior round-trip, pass through Serialize
// unchanged instead of being treated as an unknown Go type.
func decodeValueForReserialize(v Value) any { return v }

// DeserializeServer resolves a wire Value into a Go-native value on the
// agent side. Class records are resolved strictly against reg; createStub
// is always false on this side (spec.md §4.B), so an unknown (class, key)
// is an error rather than a new stub.
func DeserializeServer(reg *IdentityMap, v Value) (any, error) {
	switch v.T {
	case TagNone:
		return nil, nil
	case TagInt:
		return v.V.(int64), nil
	case TagFloat:
		return v.V.(float64), nil
	case TagStr:
		return v.V.(string), nil
	case TagList:
		items := v.V.([]Value)
		out := make([]any, 0, len(items))
		for _, item := range items {
			dv, err := DeserializeServer(reg, item)
			if err != nil {
				return nil, err
			}
			out = append(out, dv)
		}
		return out, nil
	case TagDict:
		return v.V.(OrderedMap), nil
	case TagClass:
		key := v.V.(int64)
		obj, ok := reg.Get(v.Class, key)
		if !ok {
			return nil, fmt.Errorf("wire: %w: %s:%d", ErrUnknownInstance, v.Class, key)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("wire: %w: unknown tag %q", ErrMalformedWire, v.T)
	}
}
