package remote

// asBool converts a deserialized wire value back into a bool. Go bool
// has no dedicated wire tag (see wire.Serialize); it crosses the wire as
// an int 0/1, so the client side must unpack it explicitly rather than
// type-asserting to bool directly.
func asBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	default:
		return false
	}
}
