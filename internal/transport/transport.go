package transport

import "context"

// Transport represents the type of connection transport.
type Transport int

const (
	// TransportUnknown represents an unknown transport type.
	TransportUnknown Transport = iota
	// TransportUnixSocket represents the controller<->agent RPC socket.
	TransportUnixSocket
	// TransportStdio represents the interactive-attach byte-stream
	// bridge between the operator's terminal and the target's
	// line-oriented debugger.
	TransportStdio
)

// String returns the string representation of a transport type.
func (t Transport) String() string {
	switch t {
	case TransportUnixSocket:
		return "unix_socket"
	case TransportStdio:
		return "stdio"
	default:
		return "unknown"
	}
}

// transportKey is the context key for transport type.
type transportKey struct{}

// WithTransport returns a new context with the transport type set.
func WithTransport(ctx context.Context, transport Transport) context.Context {
	return context.WithValue(ctx, transportKey{}, transport)
}

// GetTransport retrieves the transport type from the context.
// Returns TransportUnknown if not set.
func GetTransport(ctx context.Context) Transport {
	if t, ok := ctx.Value(transportKey{}).(Transport); ok {
		return t
	}
	return TransportUnknown
}
