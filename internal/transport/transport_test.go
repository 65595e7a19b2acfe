package transport

import (
	"context"
	"testing"
)

func TestTransportString(t *testing.T) {
	cases := map[Transport]string{
		TransportUnixSocket: "unix_socket",
		TransportStdio:      "stdio",
		TransportUnknown:    "unknown",
		Transport(99):       "unknown",
	}
	for transport, want := range cases {
		if got := transport.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", transport, got, want)
		}
	}
}

func TestGetTransportDefaultsToUnknown(t *testing.T) {
	if got := GetTransport(context.Background()); got != TransportUnknown {
		t.Errorf("GetTransport(empty context) = %v, want TransportUnknown", got)
	}
}

func TestWithTransportRoundTrips(t *testing.T) {
	ctx := WithTransport(context.Background(), TransportStdio)
	if got := GetTransport(ctx); got != TransportStdio {
		t.Errorf("GetTransport(ctx) = %v, want TransportStdio", got)
	}
}
