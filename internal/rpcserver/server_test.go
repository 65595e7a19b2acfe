package rpcserver

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/leonletto/pyprobe/internal/rpcproto"
	"github.com/leonletto/pyprobe/internal/transport"
	"github.com/leonletto/pyprobe/internal/wire"
)

type counter struct {
	key   int64
	value int64
}

func (c *counter) ClassName() string { return "Counter" }
func (c *counter) Key() int64        { return c.key }

func newTestServer(t *testing.T) (*Server, string, *counter) {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "test.sock")
	identity := wire.NewIdentityMap()
	c := &counter{key: 1, value: 41}
	identity.Put("Counter", 1, c)

	srv := NewServer(sock, identity, "[test]")
	srv.RegisterClass("Counter", ClassTable{
		"value": {Get: func(recv any) (any, error) {
			return recv.(*counter).value, nil
		}},
		"add": {Call: func(recv any, args []any) (any, error) {
			n := args[0].(int64)
			recv.(*counter).value += n
			return recv.(*counter).value, nil
		}},
		"boom": {Call: func(recv any, args []any) (any, error) {
			return nil, errors.New("kaboom")
		}},
	})
	return srv, sock, c
}

func serveInBackground(t *testing.T, srv *Server) {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve() }()
	t.Cleanup(func() {
		select {
		case err := <-errCh:
			if err != nil {
				t.Logf("server exited: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Log("server did not exit after test cleanup")
		}
	})
}

func dialWithRetry(t *testing.T, sock string) *transport.Conn {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := transport.Dial(sock, transport.TransportUnixSocket)
		if err == nil {
			return conn
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("could not dial %s", sock)
	return nil
}

func sendRequest(t *testing.T, conn *transport.Conn, class, member string, args []wire.Value, key *int64) rpcproto.Message {
	t.Helper()
	frame, err := rpcproto.Encode(rpcproto.NewRequest(class, member, args, key))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := conn.Send(frame); err != nil {
		t.Fatalf("send: %v", err)
	}
	resp, err := conn.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	msg, err := rpcproto.Decode(resp)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return msg
}

func TestServerPropertyAndMethodDispatch(t *testing.T) {
	srv, sock, _ := newTestServer(t)
	serveInBackground(t, srv)

	conn := dialWithRetry(t, sock)
	defer conn.Close()

	key := int64(1)
	resp := sendRequest(t, conn, "Counter", "value", nil, &key)
	if resp.S != rpcproto.KindResponse || resp.R.V.(int64) != 41 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	resp = sendRequest(t, conn, "Counter", "add", []wire.Value{wire.Int(10)}, &key)
	if resp.S != rpcproto.KindResponse || resp.R.V.(int64) != 51 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestServerUnknownClassIsRPCError(t *testing.T) {
	srv, sock, _ := newTestServer(t)
	serveInBackground(t, srv)

	conn := dialWithRetry(t, sock)
	defer conn.Close()

	key := int64(1)
	resp := sendRequest(t, conn, "Bogus", "value", nil, &key)
	if resp.S != rpcproto.KindRPCError {
		t.Fatalf("expected rpc-error, got %+v", resp)
	}

	// Connection must stay open after an rpc-error (spec.md §7).
	resp = sendRequest(t, conn, "Counter", "value", nil, &key)
	if resp.S != rpcproto.KindResponse {
		t.Fatalf("connection should still be usable after rpc-error, got %+v", resp)
	}
}

func TestServerMemberExceptionIsException(t *testing.T) {
	srv, sock, _ := newTestServer(t)
	serveInBackground(t, srv)

	conn := dialWithRetry(t, sock)
	defer conn.Close()

	key := int64(1)
	resp := sendRequest(t, conn, "Counter", "boom", nil, &key)
	if resp.S != rpcproto.KindException {
		t.Fatalf("expected exception, got %+v", resp)
	}
	if s, _ := rpcproto.ResultString(resp); s != "kaboom" {
		t.Fatalf("unexpected message: %+v", resp)
	}
}

// TestServerFIFOOrdering is spec.md §8 property 6: N queued requests on
// one socket produce responses in the same order.
func TestServerFIFOOrdering(t *testing.T) {
	srv, sock, _ := newTestServer(t)
	serveInBackground(t, srv)

	conn := dialWithRetry(t, sock)
	defer conn.Close()

	key := int64(1)
	const n = 20
	for i := 0; i < n; i++ {
		frame, err := rpcproto.Encode(rpcproto.NewRequest("Counter", "add", []wire.Value{wire.Int(1)}, &key))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if err := conn.Send(frame); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	var last int64
	for i := 0; i < n; i++ {
		resp, err := conn.Receive()
		if err != nil {
			t.Fatalf("receive %d: %v", i, err)
		}
		msg, err := rpcproto.Decode(resp)
		if err != nil {
			t.Fatalf("decode %d: %v", i, err)
		}
		v := msg.R.V.(int64)
		if v <= last {
			t.Fatalf("responses out of order: got %d after %d", v, last)
		}
		last = v
	}
	if last != 41+n {
		t.Fatalf("final value = %d, want %d", last, 41+n)
	}
}

// TestServerHaltIsTerminal is spec.md §8 property 7: after halt, no
// further request from the same client ever receives a response.
func TestServerHaltIsTerminal(t *testing.T) {
	srv, sock, _ := newTestServer(t)
	serveInBackground(t, srv)

	conn := dialWithRetry(t, sock)
	haltFrame, err := rpcproto.Encode(rpcproto.HaltMessage)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := conn.Send(haltFrame); err != nil {
		t.Fatalf("send halt: %v", err)
	}

	key := int64(1)
	frame, err := rpcproto.Encode(rpcproto.NewRequest("Counter", "value", nil, &key))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_ = conn.Send(frame)

	// The server closes the connection on halt, so Receive ending with an
	// error is not a response; only a frame actually read counts as one.
	done := make(chan struct{})
	go func() {
		if _, err := conn.Receive(); err == nil {
			close(done)
		}
	}()
	select {
	case <-done:
		t.Fatal("received a response after halt")
	case <-time.After(200 * time.Millisecond):
		// expected: no response ever arrives.
	}
	conn.Close()
}
