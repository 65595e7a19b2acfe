package rpcclient

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/leonletto/pyprobe/internal/rpcserver"
	"github.com/leonletto/pyprobe/internal/wire"
)

type fakeCounter struct {
	key   int64
	value int64
}

func (c *fakeCounter) ClassName() string { return "Counter" }
func (c *fakeCounter) Key() int64        { return c.key }

type counterStub struct {
	client *Client
	key    int64
}

func (s *counterStub) ClassName() string { return "Counter" }
func (s *counterStub) Key() int64        { return s.key }

func (s *counterStub) Value() (int64, error) {
	v, err := s.client.CallValue("Counter", "value", nil, &s.key)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (s *counterStub) Add(n int64) (int64, error) {
	v, err := s.client.CallValue("Counter", "add", []any{n}, &s.key)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (s *counterStub) Boom() error {
	_, err := s.client.CallValue("Counter", "boom", nil, &s.key)
	return err
}

func startServer(t *testing.T) string {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "test.sock")
	identity := wire.NewIdentityMap()
	identity.Put("Counter", 1, &fakeCounter{key: 1, value: 10})

	srv := rpcserver.NewServer(sock, identity, "[test]")
	srv.RegisterClass("Counter", rpcserver.ClassTable{
		"value": {Get: func(recv any) (any, error) { return recv.(*fakeCounter).value, nil }},
		"add": {Call: func(recv any, args []any) (any, error) {
			recv.(*fakeCounter).value += args[0].(int64)
			return recv.(*fakeCounter).value, nil
		}},
		"boom": {Call: func(recv any, args []any) (any, error) {
			return nil, errors.New("target misbehaved")
		}},
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve() }()
	t.Cleanup(func() {
		select {
		case <-errCh:
		case <-time.After(2 * time.Second):
			t.Log("server still running at cleanup")
		}
	})
	return sock
}

func dialClient(t *testing.T, sock string) *Client {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var client *Client
	var err error
	for time.Now().Before(deadline) {
		client, err = Dial(sock)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	client.RegisterClass("Counter", func(rc wire.RemoteClient, key int64) wire.RemoteObject {
		return &counterStub{client: client, key: key}
	})
	return client
}

func TestClientCallRoundTrip(t *testing.T) {
	sock := startServer(t)
	client := dialClient(t, sock)
	defer client.Close()

	stub, err := client.GetStub("Counter", 1)
	if err != nil {
		t.Fatalf("GetStub: %v", err)
	}
	counter := stub.(*counterStub)

	v, err := counter.Value()
	if err != nil || v != 10 {
		t.Fatalf("Value() = %v, %v", v, err)
	}
	v, err = counter.Add(5)
	if err != nil || v != 15 {
		t.Fatalf("Add(5) = %v, %v", v, err)
	}
}

func TestClientStubIdentityStability(t *testing.T) {
	sock := startServer(t)
	client := dialClient(t, sock)
	defer client.Close()

	s1, err := client.GetStub("Counter", 1)
	if err != nil {
		t.Fatalf("GetStub: %v", err)
	}
	s2, err := client.GetStub("Counter", 1)
	if err != nil {
		t.Fatalf("GetStub: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("expected the same stub instance for repeated resolution")
	}
}

func TestClientRemoteExceptionPreservesClassAndMessage(t *testing.T) {
	sock := startServer(t)
	client := dialClient(t, sock)
	defer client.Close()

	stub, err := client.GetStub("Counter", 1)
	if err != nil {
		t.Fatalf("GetStub: %v", err)
	}
	err = stub.(*counterStub).Boom()
	if err == nil {
		t.Fatal("expected an error")
	}
	var remoteErr *RemoteException
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected *RemoteException, got %T: %v", err, err)
	}
	if remoteErr.Message != "target misbehaved" {
		t.Fatalf("unexpected message: %q", remoteErr.Message)
	}
}

func TestClientUnknownReceiverFailsLocally(t *testing.T) {
	sock := startServer(t)
	client := dialClient(t, sock)
	defer client.Close()

	key := int64(999)
	_, err := client.CallValue("Counter", "value", nil, &key)
	if err == nil {
		t.Fatal("expected an error calling with an unresolved receiver key")
	}
}

// TestHaltRaceProducesTransportClosedError is spec.md §8 scenario S6:
// after halt, a subsequent call raises a transport-closed error without
// hanging.
func TestHaltRaceProducesTransportClosedError(t *testing.T) {
	sock := startServer(t)
	client := dialClient(t, sock)

	if err := client.TerminateServer(); err != nil {
		t.Fatalf("TerminateServer: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := client.CallValue("Counter", "value", nil, nil)
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error after halt")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("call hung after halt instead of failing")
	}
}
