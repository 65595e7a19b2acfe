// Package rpcclient implements component D of spec.md: the RPC client
// that runs in the controller process, issuing calls against the agent
// and vending stub objects.
package rpcclient

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/leonletto/pyprobe/internal/rpcproto"
	"github.com/leonletto/pyprobe/internal/transport"
	"github.com/leonletto/pyprobe/internal/wire"
)

// RemoteException is raised when the agent reports that a proxy
// operation itself failed inside the target (spec.md §7's "remote
// exception" row). It preserves the remote class name and message.
type RemoteException struct {
	Class   string
	Message string
}

func (e *RemoteException) Error() string {
	return fmt.Sprintf("remote exception (%s): %s", e.Class, e.Message)
}

// RPCError is raised for protocol-level failures reported by the agent
// (unknown class/member, unknown identity, malformed wire) — distinct
// from a RemoteException per spec.md §4.D.
type RPCError struct{ Message string }

func (e *RPCError) Error() string { return "rpc error: " + e.Message }

// Client is not safe for concurrent use from multiple goroutines
// (spec.md §5: "the RPC client is not documented as re-entrant-safe").
// Callers sharing one session must serialize their calls externally.
type Client struct {
	mu    sync.Mutex
	conn  *transport.Conn
	stubs *wire.StubRegistry
}

// Dial connects to the agent's Unix socket and returns a Client with an
// empty stub registry. Callers must call RegisterClass for every stub
// type before resolving any stub, then obtain the root Debugger stub via
// GetStub.
func Dial(socketPath string) (*Client, error) {
	conn, err := transport.Dial(socketPath, transport.TransportUnixSocket)
	if err != nil {
		return nil, err
	}
	ctx := transport.WithTransport(context.Background(), conn.Kind())
	log.Printf("rpcclient: dialed %s (transport=%s)", socketPath, transport.GetTransport(ctx))
	c := &Client{conn: conn}
	c.stubs = wire.NewStubRegistry(c)
	return c, nil
}

// RegisterClass exposes the underlying stub registry's registration so
// callers (internal/proxy/remote) can install stub factories without
// reaching into Client's internals directly.
func (c *Client) RegisterClass(class string, factory wire.StubFactory) {
	c.stubs.RegisterClass(class, factory)
}

// GetStub resolves (class, key) to a stub, constructing one if needed.
func (c *Client) GetStub(class string, key int64) (wire.RemoteObject, error) {
	return c.stubs.Get(class, key, true)
}

// Call issues one request and blocks for its response, implementing
// spec.md §4.D. args are already wire-encoded by the caller (CallValue
// uses wire.Serialize with a nil register, so a remote-object argument is
// sent as a class record carrying its class name and key).
func (c *Client) Call(className, member string, args []wire.Value, receiverKey *int64) (wire.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Sanity check mirroring original_source's RPCClient.call: confirm a
	// live stub actually exists locally for the receiver before sending,
	// rather than discovering the mistake only after a round trip.
	if receiverKey != nil {
		if _, err := c.stubs.Get(className, *receiverKey, false); err != nil {
			return wire.Value{}, err
		}
	}

	frame, err := rpcproto.Encode(rpcproto.NewRequest(className, member, args, receiverKey))
	if err != nil {
		return wire.Value{}, err
	}
	if err := c.conn.Send(frame); err != nil {
		return wire.Value{}, fmt.Errorf("rpcclient: send: %w", err)
	}

	raw, err := c.conn.Receive()
	if err != nil {
		return wire.Value{}, fmt.Errorf("rpcclient: transport closed: %w", err)
	}
	msg, err := rpcproto.Decode(raw)
	if err != nil {
		return wire.Value{}, err
	}

	switch msg.S {
	case rpcproto.KindResponse:
		if msg.R == nil {
			return wire.Value{}, fmt.Errorf("rpcclient: response missing result")
		}
		return *msg.R, nil
	case rpcproto.KindException:
		text, _ := rpcproto.ResultString(msg)
		return wire.Value{}, &RemoteException{Class: msg.C, Message: text}
	case rpcproto.KindRPCError:
		text, _ := rpcproto.ResultString(msg)
		return wire.Value{}, &RPCError{Message: text}
	default:
		return wire.Value{}, fmt.Errorf("rpcclient: unknown response kind %q", msg.S)
	}
}

// CallValue is Call plus immediate client-side deserialization of the
// result, the shape most proxy/remote methods actually want.
func (c *Client) CallValue(className, member string, args []any, receiverKey *int64) (any, error) {
	wireArgs := make([]wire.Value, 0, len(args))
	for _, a := range args {
		wv, err := wire.Serialize(nil, a)
		if err != nil {
			return nil, err
		}
		wireArgs = append(wireArgs, wv)
	}
	result, err := c.Call(className, member, wireArgs, receiverKey)
	if err != nil {
		return nil, err
	}
	return wire.DeserializeClient(c.stubs, result)
}

// TerminateServer sends `halt` with no expectation of a response, then
// closes the connection, per spec.md §4.D.
func (c *Client) TerminateServer() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	frame, err := rpcproto.Encode(rpcproto.HaltMessage)
	if err != nil {
		return err
	}
	sendErr := c.conn.Send(frame)
	closeErr := c.conn.Close()
	if sendErr != nil {
		return fmt.Errorf("rpcclient: send halt: %w", sendErr)
	}
	return closeErr
}

// Close closes the connection without sending halt.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
