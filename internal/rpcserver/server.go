// Package rpcserver implements component C of spec.md: the RPC server
// that runs inside the agent process, dispatching method and property
// calls against a registered per-class member table.
package rpcserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/leonletto/pyprobe/internal/rpcproto"
	"github.com/leonletto/pyprobe/internal/transport"
	"github.com/leonletto/pyprobe/internal/wire"
)

// Getter implements a property read: one argument (the receiver), one
// return value.
type Getter func(receiver any) (any, error)

// Method implements a method call: the receiver plus the decoded
// argument list.
type Method func(receiver any, args []any) (any, error)

// Member is one entry of a class's dispatch table. Exactly one of Get or
// Call is set. This is the static, per-class dispatch table spec.md §9
// recommends in place of dynamic method discovery.
type Member struct {
	Get  Getter
	Call Method
}

// ClassTable maps member name to its implementation for one class.
type ClassTable map[string]Member

// Server accepts connections on a Unix socket and dispatches requests
// against the registered classes, per spec.md §4.C. It is strictly
// single-threaded: only one request is ever in flight, and one
// connection is handled fully before another is accepted.
type Server struct {
	socketPath string
	identity   *wire.IdentityMap
	classes    map[string]ClassTable
	logPrefix  string
}

// NewServer returns a Server bound to socketPath (not yet listening) and
// backed by identity, the live-object identity map populated as proxy
// objects are registered (see internal/proxy/live).
func NewServer(socketPath string, identity *wire.IdentityMap, logPrefix string) *Server {
	return &Server{
		socketPath: socketPath,
		identity:   identity,
		classes:    make(map[string]ClassTable),
		logPrefix:  logPrefix,
	}
}

// RegisterClass installs the dispatch table for one class name.
// Registering the same class twice is a programmer error.
func (s *Server) RegisterClass(class string, table ClassTable) {
	if _, exists := s.classes[class]; exists {
		panic(fmt.Sprintf("rpcserver: class %q already registered", class))
	}
	s.classes[class] = table
}

// Serve listens on the socket and processes connections until a halt
// request is received, then removes the socket file and returns.
func (s *Server) Serve() error {
	if err := os.RemoveAll(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rpcserver: remove stale socket: %w", err)
	}
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("rpcserver: listen %s: %w", s.socketPath, err)
	}
	defer os.Remove(s.socketPath)
	defer listener.Close()

	ctx := transport.WithTransport(context.Background(), transport.TransportUnixSocket)
	for {
		raw, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("rpcserver: accept: %w", err)
		}
		log.Printf("%s rpcserver: accepted connection (transport=%s)", s.logPrefix, transport.GetTransport(ctx))
		halted := s.handleConnection(transport.NewConn(raw, transport.GetTransport(ctx)))
		if halted {
			return nil
		}
	}
}

// handleConnection processes requests from one client sequentially,
// writing one response per request, until a halt request is received or
// the connection closes. It reports whether halt was requested.
func (s *Server) handleConnection(conn *transport.Conn) (halted bool) {
	defer conn.Close()
	for {
		frame, err := conn.Receive()
		if err != nil {
			// Peer closed the connection without sending halt; this is
			// the normal "controller went away" case, not an error the
			// server needs to report (spec.md §7: transport errors tear
			// the session down at a higher layer).
			log.Printf("%s rpcserver: %s connection closed: %v", s.logPrefix, conn.Kind(), err)
			return false
		}

		msg, err := rpcproto.Decode(frame)
		if err != nil {
			s.reply(conn, rpcproto.NewRPCError(err.Error()))
			continue
		}

		switch msg.S {
		case rpcproto.KindHalt:
			return true
		case rpcproto.KindRequest:
			s.dispatchAndReply(conn, msg)
		default:
			s.reply(conn, rpcproto.NewRPCError(fmt.Sprintf("unexpected message kind %q", msg.S)))
		}
	}
}

// rpcError is returned by dispatch for lookup/deserialization failures,
// which spec.md §7 says must be surfaced as "rpc-error" and must not
// close the connection.
type rpcError struct{ msg string }

func (e *rpcError) Error() string { return e.msg }

// remoteException is returned by dispatch when the member implementation
// itself raised, surfaced to the client as "exception".
type remoteException struct {
	class string
	msg   string
}

func (e *remoteException) Error() string { return e.msg }

func (s *Server) dispatchAndReply(conn *transport.Conn, msg rpcproto.Message) {
	result, err := s.dispatch(msg)
	if err != nil {
		var rerr *rpcError
		var exc *remoteException
		switch {
		case errors.As(err, &rerr):
			s.reply(conn, rpcproto.NewRPCError(rerr.msg))
		case errors.As(err, &exc):
			s.reply(conn, rpcproto.NewException(exc.class, exc.msg))
		default:
			s.reply(conn, rpcproto.NewRPCError(err.Error()))
		}
		return
	}
	s.reply(conn, rpcproto.NewResponse(result))
}

func (s *Server) dispatch(msg rpcproto.Message) (wire.Value, error) {
	table, ok := s.classes[msg.M]
	if !ok {
		return wire.Value{}, &rpcError{msg: fmt.Sprintf("class:%s not found", msg.M)}
	}
	member, ok := table[msg.F]
	if !ok {
		return wire.Value{}, &rpcError{msg: fmt.Sprintf("func: %s not found in class:%s", msg.F, msg.M)}
	}

	args := make([]any, 0, len(msg.A))
	for _, a := range msg.A {
		dv, err := wire.DeserializeServer(s.identity, a)
		if err != nil {
			return wire.Value{}, &rpcError{msg: "failed to deserialize argument: " + err.Error()}
		}
		args = append(args, dv)
	}

	if msg.I == nil {
		return wire.Value{}, &rpcError{msg: "missing receiver key"}
	}
	receiver, ok := s.identity.Get(msg.M, *msg.I)
	if !ok {
		return wire.Value{}, &rpcError{msg: "failed to deserialize instance"}
	}

	var result any
	var callErr error
	switch {
	case member.Get != nil:
		result, callErr = member.Get(receiver)
	case member.Call != nil:
		result, callErr = member.Call(receiver, args)
	default:
		return wire.Value{}, &rpcError{msg: fmt.Sprintf("func: %s not found in class:%s", msg.F, msg.M)}
	}
	if callErr != nil {
		return wire.Value{}, &remoteException{class: exceptionClassName(callErr), msg: callErr.Error()}
	}

	wireResult, err := wire.Serialize(s.identity.Put, result)
	if err != nil {
		return wire.Value{}, &rpcError{msg: "failed to serialize result: " + err.Error()}
	}
	return wireResult, nil
}

// exceptionClassName gives remote exceptions a stable, typed-looking
// name on the wire even though Go errors are not classes; types that
// want a specific name can implement `ClassName() string`.
func exceptionClassName(err error) string {
	if named, ok := err.(interface{ ClassName() string }); ok {
		return named.ClassName()
	}
	return "RuntimeError"
}

func (s *Server) reply(conn *transport.Conn, msg rpcproto.Message) {
	frame, err := rpcproto.Encode(msg)
	if err != nil {
		log.Printf("%s rpcserver: encode reply: %v", s.logPrefix, err)
		return
	}
	if err := conn.Send(frame); err != nil {
		log.Printf("%s rpcserver: send reply: %v", s.logPrefix, err)
	}
}
