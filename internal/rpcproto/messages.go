// Package rpcproto defines the message envelope of the remote-object RPC
// protocol described in spec.md §4.C/§4.D/§6: a tagged JSON frame per
// line, no request IDs, strict FIFO per connection.
package rpcproto

import (
	"encoding/json"
	"fmt"

	"github.com/leonletto/pyprobe/internal/wire"
)

// Kind is the message's "s" field.
type Kind string

const (
	KindRequest   Kind = "request"
	KindResponse  Kind = "response"
	KindException Kind = "exception"
	KindRPCError  Kind = "rpc-error"
	KindHalt      Kind = "halt"
)

// Message is the full set of fields any frame may carry. Only the
// fields relevant to Kind are populated; the rest are zero.
type Message struct {
	S Kind         `json:"s"`
	M string       `json:"m,omitempty"` // class name (request)
	F string       `json:"f,omitempty"` // member name (request)
	A []wire.Value `json:"a,omitempty"` // argument list (request)
	I *int64       `json:"i,omitempty"` // receiver key (request, optional)
	R *wire.Value  `json:"r,omitempty"` // result / error message (response, exception, rpc-error)
	C string       `json:"c,omitempty"` // remote exception class name (exception)
}

// Encode renders m as a single newline-free JSON line, ready to be
// handed to transport.Conn.Send.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("rpcproto: encode: %w", err)
	}
	return data, nil
}

// Decode parses a single frame into a Message.
func Decode(frame []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(frame, &m); err != nil {
		return Message{}, fmt.Errorf("rpcproto: %w: %v", wire.ErrMalformedWire, err)
	}
	return m, nil
}

// NewRequest builds a call-request message (spec.md §4.C).
func NewRequest(class, member string, args []wire.Value, receiverKey *int64) Message {
	return Message{S: KindRequest, M: class, F: member, A: args, I: receiverKey}
}

// NewResponse builds a successful-call response.
func NewResponse(result wire.Value) Message {
	return Message{S: KindResponse, R: &result}
}

// NewException builds a response describing an exception raised by a
// proxy operation inside the target.
func NewException(class, message string) Message {
	r := wire.Str(message)
	return Message{S: KindException, C: class, R: &r}
}

// NewRPCError builds a response describing a protocol-level failure
// (malformed wire, unknown class/member, unknown identity). The
// connection stays open after one of these (spec.md §7).
func NewRPCError(message string) Message {
	r := wire.Str(message)
	return Message{S: KindRPCError, R: &r}
}

// HaltMessage is the sole halt frame; it receives no response.
var HaltMessage = Message{S: KindHalt}

// ResultString extracts the plain string payload of a response/
// exception/rpc-error message's R field, for messages known to carry a
// str-tagged result (exception/rpc-error always do; response does when
// the callee itself returns a string).
func ResultString(m Message) (string, bool) {
	if m.R == nil || m.R.T != wire.TagStr {
		return "", false
	}
	s, ok := m.R.V.(string)
	return s, ok
}
