package transport

import (
	"bufio"
	"fmt"
	"net"
)

// Conn is a blocking, synchronous, newline-delimited frame transport
// over a stream socket (spec.md §4.A). Frames are UTF-8 strings
// terminated by a single newline; no newline may appear inside a
// frame, which JSON encoding guarantees for every frame this module
// ever sends. Incoming bytes are reassembled by a LineReader rather
// than decoded as they arrive, so a multi-byte rune split across two
// socket reads is never mis-decoded (spec.md §9; DESIGN.md decision 2).
type Conn struct {
	raw     net.Conn
	kind    Transport
	reader  *LineReader
	pending []string
	writer  *bufio.Writer
}

// Dial connects to a Unix-domain socket at path, tagging the resulting
// connection with kind for logging.
func Dial(path string, kind Transport) (*Conn, error) {
	raw, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", path, err)
	}
	return NewConn(raw, kind), nil
}

// NewConn wraps an already-established connection (used on the accept
// side, where the listener hands back a net.Conn per client).
func NewConn(raw net.Conn, kind Transport) *Conn {
	return &Conn{raw: raw, kind: kind, reader: NewLineReader(), writer: bufio.NewWriter(raw)}
}

// Kind reports the transport this connection was tagged with at
// construction time.
func (c *Conn) Kind() Transport { return c.kind }

// Send writes one frame, appending the terminating newline.
func (c *Conn) Send(frame []byte) error {
	if _, err := c.writer.Write(frame); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	if err := c.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	if err := c.writer.Flush(); err != nil {
		return fmt.Errorf("transport: flush: %w", err)
	}
	return nil
}

// Receive blocks until one full frame (up to and excluding the
// terminating newline) is available, or returns an error if the
// connection is closed first. Raw bytes are fed through a LineReader
// so a line is only ever turned into a []byte once it is complete.
func (c *Conn) Receive() ([]byte, error) {
	for len(c.pending) == 0 {
		if lines := c.reader.Lines(); len(lines) > 0 {
			c.pending = lines
			break
		}
		buf := make([]byte, 4096)
		n, err := c.raw.Read(buf)
		if n > 0 {
			c.reader.Feed(buf[:n])
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("transport: read: %w", err)
		}
	}
	line := c.pending[0]
	c.pending = c.pending[1:]
	return []byte(line), nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.raw.Close() }
