package remote

import "github.com/leonletto/pyprobe/internal/wire"

// Registrar is satisfied by *rpcclient.Client.
type Registrar interface {
	RegisterClass(class string, factory wire.StubFactory)
}

// Register installs the stub factories for all four proxy classes on a
// client, so any class record arriving on the wire can be resolved to
// the matching Go stub type.
func Register(r Registrar) {
	r.RegisterClass("Debugger", func(c wire.RemoteClient, key int64) wire.RemoteObject { return NewDebugger(c, key) })
	r.RegisterClass("Inferior", func(c wire.RemoteClient, key int64) wire.RemoteObject { return NewInferior(c, key) })
	r.RegisterClass("Thread", func(c wire.RemoteClient, key int64) wire.RemoteObject { return NewThread(c, key) })
	r.RegisterClass("Frame", func(c wire.RemoteClient, key int64) wire.RemoteObject { return NewFrame(c, key) })
}

// NewDebugger constructs a Debugger stub directly, used by the session
// layer for the well-known key-1 root object and by tests.
func NewDebugger(c wire.RemoteClient, key int64) *Debugger { return &Debugger{client: c, key: key} }

// NewInferior constructs an Inferior stub directly.
func NewInferior(c wire.RemoteClient, key int64) *Inferior { return &Inferior{client: c, key: key} }

// NewThread constructs a Thread stub directly.
func NewThread(c wire.RemoteClient, key int64) *Thread { return &Thread{client: c, key: key} }

// NewFrame constructs a Frame stub directly.
func NewFrame(c wire.RemoteClient, key int64) *Frame { return &Frame{client: c, key: key} }
