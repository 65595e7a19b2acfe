// Package remote implements the controller-side stub equivalents of
// internal/proxy/live's Debugger, Inferior, Thread, and Frame proxies.
// Every stub forwards attribute reads and calls as RPCs through a
// shared wire.RemoteClient (spec.md glossary: "Stub").
package remote

import "github.com/leonletto/pyprobe/internal/wire"

// Debugger is the client-side handle for the root proxy (key 1).
type Debugger struct {
	client wire.RemoteClient
	key    int64
}

func (d *Debugger) ClassName() string { return "Debugger" }
func (d *Debugger) Key() int64        { return d.key }

func (d *Debugger) ListInferiors() ([]*Inferior, error) {
	v, err := call(d.client, "Debugger", "list_inferiors", nil, &d.key)
	if err != nil {
		return nil, err
	}
	items := v.([]any)
	out := make([]*Inferior, len(items))
	for i, it := range items {
		out[i] = it.(*Inferior)
	}
	return out, nil
}

func (d *Debugger) SelectedInferior() (*Inferior, error) {
	v, err := call(d.client, "Debugger", "selected_inferior", nil, &d.key)
	if err != nil {
		return nil, err
	}
	return v.(*Inferior), nil
}

func (d *Debugger) SelectedThread() (*Thread, error) {
	v, err := call(d.client, "Debugger", "selected_thread", nil, &d.key)
	if err != nil {
		return nil, err
	}
	return v.(*Thread), nil
}

func (d *Debugger) Execute(cmd string) (string, error) {
	v, err := call(d.client, "Debugger", "execute", []any{cmd}, &d.key)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// call adapts the untyped wire.RemoteClient interface (which returns
// wire.Value) to the CallValue-style result most stub methods want, by
// asking the client to deserialize through whatever stub registry it
// owns. Concrete *rpcclient.Client satisfies this via its CallValue
// method; the narrower RemoteClient interface in package wire only
// promises Call, so stubs route through a small local adapter instead.
func call(c wire.RemoteClient, class, member string, args []any, key *int64) (any, error) {
	if valuer, ok := c.(valueCaller); ok {
		return valuer.CallValue(class, member, args, key)
	}
	wireArgs := make([]wire.Value, 0, len(args))
	for _, a := range args {
		wv, err := wire.Serialize(nil, a)
		if err != nil {
			return nil, err
		}
		wireArgs = append(wireArgs, wv)
	}
	_, err := c.Call(class, member, wireArgs, key)
	return nil, err
}

// valueCaller is satisfied by *rpcclient.Client without importing it
// directly here, so this package depends only on wire (remote stubs are
// registered against a *rpcclient.Client by the session layer, not by
// this package).
type valueCaller interface {
	CallValue(class, member string, args []any, key *int64) (any, error)
}
