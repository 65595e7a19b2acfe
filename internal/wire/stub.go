package wire

import (
	"fmt"
	"sync"
)

// RemoteClient is the controller-side call surface a stub factory needs.
// internal/rpcclient.Client satisfies this structurally; wire does not
// import rpcclient, so there is no import cycle between the two.
type RemoteClient interface {
	Call(className, member string, args []Value, receiverKey *int64) (Value, error)
}

// StubFactory constructs a new client-side stub bound to client, for the
// given identity key.
type StubFactory func(client RemoteClient, key int64) RemoteObject

// StubRegistry is the client-side (class name, key) -> stub map described
// in spec.md §3. Stub construction is idempotent: repeated resolution of
// the same (class, key) returns the same stub instance (testable
// property #2).
type StubRegistry struct {
	mu        sync.Mutex
	client    RemoteClient
	factories map[string]StubFactory
	stubs     map[string]map[int64]RemoteObject
}

func NewStubRegistry(client RemoteClient) *StubRegistry {
	return &StubRegistry{
		client:    client,
		factories: make(map[string]StubFactory),
		stubs:     make(map[string]map[int64]RemoteObject),
	}
}

// RegisterClass associates a class name with the factory used to build
// its stub. Registering the same class name twice is a programmer error.
func (r *StubRegistry) RegisterClass(class string, factory StubFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[class]; exists {
		panic(fmt.Sprintf("wire: stub class %q already registered", class))
	}
	r.factories[class] = factory
}

// Get resolves (class, key) to a stub. If createStub is true and no stub
// exists yet, one is constructed via the registered factory and cached.
func (r *StubRegistry) Get(class string, key int64, createStub bool) (RemoteObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.stubs[class]
	if ok {
		if stub, ok := bucket[key]; ok {
			return stub, nil
		}
	}
	if !createStub {
		return nil, fmt.Errorf("wire: %w: %s:%d", ErrUnknownInstance, class, key)
	}

	factory, ok := r.factories[class]
	if !ok {
		return nil, fmt.Errorf("wire: %w: %s", ErrUnknownClass, class)
	}
	stub := factory(r.client, key)
	if bucket == nil {
		bucket = make(map[int64]RemoteObject)
		r.stubs[class] = bucket
	}
	bucket[key] = stub
	return stub, nil
}

// Put seeds the registry with an already-constructed stub, overwriting
// any stub cached under (class, key). Nothing in this module calls it:
// the session layer obtains the debugger singleton through Get via
// rpcclient.Client.GetStub.
func (r *StubRegistry) Put(class string, key int64, stub RemoteObject) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket, ok := r.stubs[class]
	if !ok {
		bucket = make(map[int64]RemoteObject)
		r.stubs[class] = bucket
	}
	bucket[key] = stub
}

// DeserializeClient resolves a wire Value on the controller side. Class
// records always create a stub when one does not yet exist, since the
// controller only ever hears about objects the agent has decided to
// expose.
func DeserializeClient(reg *StubRegistry, v Value) (any, error) {
	switch v.T {
	case TagNone:
		return nil, nil
	case TagInt:
		return v.V.(int64), nil
	case TagFloat:
		return v.V.(float64), nil
	case TagStr:
		return v.V.(string), nil
	case TagList:
		items := v.V.([]Value)
		out := make([]any, 0, len(items))
		for _, item := range items {
			dv, err := DeserializeClient(reg, item)
			if err != nil {
				return nil, err
			}
			out = append(out, dv)
		}
		return out, nil
	case TagDict:
		return v.V.(OrderedMap), nil
	case TagClass:
		key := v.V.(int64)
		return reg.Get(v.Class, key, true)
	default:
		return nil, fmt.Errorf("wire: %w: unknown tag %q", ErrMalformedWire, v.T)
	}
}
