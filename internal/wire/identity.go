package wire

import "sync"

// RemoteObject is implemented by every live server-side proxy object
// (Debugger, Inferior, Thread, Frame) and by every client-side stub.
// Key is the stable integer identity described in spec.md §3: 1 for the
// debugger singleton, the inferior/thread number, or the frame
// descriptor's address.
type RemoteObject interface {
	ClassName() string
	Key() int64
}

// IdentityMap is the server-side (class name, key) -> live object map.
// Entries persist for the session's lifetime; there is no GC, matching
// spec.md §3 ("no GC is specified because the debugger tears down with
// the process").
type IdentityMap struct {
	mu      sync.RWMutex
	objects map[string]map[int64]any
}

func NewIdentityMap() *IdentityMap {
	return &IdentityMap{objects: make(map[string]map[int64]any)}
}

// Put registers obj under (class, key), overwriting any previous entry.
// Re-registering the same (class, key) with an equivalent object is the
// normal case (repeated serialization of the same live object).
func (m *IdentityMap) Put(class string, key int64, obj any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.objects[class]
	if !ok {
		bucket = make(map[int64]any)
		m.objects[class] = bucket
	}
	bucket[key] = obj
}

// Get resolves (class, key) to a live object. ok is false if the class
// was never registered or the key is unknown within it.
func (m *IdentityMap) Get(class string, key int64) (obj any, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bucket, ok := m.objects[class]
	if !ok {
		return nil, false
	}
	obj, ok = bucket[key]
	return obj, ok
}
