package traverse

import (
	"strconv"
	"testing"

	"github.com/leonletto/pyprobe/internal/proxy/remote"
	"github.com/leonletto/pyprobe/internal/wire"
)

// scriptedClient answers CallValue from a fixed script keyed by
// "class.member:key", letting these tests stand up a fake inferior with
// two threads and frames without a real agent process.
type scriptedClient struct {
	script map[string]any
}

func (c *scriptedClient) Call(class, member string, args []wire.Value, key *int64) (wire.Value, error) {
	panic("not used")
}

func (c *scriptedClient) CallValue(class, member string, args []any, key *int64) (any, error) {
	k := int64(0)
	if key != nil {
		k = *key
	}
	return c.script[keyFor(class, member, k)], nil
}

func keyFor(class, member string, key int64) string {
	return class + "." + member + ":" + strconv.FormatInt(key, 10)
}

func newFixture() (*remote.Inferior, *scriptedClient) {
	client := &scriptedClient{}
	client.script = map[string]any{
		keyFor("Inferior", "threads", 1): []any{
			remote.NewThread(client, 10),
			remote.NewThread(client, 20),
		},
		keyFor("Thread", "switch", 10):            nil,
		keyFor("Thread", "switch", 20):             nil,
		keyFor("Thread", "get_python_frames", 10): []any{remote.NewFrame(client, 100)},
		keyFor("Thread", "get_python_frames", 20): []any{remote.NewFrame(client, 200), remote.NewFrame(client, 201)},
		keyFor("Frame", "get_index", 100):         int64(0),
		keyFor("Frame", "get_index", 200):         int64(1),
		keyFor("Frame", "get_index", 201):         int64(0),
	}
	return remote.NewInferior(client, 1), client
}

func TestTraverseFrameNoFilterVisitsEveryFrame(t *testing.T) {
	inferior, _ := newFixture()
	var visited []int64
	predicate := func(f *remote.Frame) (bool, error) {
		idx, err := f.GetIndex()
		if err != nil {
			return false, err
		}
		visited = append(visited, idx)
		return false, nil
	}
	matched, err := TraverseFrame(inferior, Filter{}, predicate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched {
		t.Fatal("predicate never returns true, traversal should report no match")
	}
	if len(visited) != 3 {
		t.Fatalf("expected 3 frames visited, got %d: %v", len(visited), visited)
	}
}

func TestTraverseFrameFilterByThreadAndFrame(t *testing.T) {
	inferior, _ := newFixture()
	threadID := int64(20)
	frameIdx := int64(0)
	var visited []int64
	predicate := func(f *remote.Frame) (bool, error) {
		idx, err := f.GetIndex()
		if err != nil {
			return false, err
		}
		visited = append(visited, idx)
		return true, nil
	}
	matched, err := TraverseFrame(inferior, Filter{ThreadID: &threadID, FrameIdx: &frameIdx}, predicate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Fatal("expected a match")
	}
	if len(visited) != 1 || visited[0] != 0 {
		t.Fatalf("expected exactly frame idx 0 of thread 20 visited, got %v", visited)
	}
}

func TestVisitStopsAtFirstMatch(t *testing.T) {
	inferior, _ := newFixture()
	calls := 0
	always := func(*remote.Thread) (bool, error) { return true, nil }
	alwaysFrame := func(*remote.Frame) (bool, error) { return true, nil }
	match := func(*remote.Frame) (bool, error) {
		calls++
		return calls == 2, nil
	}
	matched, err := Visit(inferior, always, alwaysFrame, match)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched || calls != 2 {
		t.Fatalf("expected to stop exactly at the second frame, calls=%d matched=%v", calls, matched)
	}
}
