package remote

import "github.com/leonletto/pyprobe/internal/wire"

type Thread struct {
	client wire.RemoteClient
	key    int64
}

func (t *Thread) ClassName() string { return "Thread" }
func (t *Thread) Key() int64        { return t.key }

func (t *Thread) LocalNumber() (int64, error) {
	v, err := call(t.client, "Thread", "local_num", nil, &t.key)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (t *Thread) Name() (string, error) {
	v, err := call(t.client, "Thread", "name", nil, &t.key)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (t *Thread) Running() (bool, error) {
	v, err := call(t.client, "Thread", "is_running", nil, &t.key)
	return asBool(v), err
}

func (t *Thread) Exited() (bool, error) {
	v, err := call(t.client, "Thread", "is_exited", nil, &t.key)
	return asBool(v), err
}

func (t *Thread) Stopped() (bool, error) {
	v, err := call(t.client, "Thread", "is_stopped", nil, &t.key)
	return asBool(v), err
}

func (t *Thread) IsValid() (bool, error) {
	v, err := call(t.client, "Thread", "is_valid", nil, &t.key)
	return asBool(v), err
}

func (t *Thread) Selected() (bool, error) {
	v, err := call(t.client, "Thread", "selected", nil, &t.key)
	return asBool(v), err
}

// Inferior returns the owning inferior stub, or nil if the server side
// does not know it (a thread resolved outside Inferior.Threads()).
func (t *Thread) Inferior() (*Inferior, error) {
	v, err := call(t.client, "Thread", "inferior", nil, &t.key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(*Inferior), nil
}

func (t *Thread) Switch() error {
	_, err := call(t.client, "Thread", "switch", nil, &t.key)
	return err
}

func (t *Thread) GetPythonFrames() ([]*Frame, error) {
	v, err := call(t.client, "Thread", "get_python_frames", nil, &t.key)
	if err != nil {
		return nil, err
	}
	items := v.([]any)
	out := make([]*Frame, len(items))
	for i, it := range items {
		out[i] = it.(*Frame)
	}
	return out, nil
}
