package remote

import "github.com/leonletto/pyprobe/internal/wire"

type Inferior struct {
	client wire.RemoteClient
	key    int64
}

func (i *Inferior) ClassName() string { return "Inferior" }
func (i *Inferior) Key() int64        { return i.key }

func (i *Inferior) Threads() ([]*Thread, error) {
	v, err := call(i.client, "Inferior", "threads", nil, &i.key)
	if err != nil {
		return nil, err
	}
	items := v.([]any)
	out := make([]*Thread, len(items))
	for idx, it := range items {
		out[idx] = it.(*Thread)
	}
	return out, nil
}

func (i *Inferior) PID() (int64, error) {
	v, err := call(i.client, "Inferior", "pid", nil, &i.key)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (i *Inferior) WasAttached() (bool, error) {
	v, err := call(i.client, "Inferior", "was_attached", nil, &i.key)
	if err != nil {
		return false, err
	}
	return asBool(v), nil
}

func (i *Inferior) IsValid() (bool, error) {
	v, err := call(i.client, "Inferior", "is_valid", nil, &i.key)
	if err != nil {
		return false, err
	}
	return asBool(v), nil
}
