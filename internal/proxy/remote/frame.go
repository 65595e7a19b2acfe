package remote

import "github.com/leonletto/pyprobe/internal/wire"

type Frame struct {
	client wire.RemoteClient
	key    int64
}

func (f *Frame) ClassName() string { return "Frame" }
func (f *Frame) Key() int64        { return f.key }

func (f *Frame) Filename() (string, error) {
	v, err := call(f.client, "Frame", "filename", nil, &f.key)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (f *Frame) Line() (int64, error) {
	v, err := call(f.client, "Frame", "line", nil, &f.key)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (f *Frame) SourceLine() (string, error) {
	v, err := call(f.client, "Frame", "source_line", nil, &f.key)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (f *Frame) OptimizedOut() (bool, error) {
	v, err := call(f.client, "Frame", "optimized_out", nil, &f.key)
	return asBool(v), err
}

func (f *Frame) IsEvalFrame() (bool, error) {
	v, err := call(f.client, "Frame", "is_eval_frame", nil, &f.key)
	return asBool(v), err
}

func (f *Frame) IsOtherInterpreterFrame() (string, error) {
	v, err := call(f.client, "Frame", "is_other_interpreter_frame", nil, &f.key)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (f *Frame) GetIndex() (int64, error) {
	v, err := call(f.client, "Frame", "get_index", nil, &f.key)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (f *Frame) CheckSelected() (bool, error) {
	v, err := call(f.client, "Frame", "check_selected", nil, &f.key)
	return asBool(v), err
}

func (f *Frame) Select() error {
	_, err := call(f.client, "Frame", "select", nil, &f.key)
	return err
}

func (f *Frame) ListLocalVariables() ([]string, error) {
	return f.stringList("list_local_variables")
}

func (f *Frame) ListGlobalVariables() ([]string, error) {
	return f.stringList("list_global_variables")
}

func (f *Frame) stringList(member string) ([]string, error) {
	v, err := call(f.client, "Frame", member, nil, &f.key)
	if err != nil {
		return nil, err
	}
	items := v.([]any)
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.(string)
	}
	return out, nil
}

// VariableRepr mirrors live.VariableRepr on the client side.
type VariableRepr struct {
	Scope string
	Repr  string
	Found bool
}

func (f *Frame) GetVariableRepr(name string, maxLen int64) (VariableRepr, error) {
	v, err := call(f.client, "Frame", "get_variable_repr", []any{name, maxLen}, &f.key)
	if err != nil {
		return VariableRepr{}, err
	}
	if v == nil {
		return VariableRepr{Found: false}, nil
	}
	pair := v.([]any)
	return VariableRepr{Scope: pair[0].(string), Repr: pair[1].(string), Found: true}, nil
}

func (f *Frame) RunSimpleString(source string) (string, error) {
	v, err := call(f.client, "Frame", "run_simple_string", []any{source}, &f.key)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (f *Frame) RunFile(path string) (string, error) {
	v, err := call(f.client, "Frame", "run_file", []any{path}, &f.key)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
