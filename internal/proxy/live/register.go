package live

import (
	"github.com/leonletto/pyprobe/internal/rpcserver"
	"github.com/leonletto/pyprobe/internal/wire"
)

// Register installs the dispatch tables for Debugger, Inferior, Thread,
// and Frame on srv, and seeds the identity map with the singleton
// Debugger (key 1), per spec.md §4.E and §3.
func Register(srv *rpcserver.Server, identity *wire.IdentityMap, dbg *Debugger) {
	identity.Put("Debugger", 1, dbg)

	srv.RegisterClass("Debugger", rpcserver.ClassTable{
		"list_inferiors":    {Call: func(r any, _ []any) (any, error) { return sliceAny(r.(*Debugger).ListInferiors()) }},
		"selected_inferior": {Call: func(r any, _ []any) (any, error) { return r.(*Debugger).SelectedInferior() }},
		"selected_thread":   {Call: func(r any, _ []any) (any, error) { return r.(*Debugger).SelectedThread() }},
		"execute": {Call: func(r any, args []any) (any, error) {
			return r.(*Debugger).Execute(args[0].(string))
		}},
	})

	srv.RegisterClass("Inferior", rpcserver.ClassTable{
		"threads":      {Get: func(r any) (any, error) { return sliceAny(r.(*Inferior).Threads()) }},
		"pid":          {Get: func(r any) (any, error) { return r.(*Inferior).PID() }},
		"num":          {Get: func(r any) (any, error) { return r.(*Inferior).Key(), nil }},
		"was_attached": {Get: func(r any) (any, error) { return r.(*Inferior).WasAttached() }},
		"is_valid":     {Get: func(r any) (any, error) { return r.(*Inferior).IsValid() }},
	})

	srv.RegisterClass("Thread", rpcserver.ClassTable{
		"local_num": {Get: func(r any) (any, error) { return r.(*Thread).LocalNumber() }},
		"name":      {Get: func(r any) (any, error) { return r.(*Thread).Name() }},
		"is_running": {Get: func(r any) (any, error) { return r.(*Thread).Running() }},
		"is_exited":  {Get: func(r any) (any, error) { return r.(*Thread).Exited() }},
		"is_stopped": {Get: func(r any) (any, error) { return r.(*Thread).Stopped() }},
		"is_valid":   {Get: func(r any) (any, error) { return r.(*Thread).IsValid() }},
		"selected":   {Get: func(r any) (any, error) { return r.(*Thread).Selected() }},
		"inferior": {Get: func(r any) (any, error) {
			// A typed nil *Inferior must not cross into wire.Serialize as
			// a RemoteObject — it would satisfy the interface and then
			// panic dereferencing a nil receiver. Normalize to untyped
			// nil first.
			if inf := r.(*Thread).Inferior(); inf != nil {
				return inf, nil
			}
			return nil, nil
		}},
		"switch":     {Call: func(r any, _ []any) (any, error) { return nil, r.(*Thread).Switch() }},
		"get_python_frames": {Call: func(r any, _ []any) (any, error) {
			return sliceAny(r.(*Thread).GetPythonFrames())
		}},
	})

	srv.RegisterClass("Frame", rpcserver.ClassTable{
		"filename":      {Get: func(r any) (any, error) { return r.(*Frame).Filename() }},
		"line":          {Get: func(r any) (any, error) { return r.(*Frame).Line() }},
		"source_line":   {Get: func(r any) (any, error) { return r.(*Frame).SourceLine() }},
		"optimized_out": {Get: func(r any) (any, error) { return r.(*Frame).OptimizedOut() }},
		"is_eval_frame": {Get: func(r any) (any, error) { return r.(*Frame).IsEvalFrame() }},
		"is_other_interpreter_frame": {Call: func(r any, _ []any) (any, error) {
			return r.(*Frame).IsOtherInterpreterFrame()
		}},
		"get_index":      {Call: func(r any, _ []any) (any, error) { return r.(*Frame).GetIndex() }},
		"check_selected": {Call: func(r any, _ []any) (any, error) { return r.(*Frame).CheckSelected() }},
		"select":         {Call: func(r any, _ []any) (any, error) { return nil, r.(*Frame).Select() }},
		"list_local_variables": {Call: func(r any, _ []any) (any, error) {
			return sliceAnyStrings(r.(*Frame).ListLocalVariables())
		}},
		"list_global_variables": {Call: func(r any, _ []any) (any, error) {
			return sliceAnyStrings(r.(*Frame).ListGlobalVariables())
		}},
		"get_variable_repr": {Call: func(r any, args []any) (any, error) {
			v, err := r.(*Frame).GetVariableRepr(args[0].(string), args[1].(int64))
			if err != nil {
				return nil, err
			}
			if !v.Found {
				return nil, nil
			}
			return []any{v.Scope, v.Repr}, nil
		}},
		"run_simple_string": {Call: func(r any, args []any) (any, error) {
			return r.(*Frame).RunSimpleString(args[0].(string))
		}},
		"run_file": {Call: func(r any, args []any) (any, error) {
			return r.(*Frame).RunFile(args[0].(string))
		}},
	})
}

func sliceAny[T any](items []T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out, nil
}

func sliceAnyStrings(items []string, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out, nil
}
