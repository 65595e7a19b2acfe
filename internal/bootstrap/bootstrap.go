// Package bootstrap renders the templated scripts the session lifecycle
// materializes per spec.md §4.G: the Python helper module loaded into
// the native debugger once per session, and the attach-debugger script
// rendered per interactive-attach command.
package bootstrap

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*
var templateFS embed.FS

var (
	helpersTmpl = template.Must(template.ParseFS(templateFS, "templates/pyprobe_helpers.py.tmpl"))
	attachTmpl  = template.Must(template.ParseFS(templateFS, "templates/attach_debugger.py.tmpl"))
)

// RenderHelpers produces the Python source installed into the debugger's
// interpreter, exposing the functions internal/gdbmi.EvalJSON calls by
// name (list_inferiors, thread_state, frame_state, ...). The template
// takes no parameters: it only ever reaches into gdb's own API and the
// Frame class the debugger's auto-loaded CPython support script binds
// into __main__, so there is nothing session-specific to fill in.
func RenderHelpers() (string, error) {
	var buf bytes.Buffer
	if err := helpersTmpl.Execute(&buf, nil); err != nil {
		return "", fmt.Errorf("bootstrap: render helpers: %w", err)
	}
	return buf.String(), nil
}

// AttachData parameterizes the attach-debugger script.
type AttachData struct {
	SocketPath         string
	DebuggerModule     string // e.g. "pdb"
	DebuggerEntryPoint string // e.g. "set_trace" or "Pdb().cmdloop"
}

// RenderAttach produces the Python source handed to Frame.RunFile for an
// interactive-attach command.
func RenderAttach(data AttachData) (string, error) {
	var buf bytes.Buffer
	if err := attachTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("bootstrap: render attach script: %w", err)
	}
	return buf.String(), nil
}
