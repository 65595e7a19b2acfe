package mcpserver

import (
	"context"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/leonletto/pyprobe/internal/proxy/remote"
)

// InspectInput identifies the target process and optional controller
// flags mirroring pyprobe's --executable/--context.
type InspectInput struct {
	PID        int    `json:"pid"`
	Executable string `json:"executable,omitempty"`
	Context    string `json:"context,omitempty"`
}

type FrameInfo struct {
	Index      int64  `json:"index"`
	Filename   string `json:"filename"`
	Line       int64  `json:"line"`
	SourceLine string `json:"source_line,omitempty"`
}

type ThreadInfo struct {
	Num    int64       `json:"num"`
	Name   string      `json:"name"`
	Frames []FrameInfo `json:"frames"`
}

type InspectOutput struct {
	Threads []ThreadInfo `json:"threads"`
}

func (s *Server) handleInspect(ctx context.Context, req *gomcp.CallToolRequest, input InspectInput) (*gomcp.CallToolResult, InspectOutput, error) {
	var out InspectOutput
	err := withInferior(ctx, input.PID, input.Executable, input.Context, func(inferior *remote.Inferior) error {
		threads, err := inferior.Threads()
		if err != nil {
			return err
		}
		for _, thread := range threads {
			name, err := thread.Name()
			if err != nil {
				return err
			}
			if err := thread.Switch(); err != nil {
				return err
			}
			frames, err := thread.GetPythonFrames()
			if err != nil {
				return err
			}
			info := ThreadInfo{Num: thread.Key(), Name: name}
			for _, f := range frames {
				fi, err := frameInfo(f)
				if err != nil {
					return err
				}
				info.Frames = append(info.Frames, fi)
			}
			out.Threads = append(out.Threads, info)
		}
		return nil
	})
	if err != nil {
		return nil, InspectOutput{}, err
	}
	return nil, out, nil
}

func frameInfo(f *remote.Frame) (FrameInfo, error) {
	idx, err := f.GetIndex()
	if err != nil {
		return FrameInfo{}, err
	}
	filename, err := f.Filename()
	if err != nil {
		return FrameInfo{}, err
	}
	line, err := f.Line()
	if err != nil {
		return FrameInfo{}, err
	}
	sourceLine, err := f.SourceLine()
	if err != nil {
		return FrameInfo{}, err
	}
	return FrameInfo{Index: idx, Filename: filename, Line: line, SourceLine: sourceLine}, nil
}

// RunFileInput (run_file) and RunScriptInput (run_script) carry the same
// fields apart from the payload (a file path or a literal source): the
// target PID, the optional controller flags, and the optional
// thread/frame filter.
type RunFileInput struct {
	PID        int    `json:"pid"`
	Executable string `json:"executable,omitempty"`
	Context    string `json:"context,omitempty"`
	Path       string `json:"path"`
	Thread     *int64 `json:"thread,omitempty"`
	Frame      *int64 `json:"frame,omitempty"`
}

type RunScriptInput struct {
	PID        int    `json:"pid"`
	Executable string `json:"executable,omitempty"`
	Context    string `json:"context,omitempty"`
	Source     string `json:"source"`
	Thread     *int64 `json:"thread,omitempty"`
	Frame      *int64 `json:"frame,omitempty"`
}

type RunOutput struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (s *Server) handleRunFile(ctx context.Context, req *gomcp.CallToolRequest, input RunFileInput) (*gomcp.CallToolResult, RunOutput, error) {
	if err := rejectQuotedPath(input.Path); err != nil {
		return nil, RunOutput{}, err
	}
	var out RunOutput
	err := withInferior(ctx, input.PID, input.Executable, input.Context, func(inferior *remote.Inferior) error {
		matched, output, err := runTraversalFor(inferior, input.Thread, input.Frame, func(f *remote.Frame) (string, error) {
			return f.RunFile(input.Path)
		})
		if err != nil {
			return err
		}
		out.Success = matched
		out.Output = output
		if !matched && (input.Thread != nil || input.Frame != nil) {
			out.Hint = "try again without thread/frame filters"
		}
		return nil
	})
	if err != nil {
		return nil, RunOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleRunScript(ctx context.Context, req *gomcp.CallToolRequest, input RunScriptInput) (*gomcp.CallToolResult, RunOutput, error) {
	var out RunOutput
	err := withInferior(ctx, input.PID, input.Executable, input.Context, func(inferior *remote.Inferior) error {
		matched, output, err := runTraversalFor(inferior, input.Thread, input.Frame, func(f *remote.Frame) (string, error) {
			return f.RunSimpleString(input.Source)
		})
		if err != nil {
			return err
		}
		out.Success = matched
		out.Output = output
		if !matched && (input.Thread != nil || input.Frame != nil) {
			out.Hint = "try again without thread/frame filters"
		}
		return nil
	})
	if err != nil {
		return nil, RunOutput{}, err
	}
	return nil, out, nil
}
