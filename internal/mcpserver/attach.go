package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leonletto/pyprobe/internal/proxy/remote"
	"github.com/leonletto/pyprobe/internal/session"
	"github.com/leonletto/pyprobe/internal/traverse"
)

// withInferior attaches to pid, resolves the session's selected
// inferior, runs fn, and always tears the session down afterward —
// each tool call gets a fresh manager, matching the teacher's per-call
// daemon client (s.server's session state is never reused across
// calls).
func withInferior(ctx context.Context, pid int, executable, contextDir string, fn func(*remote.Inferior) error) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve own executable: %w", err)
	}
	mgr, err := session.NewManager(filepath.Dir(exe))
	if err != nil {
		return err
	}
	defer mgr.Dispose()

	sess, err := mgr.AttachWithTimeout(pid, executable, contextDir)
	if err != nil {
		return fmt.Errorf("attach pid %d: %w", pid, err)
	}

	dbg, err := sess.Debugger()
	if err != nil {
		return err
	}
	inferior, err := dbg.SelectedInferior()
	if err != nil {
		return err
	}
	return fn(inferior)
}

// rejectQuotedPath mirrors cmd/pyprobe's run-file guard: a path
// containing either quote character is rejected before any RPC call.
func rejectQuotedPath(path string) error {
	for _, r := range path {
		if r == '\'' || r == '"' {
			return fmt.Errorf("run_file: path %q contains a quote character", path)
		}
	}
	return nil
}

func runTraversalFor(inferior *remote.Inferior, thread, frame *int64, exec func(*remote.Frame) (string, error)) (bool, string, error) {
	var output string
	var lastErr error
	matched, err := traverse.TraverseFrame(inferior, traverse.Filter{ThreadID: thread, FrameIdx: frame}, func(f *remote.Frame) (bool, error) {
		out, execErr := exec(f)
		if execErr != nil {
			lastErr = execErr
			return false, nil
		}
		output = out
		return true, nil
	})
	if err != nil {
		return false, "", err
	}
	if !matched && lastErr != nil {
		return false, "", lastErr
	}
	return matched, output, nil
}
