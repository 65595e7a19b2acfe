package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leonletto/pyprobe/internal/proxy/remote"
	"github.com/leonletto/pyprobe/internal/traverse"
)

func runFileCmd() *cobra.Command {
	var thread, frame int64
	var hasThread, hasFrame bool

	cmd := &cobra.Command{
		Use:   "run-file <pid> <path>",
		Short: "Inject a file, traversing frames until one succeeds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasThread = cmd.Flags().Changed("thread")
			hasFrame = cmd.Flags().Changed("frame")
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			path := args[1]
			if err := rejectQuotedPath(path); err != nil {
				return err
			}
			return runTraversal(pid, optionalInt64(hasThread, thread), optionalInt64(hasFrame, frame), func(f *remote.Frame) (string, error) {
				return f.RunFile(path)
			})
		},
	}
	cmd.Flags().Int64Var(&thread, "thread", 0, "restrict to this thread's global number")
	cmd.Flags().Int64Var(&frame, "frame", 0, "restrict to this frame index")
	return cmd
}

func runScriptCmd() *cobra.Command {
	var thread, frame int64
	var hasThread, hasFrame bool

	cmd := &cobra.Command{
		Use:   "run-script <pid> <source>",
		Short: "Inject a literal source string, traversing frames until one succeeds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasThread = cmd.Flags().Changed("thread")
			hasFrame = cmd.Flags().Changed("frame")
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			source := args[1]
			return runTraversal(pid, optionalInt64(hasThread, thread), optionalInt64(hasFrame, frame), func(f *remote.Frame) (string, error) {
				return f.RunSimpleString(source)
			})
		},
	}
	cmd.Flags().Int64Var(&thread, "thread", 0, "restrict to this thread's global number")
	cmd.Flags().Int64Var(&frame, "frame", 0, "restrict to this frame index")
	return cmd
}

func optionalInt64(has bool, v int64) *int64 {
	if !has {
		return nil
	}
	return &v
}

// rejectQuotedPath implements spec.md property #8: run-file must reject
// a path containing either quote character with a hard error before any
// RPC call is issued.
func rejectQuotedPath(path string) error {
	for _, r := range path {
		if r == '\'' || r == '"' {
			return fmt.Errorf("run-file: path %q contains a quote character", path)
		}
	}
	return nil
}

func runTraversal(pid int, thread, frame *int64, exec func(*remote.Frame) (string, error)) error {
	sess, cleanup, err := attachSession(pid)
	if err != nil {
		return err
	}
	defer cleanup()

	dbg, err := sess.Debugger()
	if err != nil {
		return err
	}
	inferior, err := dbg.SelectedInferior()
	if err != nil {
		return err
	}

	var lastErr error
	matched, err := traverse.TraverseFrame(inferior, traverse.Filter{ThreadID: thread, FrameIdx: frame}, func(f *remote.Frame) (bool, error) {
		out, execErr := exec(f)
		if execErr != nil {
			lastErr = execErr
			return false, nil
		}
		if out != "" {
			fmt.Println(out)
		}
		return true, nil
	})
	if err != nil {
		return err
	}
	if matched {
		fmt.Println("Ran successfully")
		return nil
	}

	fmt.Println("Traversed all matched frames, but couldn't run successfully")
	if thread != nil || frame != nil {
		fmt.Println("HINT: Try without --thread or --frame option")
	}
	if lastErr != nil {
		fmt.Fprintln(os.Stderr, "last error:", lastErr)
	}
	return nil
}
