package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonletto/pyprobe/internal/proxy/remote"
	"github.com/leonletto/pyprobe/internal/traverse"
)

func shellCmd() *cobra.Command {
	var thread, frame int64
	var hasThread, hasFrame bool

	cmd := &cobra.Command{
		Use:   "shell <pid>",
		Short: "Open a local REPL that evaluates lines against a selected frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasThread = cmd.Flags().Changed("thread")
			hasFrame = cmd.Flags().Changed("frame")
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			return runShell(pid, optionalInt64(hasThread, thread), optionalInt64(hasFrame, frame))
		},
	}
	cmd.Flags().Int64Var(&thread, "thread", 0, "restrict to this thread's global number")
	cmd.Flags().Int64Var(&frame, "frame", 0, "restrict to this frame index")
	return cmd
}

func runShell(pid int, thread, frame *int64) error {
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

	var target *remote.Frame
	matched, err := traverse.TraverseFrame(inferior, traverse.Filter{ThreadID: thread, FrameIdx: frame}, func(f *remote.Frame) (bool, error) {
		target = f
		return true, nil
	})
	if err != nil {
		return err
	}
	if !matched {
		fmt.Println("Traversed all matched frames, but couldn't run successfully")
		if thread != nil || frame != nil {
			fmt.Println("HINT: Try without --thread or --frame option")
		}
		return fmt.Errorf("shell: no frame matched thread=%v frame=%v", thread, frame)
	}

	filename, err := target.Filename()
	if err == nil {
		fmt.Printf("Attached to %s, pid=%d. Each line is run as Python source in that frame.\n", filename, pid)
	}
	fmt.Println("Type 'exit' or send EOF (Ctrl-D) to leave.")

	return repl(os.Stdin, os.Stdout, target)
}

func repl(in io.Reader, out io.Writer, target *remote.Frame) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "pyprobe> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		result, err := target.RunSimpleString(line)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	}
}
