package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonletto/pyprobe/internal/proxy/remote"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <pid>",
		Short: "List every thread and its interpreter frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			return runInspect(pid)
		},
	}
	return cmd
}

func runInspect(pid int) error {
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
	threads, err := inferior.Threads()
	if err != nil {
		return err
	}

	for _, thread := range threads {
		name, err := thread.Name()
		if err != nil {
			return err
		}
		fmt.Printf("Thread [num=%d] %s\n", thread.Key(), name)

		if err := thread.Switch(); err != nil {
			return err
		}
		frames, err := thread.GetPythonFrames()
		if err != nil {
			return err
		}
		if err := printFrames(frames); err != nil {
			return err
		}
	}
	return nil
}

func printFrames(frames []*remote.Frame) error {
	for _, frame := range frames {
		idx, err := frame.GetIndex()
		if err != nil {
			return err
		}
		filename, err := frame.Filename()
		if err != nil {
			return err
		}
		line, err := frame.Line()
		if err != nil {
			return err
		}
		sourceLine, err := frame.SourceLine()
		if err != nil {
			return err
		}
		fmt.Printf("  Frame [num=%d]\n", idx)
		fmt.Printf("    File=%s:%d\n", filename, line)
		if sourceLine != "" {
			fmt.Printf("    %s\n", sourceLine)
		}
	}
	return nil
}
