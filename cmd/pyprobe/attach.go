package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leonletto/pyprobe/internal/bootstrap"
	"github.com/leonletto/pyprobe/internal/proxy/remote"
	"github.com/leonletto/pyprobe/internal/transport"
	"github.com/leonletto/pyprobe/internal/traverse"
)

func attachCmd() *cobra.Command {
	var thread, frame int64
	var hasThread, hasFrame bool
	var debuggerModule string

	cmd := &cobra.Command{
		Use:   "attach <pid>",
		Short: "Open an interactive line-oriented debugger on a selected frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasThread = cmd.Flags().Changed("thread")
			hasFrame = cmd.Flags().Changed("frame")
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			return runAttach(pid, optionalInt64(hasThread, thread), optionalInt64(hasFrame, frame), debuggerModule)
		},
	}
	cmd.Flags().Int64Var(&thread, "thread", 0, "restrict to this thread's global number")
	cmd.Flags().Int64Var(&frame, "frame", 0, "restrict to this frame index")
	cmd.Flags().StringVar(&debuggerModule, "debugger", "pdb", "line-oriented debugger module to run inside the target")
	return cmd
}

func runAttach(pid int, thread, frame *int64, debuggerModule string) error {
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

	bridgeDir, err := os.MkdirTemp("", "shamiko_dbg_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(bridgeDir)
	bridgeSocket := filepath.Join(bridgeDir, "proc.sock")

	script, err := bootstrap.RenderAttach(bootstrap.AttachData{
		SocketPath:         bridgeSocket,
		DebuggerModule:     debuggerModule,
		DebuggerEntryPoint: "Pdb().cmdloop",
	})
	if err != nil {
		return err
	}

	scriptPath := filepath.Join(bridgeDir, "script.py")
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return err
	}

	runErrCh := make(chan error, 1)
	var matchedFrame *remote.Frame
	_, err = traverse.TraverseFrame(inferior, traverse.Filter{ThreadID: thread, FrameIdx: frame}, func(f *remote.Frame) (bool, error) {
		matchedFrame = f
		return true, nil
	})
	if err != nil {
		return err
	}
	if matchedFrame == nil {
		return fmt.Errorf("attach: no frame matched thread=%v frame=%v", thread, frame)
	}

	go func() {
		_, err := matchedFrame.RunFile(scriptPath)
		runErrCh <- err
	}()

	if !waitForFile(bridgeSocket, 100*time.Second, 100*time.Millisecond) {
		return fmt.Errorf("attach: the in-target debugger socket never appeared")
	}

	conn, err := net.Dial("unix", bridgeSocket)
	if err != nil {
		return fmt.Errorf("attach: dial bridge socket: %w", err)
	}
	defer conn.Close()

	return bridgeStdio(conn)
}

func waitForFile(path string, timeout, interval time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return true
		}
		time.Sleep(interval)
	}
	_, err := os.Stat(path)
	return err == nil
}

// bridgeStdio pumps bytes between the operator's terminal and conn,
// putting the terminal in raw mode for the duration so the remote
// line-oriented debugger sees keystrokes exactly as typed.
func bridgeStdio(conn net.Conn) error {
	ctx := transport.WithTransport(context.Background(), transport.TransportStdio)
	log.Printf("attach: bridging operator terminal (transport=%s)", transport.GetTransport(ctx))

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, oldState)
		}
	}

	done := make(chan struct{}, 2)
	go func() {
		io.Copy(conn, os.Stdin)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(os.Stdout, conn)
		done <- struct{}{}
	}()
	<-done
	return nil
}
