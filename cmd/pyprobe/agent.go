package main

import (
	"fmt"
	"log"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/leonletto/pyprobe/internal/bootstrap"
	"github.com/leonletto/pyprobe/internal/gdbmi"
	"github.com/leonletto/pyprobe/internal/proxy/live"
	"github.com/leonletto/pyprobe/internal/rpcserver"
	"github.com/leonletto/pyprobe/internal/wire"
)

// agentCmd is the hidden subcommand re-exec'd by internal/session's
// supervisor (see SPEC_FULL.md §0): one process per attached target,
// owning the GDB/MI channel to a real debugger subprocess and hosting
// the RPC server the controller's session.Client dials.
func agentCmd() *cobra.Command {
	var pid int
	var executable, contextDir, socketPath, packageDir string

	cmd := &cobra.Command{
		Use:    "agent",
		Hidden: true,
		Short:  "Run the in-debugger agent process (internal use only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(pid, executable, contextDir, socketPath, packageDir)
		},
	}
	cmd.Flags().IntVar(&pid, "pid", 0, "target process id")
	cmd.Flags().StringVar(&executable, "executable", "", "target executable path")
	cmd.Flags().StringVar(&contextDir, "context", "", "debugger source-search directory")
	cmd.Flags().StringVar(&socketPath, "socket", "", "RPC server socket path")
	cmd.Flags().StringVar(&packageDir, "package-dir", "", "directory appended to the debugger's Python sys.path")
	cmd.MarkFlagRequired("pid")
	cmd.MarkFlagRequired("socket")
	return cmd
}

func runAgent(pid int, executable, contextDir, socketPath, packageDir string) error {
	debuggerPath, err := exec.LookPath("gdb")
	if err != nil {
		return fmt.Errorf("agent: native debugger not found on PATH: %w", err)
	}

	ch, err := gdbmi.Spawn(debuggerPath, pid, executable, contextDir, packageDir)
	if err != nil {
		return fmt.Errorf("agent: spawn debugger: %w", err)
	}
	defer ch.Close()

	helpers, err := bootstrap.RenderHelpers()
	if err != nil {
		return err
	}
	// The live proxies call the helpers as pyprobe.<name>, so they are
	// executed into a module object bound to that name.
	install := fmt.Sprintf("import types\npyprobe = types.ModuleType(\"pyprobe\")\nexec(%q, pyprobe.__dict__)", helpers)
	if _, err := ch.RunSimpleString("", install); err != nil {
		return fmt.Errorf("agent: install python helpers: %w", err)
	}

	identity := wire.NewIdentityMap()
	dbg := live.NewDebugger(ch)

	srv := rpcserver.NewServer(socketPath, identity, fmt.Sprintf("[pyprobe agent pid=%d]", pid))
	live.Register(srv, identity, dbg)

	log.Printf("agent: serving pid=%d socket=%s", pid, socketPath)
	return srv.Serve()
}
