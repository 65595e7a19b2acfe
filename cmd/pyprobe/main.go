// Command pyprobe is the controller-side CLI surface of spec.md §6: a
// single command group that attaches to a target PID and drives it
// through the session/RPC stack, grounded on the teacher's cobra-based
// cmd/thrum/main.go.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/spf13/cobra"

	"github.com/leonletto/pyprobe/internal/session"
)

var (
	// Version is set via ldflags at build time.
	Version = "dev"

	flagExecutable string
	flagContextDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pyprobe",
		Short:         "Inject code into a live Python process via a native debugger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("pyprobe v{{.Version}} (" + goruntime.Version() + ")\n")

	rootCmd.PersistentFlags().StringVarP(&flagExecutable, "executable", "e", "", "absolute or resolvable path to the target's executable")
	rootCmd.PersistentFlags().StringVarP(&flagContextDir, "context", "c", "", "debugger source-search directory")

	rootCmd.AddCommand(
		inspectCmd(),
		runFileCmd(),
		runScriptCmd(),
		attachCmd(),
		shellCmd(),
		mcpCmd(),
		agentCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pyprobe:", err)
		os.Exit(1)
	}
}

// newManager resolves the agent package directory (the Go equivalent of
// the source lineage's package-parent sys.path trick) and constructs a
// fresh session.Manager for one CLI invocation.
func newManager() (*session.Manager, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve own executable: %w", err)
	}
	return session.NewManager(filepath.Dir(exe))
}
