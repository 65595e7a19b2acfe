// Package procinfo is component H of spec.md: the three PID-keyed
// queries at the boundary of the core (exists, executable path, working
// directory), the only OS-process introspection the core performs.
package procinfo

import (
	"fmt"
	"os"

	ps "github.com/mitchellh/go-ps"
)

// Exists reports whether pid names a live process.
func Exists(pid int) (bool, error) {
	proc, err := ps.FindProcess(pid)
	if err != nil {
		return false, fmt.Errorf("procinfo: find process %d: %w", pid, err)
	}
	return proc != nil, nil
}

// ExecutablePath returns the absolute path to pid's running executable,
// read from /proc/<pid>/exe on Linux.
func ExecutablePath(pid int) (string, error) {
	path, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		return "", fmt.Errorf("procinfo: executable path for %d: %w", pid, err)
	}
	return path, nil
}

// WorkingDir returns the absolute working directory of pid, read from
// /proc/<pid>/cwd on Linux.
func WorkingDir(pid int) (string, error) {
	path, err := os.Readlink(fmt.Sprintf("/proc/%d/cwd", pid))
	if err != nil {
		return "", fmt.Errorf("procinfo: working dir for %d: %w", pid, err)
	}
	return path, nil
}
