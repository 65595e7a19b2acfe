package main

import (
	"fmt"
	"strconv"

	"github.com/leonletto/pyprobe/internal/session"
)

func parsePID(raw string) (int, error) {
	pid, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid pid %q: %w", raw, err)
	}
	return pid, nil
}

// attachSession resolves a manager and attaches to pid using the
// process-wide --executable/--context flags, returning a cleanup func
// that tears the whole manager (and its one session) down.
func attachSession(pid int) (*session.Session, func(), error) {
	mgr, err := newManager()
	if err != nil {
		return nil, nil, err
	}
	sess, err := mgr.AttachWithTimeout(pid, flagExecutable, flagContextDir)
	if err != nil {
		mgr.Dispose()
		return nil, nil, fmt.Errorf("attach pid %d: %w", pid, err)
	}
	return sess, func() { mgr.Dispose() }, nil
}
