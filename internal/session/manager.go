package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leonletto/pyprobe/internal/procinfo"
)

// Manager owns the temporary root directory and the PID→Session
// registry, grounded on original_source/shamiko/app.py's Shamiko.
type Manager struct {
	rootDir         string
	agentPackageDir string

	mu       sync.Mutex
	sessions map[int]*Session
}

// NewManager creates the manager's temporary root directory. agentPackageDir
// is passed to each agent as --package-dir, which appends it to the
// debugger's Python sys.path, the counterpart of the source lineage's
// package-parent sys.path entry. The helper module is installed by the
// agent directly and is not imported from that directory.
func NewManager(agentPackageDir string) (*Manager, error) {
	root, err := os.MkdirTemp("", "pyprobe_")
	if err != nil {
		return nil, fmt.Errorf("session: create root dir: %w", err)
	}
	return &Manager{
		rootDir:         root,
		agentPackageDir: agentPackageDir,
		sessions:        make(map[int]*Session),
	}, nil
}

// Attach implements spec.md §4.F's attach(pid, executable?, context_dir?).
func (m *Manager) Attach(ctx context.Context, pid int, executable, contextDir string) (*Session, error) {
	if executable == "" {
		guessed, err := procinfo.ExecutablePath(pid)
		if err != nil {
			return nil, fmt.Errorf("session: guess executable for pid %d: %w", pid, err)
		}
		executable = guessed
	}
	if contextDir == "" {
		guessed, err := procinfo.WorkingDir(pid)
		if err != nil {
			cwd, cwdErr := os.Getwd()
			if cwdErr != nil {
				return nil, fmt.Errorf("session: guess context dir for pid %d: %w", pid, err)
			}
			guessed = cwd
		}
		contextDir = guessed
	}
	absContext, err := filepath.Abs(contextDir)
	if err != nil {
		return nil, fmt.Errorf("session: resolve context dir: %w", err)
	}

	m.mu.Lock()
	if existing, ok := m.sessions[pid]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	sess := newSession(m.rootDir, pid, executable, absContext, m.agentPackageDir)
	m.sessions[pid] = sess
	m.mu.Unlock()

	sess.start()
	if !sess.WaitForAvailable(ctx) {
		m.mu.Lock()
		delete(m.sessions, pid)
		m.mu.Unlock()
		return nil, fmt.Errorf("session: couldn't launch session for pid %d", pid)
	}
	return sess, nil
}

// AttachWithTimeout is a convenience wrapper matching spec.md §5's fixed
// 10s readiness timeout.
func (m *Manager) AttachWithTimeout(pid int, executable, contextDir string) (*Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.Attach(ctx, pid, executable, contextDir)
}

// Remove terminates and forgets the session for pid. Double-remove is a
// no-op.
func (m *Manager) Remove(pid int) {
	m.mu.Lock()
	sess, ok := m.sessions[pid]
	if ok {
		delete(m.sessions, pid)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	sess.Terminate(true)
}

// Dispose terminates every remaining session concurrently, then removes
// the root directory, mirroring Shamiko.dispose but using an errgroup for
// the fan-out instead of a sequential loop.
func (m *Manager) Dispose() error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for pid := range m.sessions {
		sessions = append(sessions, m.sessions[pid])
	}
	m.sessions = make(map[int]*Session)
	m.mu.Unlock()

	var g errgroup.Group
	for _, sess := range sessions {
		sess := sess
		g.Go(func() error {
			sess.Terminate(true)
			return nil
		})
	}
	_ = g.Wait()

	return os.RemoveAll(m.rootDir)
}
