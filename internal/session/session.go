// Package session implements component F of spec.md: per-target session
// lifecycle, grounded on original_source/shamiko/session.py's Session
// and app.py's Shamiko. Per SPEC_FULL.md §0, the subprocess each session
// supervises is this module's own "agent" binary invocation rather than
// gdb directly — the agent owns the GDB/MI channel and the RPC server
// internally (see internal/gdbmi, internal/rpcserver).
package session

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/leonletto/pyprobe/internal/proxy/remote"
	"github.com/leonletto/pyprobe/internal/rpcclient"
)

// AgentBinary is the path to this module's own executable, used to
// re-exec the hidden "agent" subcommand. Overridable for tests.
var AgentBinary = func() string {
	exe, err := os.Executable()
	if err != nil {
		return "pyprobe"
	}
	return exe
}

// Session is one attached target, per spec.md §3.
type Session struct {
	PID              int
	Executable       string
	ContextDirectory string

	id              string // ulid correlation id, for log lines
	sessionDir      string
	socketPath      string
	agentPackageDir string

	mu          sync.Mutex
	cmd         *exec.Cmd
	client      *rpcclient.Client
	available   chan struct{}
	terminating bool
	terminated  chan struct{}
}

func newSession(rootDir string, pid int, executable, contextDir, agentPackageDir string) *Session {
	sessDir := filepath.Join(rootDir, "sessions", strconv.Itoa(pid))
	return &Session{
		PID:              pid,
		Executable:       executable,
		ContextDirectory: contextDir,
		id:               ulid.Make().String(),
		sessionDir:       sessDir,
		socketPath:       filepath.Join(sessDir, "session.sock"),
		agentPackageDir:  agentPackageDir,
		available:        make(chan struct{}),
		terminated:       make(chan struct{}),
	}
}

func (s *Session) logPrefix() string {
	return fmt.Sprintf("[pyprobe pid=%d agent=%s]", s.PID, s.id)
}

// start launches the supervisor goroutine, mirroring Session._gdb_loop.
func (s *Session) start() {
	go s.supervise()
}

// supervise spawns the agent subprocess, waits for its socket, connects
// an RPC client, then waits for either the subprocess to exit
// unexpectedly or a terminate request, always cleaning up on the way
// out. It is the Go analogue of original_source's Session._gdb_loop.
func (s *Session) supervise() {
	defer func() {
		s.mu.Lock()
		s.client = nil
		s.mu.Unlock()
		close(s.terminated)
		os.RemoveAll(s.sessionDir)
		select {
		case <-s.available:
		default:
			close(s.available)
		}
	}()

	if err := os.MkdirAll(s.sessionDir, 0o755); err != nil {
		log.Printf("%s session: create directory: %v", s.logPrefix(), err)
		return
	}

	cmd := exec.Command(AgentBinary(),
		"agent",
		"--pid", strconv.Itoa(s.PID),
		"--executable", s.Executable,
		"--context", s.ContextDirectory,
		"--socket", s.socketPath,
		"--package-dir", s.agentPackageDir,
	)
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stderr
	if err := cmd.Start(); err != nil {
		log.Printf("%s session: start agent: %v", s.logPrefix(), err)
		return
	}
	s.mu.Lock()
	s.cmd = cmd
	s.mu.Unlock()

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	defer func() {
		select {
		case <-exited:
		default:
			if cmd.Process != nil {
				log.Printf("%s session: killing agent process", s.logPrefix())
				cmd.Process.Kill()
				<-exited
			}
		}
	}()

	if !s.waitForSocket(10*time.Second, 100*time.Millisecond) {
		log.Printf("%s session: agent socket never appeared", s.logPrefix())
		return
	}

	client, err := rpcclient.Dial(s.socketPath)
	if err != nil {
		log.Printf("%s session: dial agent socket: %v", s.logPrefix(), err)
		return
	}
	remote.Register(client)

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
	close(s.available)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-exited:
			s.mu.Lock()
			terminating := s.terminating
			s.mu.Unlock()
			if !terminating {
				log.Printf("%s session: agent exited unexpectedly: %v", s.logPrefix(), err)
			}
			client.Close()
			return
		case <-ticker.C:
			s.mu.Lock()
			terminating := s.terminating
			s.mu.Unlock()
			if terminating {
				log.Printf("%s session: sending terminate request", s.logPrefix())
				client.TerminateServer()
				select {
				case <-exited:
				case <-time.After(10 * time.Second):
				}
				return
			}
		}
	}
}

func (s *Session) waitForSocket(timeout, interval time.Duration) bool {
	deadline := time.Now().Add(timeout)
	lastLog := time.Now()
	for time.Now().Before(deadline) {
		if _, err := os.Stat(s.socketPath); err == nil {
			return true
		}
		if time.Since(lastLog) >= time.Second {
			log.Printf("%s session: waiting for the session to get ready...", s.logPrefix())
			lastLog = time.Now()
		}
		time.Sleep(interval)
	}
	_, err := os.Stat(s.socketPath)
	return err == nil
}

// WaitForAvailable blocks until the session's client is connected or the
// context is done, reporting whether the session became available.
func (s *Session) WaitForAvailable(ctx context.Context) bool {
	select {
	case <-s.available:
		s.mu.Lock()
		ok := s.client != nil
		s.mu.Unlock()
		return ok
	case <-ctx.Done():
		return false
	}
}

// Client returns the connected RPC client, or nil if the session never
// became available or has since terminated.
func (s *Session) Client() *rpcclient.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// Debugger resolves the well-known root stub (key 1).
func (s *Session) Debugger() (*remote.Debugger, error) {
	c := s.Client()
	if c == nil {
		return nil, fmt.Errorf("session: not started for pid %d", s.PID)
	}
	stub, err := c.GetStub("Debugger", 1)
	if err != nil {
		return nil, err
	}
	return stub.(*remote.Debugger), nil
}

// Terminate requests graceful shutdown and, if join is true, blocks
// until the supervisor goroutine has fully cleaned up.
func (s *Session) Terminate(join bool) {
	s.mu.Lock()
	s.terminating = true
	s.mu.Unlock()
	if join {
		<-s.terminated
	}
}
