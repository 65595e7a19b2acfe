package procinfo

import (
	"os"
	"testing"
)

func TestExistsForSelf(t *testing.T) {
	ok, err := Exists(os.Getpid())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected the current process to exist")
	}
}

func TestExecutablePathForSelf(t *testing.T) {
	path, err := ExecutablePath(os.Getpid())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path == "" || path[0] != '/' {
		t.Fatalf("expected an absolute path, got %q", path)
	}
}

func TestWorkingDirForSelf(t *testing.T) {
	dir, err := WorkingDir(os.Getpid())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir == "" || dir[0] != '/' {
		t.Fatalf("expected an absolute path, got %q", dir)
	}
}
