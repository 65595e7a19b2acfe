package main

import "testing"

func TestRejectQuotedPathAcceptsPlainPath(t *testing.T) {
	if err := rejectQuotedPath("/tmp/script.py"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRejectQuotedPathRejectsSingleQuote(t *testing.T) {
	if err := rejectQuotedPath("/tmp/a'b.py"); err == nil {
		t.Fatal("expected an error for a path containing a single quote")
	}
}

func TestRejectQuotedPathRejectsDoubleQuote(t *testing.T) {
	if err := rejectQuotedPath(`/tmp/a"b.py`); err == nil {
		t.Fatal("expected an error for a path containing a double quote")
	}
}

func TestOptionalInt64(t *testing.T) {
	if got := optionalInt64(false, 7); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	got := optionalInt64(true, 7)
	if got == nil || *got != 7 {
		t.Fatalf("expected pointer to 7, got %v", got)
	}
}

func TestParsePID(t *testing.T) {
	pid, err := parsePID("1234")
	if err != nil || pid != 1234 {
		t.Fatalf("parsePID(\"1234\") = %d, %v", pid, err)
	}
	if _, err := parsePID("not-a-pid"); err == nil {
		t.Fatal("expected an error for a non-numeric pid")
	}
}
