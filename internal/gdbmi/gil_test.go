package gdbmi

import "testing"

func TestParseGILState(t *testing.T) {
	cases := map[string]int{
		"$1 = 0":              0,
		"$pyprobe_gil_3 = 1":  1,
		"$2 = 17":             17,
	}
	for input, want := range cases {
		got, ok := parseGILState(input)
		if !ok || got != want {
			t.Fatalf("parseGILState(%q) = %d, %v; want %d", input, got, ok, want)
		}
	}
}

func TestParseGILStateRejectsGarbage(t *testing.T) {
	if _, ok := parseGILState("void"); ok {
		t.Fatal("expected parseGILState to reject non-numeric output")
	}
}

func TestQuoteRejectCatchesQuotes(t *testing.T) {
	if err := QuoteReject(`/tmp/it's.py`); err == nil {
		t.Fatal("expected rejection of a single-quote path")
	}
	if err := QuoteReject(`/tmp/"evil".py`); err == nil {
		t.Fatal("expected rejection of a double-quote path")
	}
	if err := QuoteReject("/tmp/clean.py"); err != nil {
		t.Fatalf("unexpected rejection of a clean path: %v", err)
	}
}
