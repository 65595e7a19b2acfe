package gdbmi

import "testing"

func TestQuoteMIRoundTrip(t *testing.T) {
	cases := []string{
		`print 1+1`,
		`python print(json.dumps({"a": "b"}))`,
		"line1\nline2",
		`has "quotes" and \backslash`,
	}
	for _, c := range cases {
		quoted := quoteMI(c)
		if len(quoted) < 2 || quoted[0] != '"' || quoted[len(quoted)-1] != '"' {
			t.Fatalf("quoteMI(%q) = %q, not wrapped in quotes", c, quoted)
		}
		if got := unquoteMI(quoted); got != c {
			t.Fatalf("unquoteMI(quoteMI(%q)) = %q", c, got)
		}
	}
}

func TestUnquoteMIStripsWrapper(t *testing.T) {
	got := unquoteMI(`"hello world\n"`)
	if got != "hello world\n" {
		t.Fatalf("unquoteMI = %q", got)
	}
}

func TestUnquoteMIPassesThroughUnwrapped(t *testing.T) {
	got := unquoteMI("bare text")
	if got != "bare text" {
		t.Fatalf("unquoteMI = %q", got)
	}
}

func TestExtractErrorMsg(t *testing.T) {
	raw := `123^error,msg="No symbol \"bogus\" in current context."`
	got := extractErrorMsg(raw)
	want := `No symbol "bogus" in current context.`
	if got != want {
		t.Fatalf("extractErrorMsg = %q, want %q", got, want)
	}
}

func TestResultRecordMatchesVariants(t *testing.T) {
	for _, raw := range []string{"1^done", "2^error,msg=\"x\"", "^running", "3^connected", "4^exit"} {
		if !resultRecord.MatchString(raw) {
			t.Fatalf("resultRecord did not match %q", raw)
		}
	}
	if resultRecord.MatchString("~\"console text\"") {
		t.Fatal("resultRecord incorrectly matched a console-stream record")
	}
}
