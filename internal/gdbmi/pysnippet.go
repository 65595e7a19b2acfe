package gdbmi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EvalJSON runs a Python expression inside the debugger's already-loaded
// interpreter-frame extension and decodes its result as JSON. This is the
// one and only place frame/symbol structure crosses from the debugger's
// Python runtime into Go: the expression itself is expected to come from
// the bootstrap-installed helper functions (see internal/bootstrap),
// never to be built ad hoc, so that decoding logic lives exactly once, in
// Python, exactly as spec.md's Non-goals require.
func (c *Channel) EvalJSON(pyExpr string, out any) error {
	lastOut, err := c.Exec(fmt.Sprintf("python import json; print(json.dumps(%s))", pyExpr))
	if err != nil {
		return fmt.Errorf("gdbmi: eval %s: %w", pyExpr, err)
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(lastOut)), out); err != nil {
		return fmt.Errorf("gdbmi: decode json for %s: %w (raw: %q)", pyExpr, err, lastOut)
	}
	return nil
}

// RunSimpleString executes src as Python statements in the debugger's own
// embedded interpreter (through `python exec(...)`), not in the target;
// the agent uses it to install the helper module. gilVar is not used.
// src must not itself be quoted by the caller: backslashes, double quotes
// and newlines are escaped here.
func (c *Channel) RunSimpleString(gilVar, src string) (string, error) {
	escaped := strings.ReplaceAll(src, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	cmd := fmt.Sprintf(`python exec("%s")`, escaped)
	return c.Exec(cmd)
}

// QuoteReject returns an error if path contains a single or double quote,
// mirroring the source lineage's rejection of run_file targets whose path
// would break out of the generated command string.
func QuoteReject(path string) error {
	if strings.ContainsAny(path, `'"`) {
		return fmt.Errorf("gdbmi: path %q contains a quote character and cannot be safely embedded", path)
	}
	return nil
}
