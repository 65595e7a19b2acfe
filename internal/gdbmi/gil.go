package gdbmi

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// AcquireGIL ensures the Python interpreter's GIL is held for the
// duration of subsequent python commands, returning a release function.
// The state is stored in a dedicated convenience variable
// ($pyprobe_gil_<slot>) and read back with `print`. Only if that read
// fails or does not parse does it log a warning and fall back to printing
// gdb's value-history entry $1, releasing with the integer printed there;
// no other $N token is searched for.
func (c *Channel) AcquireGIL(slot int) (release func() error, err error) {
	varName := fmt.Sprintf("$pyprobe_gil_%d", slot)
	if _, err := c.Exec(fmt.Sprintf("set %s = (int) PyGILState_Ensure()", varName)); err != nil {
		return nil, fmt.Errorf("gdbmi: acquire gil: %w", err)
	}

	out, err := c.Exec(fmt.Sprintf("print %s", varName))
	state, ok := parseGILState(out)
	if err != nil || !ok {
		// Fall back: gdb's own history variable $1 holds a printed value
		// when the dedicated variable didn't stick.
		log.Printf("gdbmi: could not read %s back (output %q); falling back to $1", varName, out)
		out, ferr := c.Exec("print $1")
		if ferr != nil {
			return nil, fmt.Errorf("gdbmi: acquire gil (fallback): %w", ferr)
		}
		state, ok = parseGILState(out)
		if !ok {
			return nil, fmt.Errorf("gdbmi: could not determine GIL state from %q", out)
		}
		return func() error {
			_, err := c.Exec(fmt.Sprintf("call (void) PyGILState_Release(%d)", state))
			return err
		}, nil
	}

	return func() error {
		_, err := c.Exec(fmt.Sprintf("call (void) PyGILState_Release((PyGILState_STATE) %s)", varName))
		return err
	}, nil
}

// parseGILState extracts the trailing integer from a "print" command's
// console output, of the form "$1 = 0".
func parseGILState(printOutput string) (int, bool) {
	idx := strings.LastIndex(printOutput, "=")
	if idx < 0 {
		return 0, false
	}
	field := strings.TrimSpace(printOutput[idx+1:])
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, false
	}
	return n, true
}
