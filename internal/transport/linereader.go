package transport

import "bytes"

// LineReader buffers raw bytes read from a blocking source and splits
// them into newline-terminated frames. Bytes are never decoded as UTF-8
// until a full line is available, so a multi-byte rune split across two
// reads is never mis-decoded (spec.md §9's chunk-boundary open question;
// see DESIGN.md decision 2). This mirrors original_source's
// BufferedReader, fixed to buffer bytes instead of decoded text.
type LineReader struct {
	buf []byte
}

// NewLineReader returns an empty LineReader.
func NewLineReader() *LineReader {
	return &LineReader{}
}

// Feed appends newly read bytes to the internal buffer.
func (r *LineReader) Feed(data []byte) {
	r.buf = append(r.buf, data...)
}

// Lines extracts every complete (newline-terminated) line currently
// buffered, in order, leaving any trailing partial line for the next
// call. This is the Go analogue of BufferedReader.readlines(): splitting
// on '\n' and retaining whatever does not end in a trailing newline.
func (r *LineReader) Lines() []string {
	var lines []string
	for {
		idx := bytes.IndexByte(r.buf, '\n')
		if idx < 0 {
			break
		}
		lines = append(lines, string(r.buf[:idx]))
		r.buf = r.buf[idx+1:]
	}
	return lines
}

// Pending reports whether a partial (not yet newline-terminated) line is
// currently buffered.
func (r *LineReader) Pending() bool { return len(r.buf) > 0 }
