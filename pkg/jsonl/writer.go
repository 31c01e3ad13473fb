package jsonl

import (
	"bufio"
	"fmt"
	"io"
)

// Writer appends lines to a stream verbatim. A line without a trailing
// newline gets a separator \n only when another line follows it, so the last
// line of a stream keeps its original ending.
type Writer struct {
	writer       *bufio.Writer
	lines        int
	bytes        int64
	unterminated bool // last line written did not end with \n
}

// NewWriter creates a Writer on top of w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		writer: bufio.NewWriter(w),
	}
}

// Write writes line exactly as given, preceded by a separator if the
// previous line had no trailing newline.
func (w *Writer) Write(line []byte) error {
	if w.unterminated {
		if err := w.writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing separator before line %d: %w", w.lines+1, err)
		}
		w.bytes++
		w.unterminated = false
	}

	n, err := w.writer.Write(line)
	w.bytes += int64(n)
	if err != nil {
		return fmt.Errorf("writing line %d: %w", w.lines+1, err)
	}
	w.lines++
	w.unterminated = len(line) > 0 && line[len(line)-1] != '\n'
	return nil
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	return nil
}

// Lines returns the number of lines written so far.
func (w *Writer) Lines() int {
	return w.lines
}

// Bytes returns the number of bytes written so far, including buffered ones.
func (w *Writer) Bytes() int64 {
	return w.bytes
}
