// Package jsonl reads and writes newline-delimited records. See doc.go for docs.
package jsonl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Reader yields the lines of a stream one at a time. It is forward-only and
// cannot be restarted.
type Reader struct {
	reader *bufio.Reader
	lines  int
	done   bool
}

// NewReader creates a Reader on top of r. r is buffered internally.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		reader: bufio.NewReader(r),
	}
}

// Next returns the next line including its trailing newline. The returned
// slice is owned by the caller. ok is false once the stream is exhausted, and
// every later call returns false as well.
func (r *Reader) Next() (line []byte, ok bool, err error) {
	if r.done {
		return nil, false, nil
	}

	line, err = r.reader.ReadBytes('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.done = true
			return nil, false, fmt.Errorf("reading line %d: %w", r.lines+1, err)
		}
		r.done = true
		// Last line without a trailing newline
		if len(line) == 0 {
			return nil, false, nil
		}
	}

	r.lines++
	return line, true, nil
}

// Lines returns the number of lines returned by Next so far.
func (r *Reader) Lines() int {
	return r.lines
}
