package timestamp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fastjson"
)

const (
	// Layout is the only accepted timestamp format: YYYY-MM-DD HH:MM:SS.
	Layout = "2006-01-02 15:04:05"

	// Field is the record key holding the timestamp.
	Field = "timestamp"
)

var (
	// ErrMalformedRecord matches every *MalformedRecordError.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInvalidTimestamp matches every *InvalidTimestampError.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// MalformedRecordError is returned for a line that is not a JSON object.
type MalformedRecordError struct {
	Line string
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %q: %v", e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}

// InvalidTimestampError is returned for a record whose timestamp field is
// missing, not a string, or not in Layout.
type InvalidTimestampError struct {
	Line   string
	Reason string
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("invalid timestamp in record %q: %s", e.Line, e.Reason)
}

func (e *InvalidTimestampError) Unwrap() error {
	return ErrInvalidTimestamp
}

var parserPool fastjson.ParserPool

// Extract returns the timestamp of one record line. An empty line means the
// stream is exhausted: ok is false and err is nil. The returned time is in
// UTC and has second resolution.
func Extract(line []byte) (ts time.Time, ok bool, err error) {
	if len(line) == 0 {
		return time.Time{}, false, nil
	}

	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(line)
	if err != nil {
		return time.Time{}, false, &MalformedRecordError{Line: printable(line), Err: err}
	}

	obj, err := v.Object()
	if err != nil {
		return time.Time{}, false, &MalformedRecordError{Line: printable(line), Err: err}
	}

	field := obj.Get(Field)
	if field == nil {
		return time.Time{}, false, &InvalidTimestampError{
			Line:   printable(line),
			Reason: fmt.Sprintf("missing %q field", Field),
		}
	}
	if field.Type() != fastjson.TypeString {
		return time.Time{}, false, &InvalidTimestampError{
			Line:   printable(line),
			Reason: fmt.Sprintf("%q field is a %s, not a string", Field, field.Type()),
		}
	}

	raw := string(field.GetStringBytes())
	ts, err = Parse(raw)
	if err != nil {
		return time.Time{}, false, &InvalidTimestampError{
			Line:   printable(line),
			Reason: err.Error(),
		}
	}

	return ts, true, nil
}

// Parse parses s in Layout. Anything else, including fractional seconds or
// a zone suffix, is rejected.
func Parse(s string) (time.Time, error) {
	// time.Parse tolerates a fractional second after the seconds field, the
	// literal format does not.
	if len(s) != len(Layout) {
		return time.Time{}, fmt.Errorf("%q does not match %q", s, Layout)
	}
	ts, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q does not match %q: %w", s, Layout, err)
	}
	return ts, nil
}

func printable(line []byte) string {
	return strings.TrimRight(string(line), "\r\n")
}
