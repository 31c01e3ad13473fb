// Package jsonl reads and writes newline-delimited records without interpreting them.
//
// # Format
//
// A stream is a sequence of lines. Each line is one record and ends with \n,
// except possibly the last line of a stream, which may end without one.
//
//	{"timestamp":"2021-01-01 10:00:00","m":"a1"}\n
//	{"timestamp":"2021-01-01 10:00:05","m":"a2"}\n
//
// # Goals
//
//  1. Preserve the exact bytes of every line, including the trailing newline
//     (or its absence) and any carriage return before it
//  2. Read one line at a time, so a stream never has to fit into memory
//  3. Count lines and bytes on both sides for reporting
//
// The package does not parse the records. Use package timestamp for that.
package jsonl
