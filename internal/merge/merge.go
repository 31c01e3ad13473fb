package merge

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"logsmerge/internal/timestamp"
	"logsmerge/pkg/jsonl"
)

// ErrAlreadyRun is returned when Run is called on a Merger that already ran.
var ErrAlreadyRun = errors.New("merger already run")

// State is the lifecycle of a Merger.
type State int

const (
	// StateIdle is a Merger that has not run yet.
	StateIdle State = iota
	// StateMerging is a Merger inside Run.
	StateMerging
	// StateCompleted is a Merger whose inputs were fully merged.
	StateCompleted
	// StateFailed is a Merger that stopped on an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMerging:
		return "merging"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stats summarizes one merge.
type Stats struct {
	LinesA       int
	LinesB       int
	LinesWritten int
	BytesWritten int64
	First        time.Time // Timestamp of the first emitted record
	Last         time.Time // Timestamp of the last emitted record
}

// Option configures a Merger.
type Option func(*Merger)

// WithLogger sets the logger for diagnostics. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Merger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// record is a line read from a stream and not yet written.
type record struct {
	line []byte
	ts   time.Time
}

// stream is one input with its look-ahead slot.
type stream struct {
	name    string
	reader  *jsonl.Reader
	pending *record
	done    bool
	emitted int
}

// fill reads the next line into the pending slot unless it is occupied or
// the stream is exhausted.
func (s *stream) fill() error {
	if s.pending != nil || s.done {
		return nil
	}

	line, ok, err := s.reader.Next()
	if err != nil {
		return fmt.Errorf("reading log %s: %w", s.name, err)
	}
	if !ok {
		s.done = true
		return nil
	}

	ts, _, err := timestamp.Extract(line)
	if err != nil {
		return fmt.Errorf("log %s line %d: %w", s.name, s.reader.Lines(), err)
	}
	s.pending = &record{line: line, ts: ts}
	return nil
}

// Merger merges two timestamp-sorted streams into one. A Merger is single-shot.
type Merger struct {
	a, b   *stream
	out    *jsonl.Writer
	logger *slog.Logger
	state  State
	stats  Stats
}

// New creates a Merger reading a and b and writing to out. The caller owns
// the three streams and closes them after Run returns.
func New(a, b io.Reader, out io.Writer, opts ...Option) *Merger {
	m := &Merger{
		a:      &stream{name: "A", reader: jsonl.NewReader(a)},
		b:      &stream{name: "B", reader: jsonl.NewReader(b)},
		out:    jsonl.NewWriter(out),
		logger: slog.New(slog.DiscardHandler),
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state.
func (m *Merger) State() State {
	return m.state
}

// Run merges both streams to completion. On error the output written so far
// is flushed and left in place.
func (m *Merger) Run() (Stats, error) {
	if m.state != StateIdle {
		return m.stats, fmt.Errorf("%w (state %s)", ErrAlreadyRun, m.state)
	}
	m.state = StateMerging
	start := time.Now()

	err := m.merge()
	if flushErr := m.out.Flush(); flushErr != nil {
		err = errors.Join(err, fmt.Errorf("writing output: %w", flushErr))
	}

	m.stats.LinesA = m.a.emitted
	m.stats.LinesB = m.b.emitted
	m.stats.LinesWritten = m.out.Lines()
	m.stats.BytesWritten = m.out.Bytes()

	if err != nil {
		m.state = StateFailed
		m.logger.Error("Merge failed",
			"error", err,
			"linesWritten", m.stats.LinesWritten,
			"duration", time.Since(start))
		return m.stats, err
	}

	m.state = StateCompleted
	m.logger.Info("Merge completed",
		"linesA", m.stats.LinesA,
		"linesB", m.stats.LinesB,
		"linesWritten", m.stats.LinesWritten,
		"bytesWritten", m.stats.BytesWritten,
		"duration", time.Since(start))
	return m.stats, nil
}

func (m *Merger) merge() error {
	for {
		if err := m.a.fill(); err != nil {
			return err
		}
		if err := m.b.fill(); err != nil {
			return err
		}

		a, b := m.a.pending, m.b.pending
		switch {
		case a == nil && b == nil:
			return nil
		case b == nil || (a != nil && a.ts.Before(b.ts)):
			if err := m.drain(m.a, m.b, true); err != nil {
				return err
			}
		case a == nil || a.ts.After(b.ts):
			if err := m.drain(m.b, m.a, false); err != nil {
				return err
			}
		default:
			// Tie: A first, then B
			if err := m.emit(m.a); err != nil {
				return err
			}
			if err := m.emit(m.b); err != nil {
				return err
			}
		}
	}
}

// drain writes the pending record of from, then keeps copying from it while
// its records stay below the pending record of other (or equal to it, if
// inclusive). The first record past that bound stays pending. Finally the
// pending record of other is written.
func (m *Merger) drain(from, other *stream, inclusive bool) error {
	if err := m.emit(from); err != nil {
		return err
	}

	var bound *time.Time
	if other.pending != nil {
		bound = &other.pending.ts
	}

	run := 1
	for {
		if err := from.fill(); err != nil {
			return err
		}
		next := from.pending
		if next == nil {
			break
		}
		if bound != nil {
			c := next.ts.Compare(*bound)
			if c > 0 || (c == 0 && !inclusive) {
				break
			}
		}
		if err := m.emit(from); err != nil {
			return err
		}
		run++
	}

	m.logger.Debug("Drained run", "log", from.name, "lines", run)

	if other.pending != nil {
		return m.emit(other)
	}
	return nil
}

// emit writes the pending record of s and clears the slot.
func (m *Merger) emit(s *stream) error {
	rec := s.pending
	if err := m.out.Write(rec.line); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	s.pending = nil
	s.emitted++

	if m.a.emitted+m.b.emitted == 1 {
		m.stats.First = rec.ts
	}
	m.stats.Last = rec.ts
	return nil
}
