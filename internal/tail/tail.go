// Package tail keeps the last N matching lines of a stream.
//
// A [Tailer] owns a ring buffer of [Line] values. Lines are fed in from an
// io.Reader or, in follow mode, from a file watched with fsnotify. Once
// input ends, [Tailer.Drain] hands back the retained lines oldest first.
//
// A Tailer is not safe for concurrent use; follow mode drives it from a
// single goroutine.
package tail

import (
	"bufio"
	"io"
	"strings"

	"github.com/Iron-Ham/ringtail/internal/errors"
	"github.com/Iron-Ham/ringtail/internal/logging"
	"github.com/Iron-Ham/ringtail/internal/ringbuffer"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1024 * 1024 // 1MB

// Line is one retained input line.
type Line struct {
	// Number is the 1-based position of the line in the input, counting
	// lines that were filtered out.
	Number int    `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
}

// Options configures a Tailer.
type Options struct {
	// Lines is the number of trailing lines to retain.
	Lines int
	// Match is a glob pattern lines must match. Empty matches everything.
	Match string
	// Level is the minimum slog level for JSON lines. Empty disables it.
	Level string
}

// Stats summarizes what a Tailer has seen.
type Stats struct {
	Read     int `json:"read" yaml:"read"`
	Matched  int `json:"matched" yaml:"matched"`
	Retained int `json:"retained" yaml:"retained"`
	Dropped  int `json:"dropped" yaml:"dropped"`
}

// Tailer retains the most recent matching lines it is given.
type Tailer struct {
	buf     *ringbuffer.RingBuffer[Line]
	filter  *Filter
	logger  *logging.Logger
	read    int
	matched int
	evicted int
	drained bool
}

// New creates a Tailer. A nil logger discards log output.
func New(opts Options, logger *logging.Logger) (*Tailer, error) {
	if opts.Lines < 0 {
		return nil, errors.NewValidationError("line count must be non-negative").
			WithField("lines").
			WithValue(opts.Lines).
			WithCause(errors.ErrInvalidCapacity)
	}

	filter, err := NewFilter(opts.Match, opts.Level)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.NopLogger()
	}

	return &Tailer{
		buf:    ringbuffer.New[Line](opts.Lines),
		filter: filter,
		logger: logger,
	}, nil
}

// Add offers one line of input. It returns the Line and true if the line
// passed the filter and was pushed into the buffer.
func (t *Tailer) Add(text string) (Line, bool) {
	if t.drained {
		return Line{}, false
	}
	t.read++
	if !t.filter.Keep(text) {
		return Line{}, false
	}

	line := Line{Number: t.read, Text: text}
	t.matched++
	if t.buf.Len() == t.buf.Cap() {
		t.evicted++
	}
	t.buf.Push(line)
	return line, true
}

// ReadFrom adds every line of r until EOF. It implements io.ReaderFrom.
func (t *Tailer) ReadFrom(r io.Reader) (int64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var n int64
	for scanner.Scan() {
		text := scanner.Text()
		n += int64(len(text)) + 1
		t.Add(strings.TrimSuffix(text, "\r"))
	}
	if err := scanner.Err(); err != nil {
		return n, errors.Wrap(err, "failed to read input")
	}

	t.logger.Debug("input consumed", "bytes", n, "read", t.read, "matched", t.matched)
	return n, nil
}

// Stats returns counts for the input seen so far. Retained counts lines
// held at the time of Drain once the Tailer has been drained.
func (t *Tailer) Stats() Stats {
	return Stats{
		Read:     t.read,
		Matched:  t.matched,
		Retained: t.matched - t.evicted,
		Dropped:  t.evicted,
	}
}

// Drain consumes the Tailer's buffer and returns the retained lines,
// oldest first. Lines added afterwards are ignored.
func (t *Tailer) Drain() []Line {
	stats := t.Stats()
	t.drained = true
	lines := t.buf.Drain().Collect()

	t.logger.Info("tail drained",
		"read", stats.Read,
		"matched", stats.Matched,
		"retained", stats.Retained,
		"dropped", stats.Dropped,
	)
	return lines
}
