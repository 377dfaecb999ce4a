package script

import (
	"github.com/Iron-Ham/ringtail/internal/logging"
	"github.com/Iron-Ham/ringtail/internal/ringbuffer"
)

// Step records the outcome of one operation.
//
// Evicted is the value a push displaced (for capacity 0, the pushed value
// itself). Popped is nil when a pop found the buffer empty. Drained lists
// what a drain yielded, oldest first. Len is the occupancy afterwards.
type Step struct {
	Step    int      `json:"step" yaml:"step"`
	Op      OpKind   `json:"op" yaml:"op"`
	Value   string   `json:"value,omitempty" yaml:"value,omitempty"`
	Evicted *string  `json:"evicted,omitempty" yaml:"evicted,omitempty"`
	Popped  *string  `json:"popped,omitempty" yaml:"popped,omitempty"`
	Drained []string `json:"drained,omitempty" yaml:"drained,omitempty"`
	Len     int      `json:"len" yaml:"len"`
}

// Trace is the result of running a Script.
type Trace struct {
	Capacity int    `json:"capacity" yaml:"capacity"`
	Steps    []Step `json:"steps" yaml:"steps"`
	// Remaining lists values left in the buffer when the script did not
	// end with a drain.
	Remaining []string `json:"remaining" yaml:"remaining"`
}

// Run executes s against a fresh buffer. defaultCapacity is used when the
// script does not set one. A nil logger discards log output.
func Run(s *Script, defaultCapacity int, logger *logging.Logger) *Trace {
	if logger == nil {
		logger = logging.NopLogger()
	}

	capacity := defaultCapacity
	if s.Capacity != nil {
		capacity = *s.Capacity
	}

	buf := ringbuffer.New[string](capacity)
	trace := &Trace{
		Capacity:  buf.Cap(),
		Steps:     make([]Step, 0, len(s.Ops)),
		Remaining: []string{},
	}
	drained := false

	for i, op := range s.Ops {
		step := Step{Step: i + 1, Op: op.Kind, Value: op.Value}

		switch op.Kind {
		case OpPush:
			switch {
			case buf.Cap() == 0:
				discarded := op.Value
				step.Evicted = &discarded
			case buf.Len() == buf.Cap():
				oldest, _ := buf.Peek()
				step.Evicted = &oldest
			}
			buf.Push(op.Value)
		case OpPop:
			if v, ok := buf.Pop(); ok {
				step.Popped = &v
			}
		case OpDrain:
			step.Drained = buf.Drain().Collect()
			drained = true
		}

		step.Len = buf.Len()
		logger.Debug("replay step",
			"step", step.Step,
			"op", string(step.Op),
			"len", step.Len,
		)
		trace.Steps = append(trace.Steps, step)
	}

	if !drained {
		trace.Remaining = buf.Drain().Collect()
	}
	return trace
}
