// Package script parses and runs replay scripts: short YAML programs of
// push, pop and drain operations applied to a ring buffer of strings.
//
//	capacity: 3
//	ops:
//	  - push 1
//	  - push 2
//	  - push 3
//	  - push 4
//	  - pop
//	  - drain
//
// Running a script produces a Trace recording what each operation did,
// which makes eviction and wraparound easy to inspect.
package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/Iron-Ham/ringtail/internal/errors"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// OpKind names a buffer operation.
type OpKind string

const (
	OpPush  OpKind = "push"
	OpPop   OpKind = "pop"
	OpDrain OpKind = "drain"
)

// Op is one parsed script operation.
type Op struct {
	Kind  OpKind
	Value string // push only
	Raw   string
}

// Script is a parsed replay script.
type Script struct {
	// Capacity is the buffer capacity; nil means the caller's default.
	Capacity *int
	Ops      []Op
}

// document is the on-disk YAML shape.
type document struct {
	Capacity *int     `yaml:"capacity"`
	Ops      []string `yaml:"ops"`
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("file", path).WithCause(err)
		}
		return nil, errors.Wrapf(err, "failed to read script %s", path)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid script %s", path)
	}
	return s, nil
}

// Parse decodes a YAML script. Every malformed operation is reported, not
// just the first.
func Parse(data []byte) (*Script, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewScriptError("cannot decode yaml", err)
	}

	if doc.Capacity != nil && *doc.Capacity < 0 {
		return nil, errors.NewValidationError("capacity must be non-negative").
			WithField("capacity").
			WithValue(*doc.Capacity).
			WithCause(errors.ErrInvalidCapacity)
	}
	if len(doc.Ops) == 0 {
		return nil, errors.NewScriptError("nothing to replay", errors.ErrEmptyScript)
	}

	var result *multierror.Error
	ops := make([]Op, 0, len(doc.Ops))
	drainedAt := 0
	for i, raw := range doc.Ops {
		step := i + 1
		op, err := parseOp(raw)
		if err != nil {
			result = multierror.Append(result, err.WithStep(step))
			continue
		}
		if drainedAt > 0 {
			result = multierror.Append(result, errors.NewScriptError(
				fmt.Sprintf("buffer was already drained at step %d", drainedAt), nil,
			).WithStep(step).WithOp(raw))
			continue
		}
		if op.Kind == OpDrain {
			drainedAt = step
		}
		ops = append(ops, op)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &Script{Capacity: doc.Capacity, Ops: ops}, nil
}

func parseOp(raw string) (Op, *errors.ScriptError) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Op{}, errors.NewScriptError("empty operation", errors.ErrUnknownOp)
	}

	kind := OpKind(strings.ToLower(fields[0]))
	switch kind {
	case OpPush:
		value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), fields[0]))
		if value == "" {
			return Op{}, errors.NewScriptError("push without a value", errors.ErrMissingValue).WithOp(raw)
		}
		return Op{Kind: OpPush, Value: value, Raw: raw}, nil
	case OpPop, OpDrain:
		if len(fields) > 1 {
			return Op{}, errors.NewScriptError(
				fmt.Sprintf("%s takes no arguments", kind), errors.ErrInvalidInput,
			).WithOp(raw)
		}
		return Op{Kind: kind, Raw: raw}, nil
	default:
		return Op{}, errors.NewScriptError("unrecognized operation", errors.ErrUnknownOp).WithOp(raw)
	}
}
