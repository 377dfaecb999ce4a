package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/ringtail/internal/errors"
	"github.com/hashicorp/go-multierror"
)

func TestParse(t *testing.T) {
	data := []byte(`
capacity: 3
ops:
  - push 1
  - PUSH  hello world
  - pop
  - drain
`)

	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Capacity == nil || *s.Capacity != 3 {
		t.Fatalf("Capacity = %v, want 3", s.Capacity)
	}

	want := []Op{
		{Kind: OpPush, Value: "1"},
		{Kind: OpPush, Value: "hello world"},
		{Kind: OpPop},
		{Kind: OpDrain},
	}
	if len(s.Ops) != len(want) {
		t.Fatalf("got %d ops, want %d", len(s.Ops), len(want))
	}
	for i, w := range want {
		if s.Ops[i].Kind != w.Kind || s.Ops[i].Value != w.Value {
			t.Errorf("op %d = %+v, want kind=%s value=%q", i, s.Ops[i], w.Kind, w.Value)
		}
	}
}

func TestParse_NoCapacity(t *testing.T) {
	s, err := Parse([]byte("ops: [pop]"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Capacity != nil {
		t.Errorf("Capacity = %d, want nil", *s.Capacity)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"malformed yaml", "ops: [push 1", nil},
		{"no ops", "capacity: 2\n", errors.ErrEmptyScript},
		{"negative capacity", "capacity: -1\nops: [pop]\n", errors.ErrInvalidCapacity},
		{"unknown op", "ops: [peek]\n", errors.ErrUnknownOp},
		{"push without value", "ops: [push]\n", errors.ErrMissingValue},
		{"pop with argument", "ops: [pop 2]\n", errors.ErrInvalidInput},
		{"blank op", "ops: ['  ']\n", errors.ErrUnknownOp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_ReportsEveryBadOp(t *testing.T) {
	_, err := Parse([]byte("ops:\n  - push 1\n  - peek\n  - push\n  - drain\n  - pop\n"))
	if err == nil {
		t.Fatal("Parse succeeded, want error")
	}

	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("error type = %T, want *multierror.Error", err)
	}
	if len(merr.Errors) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(merr.Errors), err)
	}

	wantSteps := []int{2, 3, 5}
	for i, e := range merr.Errors {
		var scriptErr *errors.ScriptError
		if !errors.As(e, &scriptErr) {
			t.Errorf("error %d is %T, want *errors.ScriptError", i, e)
			continue
		}
		if scriptErr.Step != wantSteps[i] {
			t.Errorf("error %d step = %d, want %d", i, scriptErr.Step, wantSteps[i])
		}
	}
	if !strings.Contains(merr.Errors[2].Error(), "already drained at step 4") {
		t.Errorf("third error = %q, want drained message", merr.Errors[2].Error())
	}
}

func TestLoad(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "s.yaml")
		if err := os.WriteFile(path, []byte("ops: [push a, pop]\n"), 0644); err != nil {
			t.Fatalf("failed to write script: %v", err)
		}
		s, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(s.Ops) != 2 {
			t.Errorf("got %d ops, want 2", len(s.Ops))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, errors.ErrFileNotFound) {
			t.Errorf("Load error = %v, want ErrFileNotFound", err)
		}
	})

	t.Run("invalid contents name the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("ops: [jump]\n"), 0644); err != nil {
			t.Fatalf("failed to write script: %v", err)
		}
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), path) {
			t.Errorf("Load error = %v, want it to mention %s", err, path)
		}
		if !errors.Is(err, errors.ErrUnknownOp) {
			t.Errorf("Load error = %v, want ErrUnknownOp", err)
		}
	})
}
