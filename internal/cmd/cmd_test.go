package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/ringtail/internal/errors"
	"github.com/Iron-Ham/ringtail/internal/script"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const scenario = `capacity: 3
ops:
  - push 1
  - push 2
  - push 3
  - push 4
  - pop
  - drain
`

// executeCommand runs the root command with args and stdin, isolated from
// the user's config, and returns captured stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	viper.Reset()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag to its default so earlier runs don't leak.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func numberedLines(n int) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	return sb.String()
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "ringtail" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "ringtail")
	}

	cmdMap := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		cmdMap[c.Name()] = true
	}
	for _, name := range []string{"tail", "replay", "config"} {
		if !cmdMap[name] {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

func TestTail(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "default keeps ten lines",
			stdin: numberedLines(25),
			args:  []string{"tail"},
			want:  strings.TrimPrefix(numberedLines(25), numberedLines(15)),
		},
		{
			name:  "lines flag",
			stdin: numberedLines(20),
			args:  []string{"tail", "-n", "3"},
			want:  "line 18\nline 19\nline 20\n",
		},
		{
			name:  "fewer lines than capacity",
			stdin: "a\nb\n",
			args:  []string{"tail", "-n", "5"},
			want:  "a\nb\n",
		},
		{
			name:  "zero keeps nothing",
			stdin: numberedLines(4),
			args:  []string{"tail", "-n", "0"},
			want:  "",
		},
		{
			name:  "match filters before the ring",
			stdin: "GET /a\nPOST /b\nGET /c\nPOST /d\nGET /e\n",
			args:  []string{"tail", "-n", "2", "--match", "GET *"},
			want:  "GET /c\nGET /e\n",
		},
		{
			name:  "numbers",
			stdin: "x\ny\nz\n",
			args:  []string{"tail", "-n", "2", "--numbers"},
			want:  "     2  y\n     3  z\n",
		},
		{
			name:  "width truncates printed lines",
			stdin: "a short line\nsomething much longer than ten\n",
			args:  []string{"tail", "-w", "10"},
			want:  "a short...\nsomethi...\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := executeCommand(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("tail failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestTail_File(t *testing.T) {
	path := writeFile(t, "app.log", strings.Join([]string{
		`{"time":"2026-01-02T03:04:05Z","level":"INFO","msg":"started"}`,
		`{"time":"2026-01-02T03:04:06Z","level":"ERROR","msg":"disk full"}`,
		`{"time":"2026-01-02T03:04:07Z","level":"DEBUG","msg":"tick"}`,
		`{"time":"2026-01-02T03:04:08Z","level":"WARN","msg":"slow request"}`,
	}, "\n")+"\n")

	out, _, err := executeCommand(t, "", "tail", "--level", "warn", path)
	if err != nil {
		t.Fatalf("tail failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "disk full") || !strings.Contains(lines[1], "slow request") {
		t.Errorf("unexpected lines:\n%s", out)
	}
}

func TestTail_Stats(t *testing.T) {
	out, stderr, err := executeCommand(t, numberedLines(1500), "tail", "-n", "2", "--stats")
	if err != nil {
		t.Fatalf("tail failed: %v", err)
	}
	if out != "line 1499\nline 1500\n" {
		t.Errorf("output = %q", out)
	}
	want := "kept 2 of 1,500 matching lines (1,500 read, 1,498 dropped)"
	if !strings.Contains(stderr, want) {
		t.Errorf("stderr = %q, want it to contain %q", stderr, want)
	}
}

func TestTail_JSON(t *testing.T) {
	out, _, err := executeCommand(t, "a\nb\nc\n", "tail", "-n", "2", "-o", "json", "--stats")
	if err != nil {
		t.Fatalf("tail failed: %v", err)
	}

	var result tailResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(result.Lines) != 2 || result.Lines[0].Text != "b" || result.Lines[1].Number != 3 {
		t.Errorf("Lines = %+v, want b(2) c(3)", result.Lines)
	}
	if result.Stats == nil || result.Stats.Dropped != 1 {
		t.Errorf("Stats = %+v, want 1 dropped", result.Stats)
	}
}

func TestTail_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"missing file", []string{"tail", filepath.Join(t.TempDir(), "nope.log")}, errors.ErrFileNotFound},
		{"follow without file", []string{"tail", "-f"}, errors.ErrInvalidInput},
		{"negative lines", []string{"tail", "-n", "-1"}, nil},
		{"bad glob", []string{"tail", "--match", "[unclosed"}, nil},
		{"too many args", []string{"tail", "a", "b"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, "", tt.args...)
			if err == nil {
				t.Fatal("tail succeeded, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTail_EnvOverridesDefault(t *testing.T) {
	t.Setenv("RINGTAIL_TAIL_LINES", "1")

	out, _, err := executeCommand(t, "a\nb\nc\n", "tail")
	if err != nil {
		t.Fatalf("tail failed: %v", err)
	}
	if out != "c\n" {
		t.Errorf("output = %q, want %q", out, "c\n")
	}
}

func TestTail_ConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "ringtail.yaml", "tail:\n  lines: 2\n  match: \"*x*\"\n")

	out, _, err := executeCommand(t, "x1\ny\nx2\nx3\n", "tail", "--config", cfgPath)
	if err != nil {
		t.Fatalf("tail failed: %v", err)
	}
	if out != "x2\nx3\n" {
		t.Errorf("output = %q, want %q", out, "x2\nx3\n")
	}

	// Flags win over the config file.
	out, _, err = executeCommand(t, "x1\ny\nx2\nx3\n", "tail", "--config", cfgPath, "-n", "1")
	if err != nil {
		t.Fatalf("tail failed: %v", err)
	}
	if out != "x3\n" {
		t.Errorf("output = %q, want %q", out, "x3\n")
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := executeCommand(t, "", "tail", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestReplay(t *testing.T) {
	path := writeFile(t, "scenario.yaml", scenario)

	out, _, err := executeCommand(t, "", "replay", path)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	for _, want := range []string{"capacity 3", "push 4", "evicted 1", "-> 2", "-> [3 4]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "remaining") {
		t.Errorf("drained script should not report remaining values:\n%s", out)
	}
}

func TestReplay_JSON(t *testing.T) {
	path := writeFile(t, "scenario.yaml", scenario)

	out, _, err := executeCommand(t, "", "replay", "-o", "json", path)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	var trace script.Trace
	if err := json.Unmarshal([]byte(out), &trace); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(trace.Steps) != 6 {
		t.Fatalf("got %d steps, want 6", len(trace.Steps))
	}
	if p := trace.Steps[4].Popped; p == nil || *p != "2" {
		t.Errorf("pop = %v, want 2", p)
	}
	if d := trace.Steps[5].Drained; len(d) != 2 || d[0] != "3" || d[1] != "4" {
		t.Errorf("drain = %v, want [3 4]", d)
	}
}

func TestReplay_CapacityFlag(t *testing.T) {
	path := writeFile(t, "s.yaml", "ops: [push a, push b, push c]\n")

	out, _, err := executeCommand(t, "", "replay", "--capacity", "2", path)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !strings.Contains(out, "capacity 2") || !strings.Contains(out, "remaining [b c]") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestReplay_Errors(t *testing.T) {
	bad := writeFile(t, "bad.yaml", "ops: [push 1, jump]\n")

	if _, _, err := executeCommand(t, "", "replay", bad); !errors.Is(err, errors.ErrUnknownOp) {
		t.Errorf("error = %v, want ErrUnknownOp", err)
	}
	if _, _, err := executeCommand(t, "", "replay", filepath.Join(t.TempDir(), "none.yaml")); !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
	if _, _, err := executeCommand(t, "", "replay"); err == nil {
		t.Error("replay without a script succeeded")
	}
}

func TestConfigShow(t *testing.T) {
	out, _, err := executeCommand(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, want := range []string{"# config file: (none - using defaults)", "capacity: 16", "lines: 10", "format: text"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "config", "validate")
		if err != nil {
			t.Fatalf("config validate failed: %v", err)
		}
		if !strings.Contains(out, "configuration is valid") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		cfgPath := writeFile(t, "bad.yaml", "tail:\n  lines: -4\noutput:\n  format: xml\n")

		out, _, err := executeCommand(t, "", "config", "validate", "--config", cfgPath)
		if err == nil {
			t.Fatal("config validate succeeded on invalid config")
		}
		if !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
		for _, want := range []string{"tail.lines", "output.format"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})
}

func TestConfigInit(t *testing.T) {
	out, _, err := executeCommand(t, "", "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "Created config file") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigPath(t *testing.T) {
	out, _, err := executeCommand(t, "", "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if !strings.Contains(out, "RINGTAIL_") {
		t.Errorf("output = %q", out)
	}
}
