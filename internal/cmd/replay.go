package cmd

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/ringtail/internal/output"
	"github.com/Iron-Ham/ringtail/internal/script"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay push, pop, and drain operations against a ring",
	Long: `Replay a YAML script of ring buffer operations and print what each
step did: which value a push evicted, what a pop returned, and what a drain
yielded.

A script looks like:

  capacity: 3
  ops:
    - push 1
    - push 2
    - push 3
    - push 4
    - pop
    - drain

Scripts that omit capacity use buffer.capacity from the configuration, or
--capacity.

Examples:
  ringtail replay scenario.yaml
  ringtail replay -o json scenario.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().Int("capacity", 16, "Capacity for scripts that don't set one")
}

func runReplay(cmd *cobra.Command, args []string) error {
	s, err := script.Load(args[0])
	if err != nil {
		return err
	}

	trace := script.Run(s, cfg.Buffer.Capacity, logger.With("script", args[0]))

	printer := newPrinter(cmd)
	if printer.Format() != output.FormatText {
		return printer.Encode(trace)
	}
	return printTrace(printer, trace)
}

func printTrace(p *output.Printer, trace *script.Trace) error {
	if err := p.Println(p.Render(output.Title, fmt.Sprintf("capacity %d", trace.Capacity))); err != nil {
		return err
	}

	for _, step := range trace.Steps {
		op := string(step.Op)
		if step.Value != "" {
			op += " " + step.Value
		}

		var result string
		switch {
		case step.Evicted != nil:
			result = p.Render(output.Warning, "evicted "+*step.Evicted)
		case step.Popped != nil:
			result = p.Render(output.Success, "-> "+*step.Popped)
		case step.Op == script.OpPop:
			result = p.Render(output.Muted, "-> (empty)")
		case step.Op == script.OpDrain:
			result = p.Render(output.Success, "-> "+formatValues(step.Drained))
		}

		line := fmt.Sprintf("%4d  %-16s len=%d", step.Step, op, step.Len)
		if result != "" {
			line += "  " + result
		}
		if err := p.Println(line); err != nil {
			return err
		}
	}

	if !hasDrain(trace) {
		return p.Println(p.Render(output.Muted, "remaining "+formatValues(trace.Remaining)))
	}
	return nil
}

func hasDrain(trace *script.Trace) bool {
	for _, step := range trace.Steps {
		if step.Op == script.OpDrain {
			return true
		}
	}
	return false
}

func formatValues(values []string) string {
	return "[" + strings.Join(values, " ") + "]"
}
