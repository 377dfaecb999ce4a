package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Iron-Ham/ringtail/internal/errors"
	"github.com/Iron-Ham/ringtail/internal/output"
	"github.com/Iron-Ham/ringtail/internal/tail"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var tailCmd = &cobra.Command{
	Use:   "tail [file]",
	Short: "Print the last lines of a file or stdin",
	Long: `Print the last N lines of a file, or of standard input when no file
is given. Lines pass through an optional glob filter and, for JSON log
lines, a minimum level filter before entering the ring.

Examples:
  # Show the last 10 lines of a file
  ringtail tail app.log

  # Keep the last 100 lines that mention a request id
  ringtail tail -n 100 --match '*req-42*' app.log

  # Only warnings and errors from a structured log
  ringtail tail --level warn app.log

  # Follow a file, printing matches as they arrive, then drain on Ctrl-C
  ringtail tail -f app.log

  # Read from a pipe and report how much was dropped
  journalctl -u api | ringtail tail --stats`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTail,
}

var (
	tailFollow  bool
	tailStats   bool
	tailNumbers bool
	tailWidth   int
)

func init() {
	rootCmd.AddCommand(tailCmd)

	tailCmd.Flags().IntP("lines", "n", 10, "Number of trailing lines to keep")
	tailCmd.Flags().String("match", "", "Keep only lines matching a glob pattern")
	tailCmd.Flags().String("level", "", "Minimum level for JSON log lines (debug/info/warn/error)")
	tailCmd.Flags().BoolVarP(&tailFollow, "follow", "f", false, "Follow the file until interrupted")
	tailCmd.Flags().BoolVar(&tailStats, "stats", false, "Report line counts on stderr")
	tailCmd.Flags().BoolVar(&tailNumbers, "numbers", false, "Prefix lines with their input line number")
	tailCmd.Flags().IntVarP(&tailWidth, "width", "w", 0, "Truncate printed lines to this many columns (0 for no limit)")
}

// tailResult is the structured form of tail output.
type tailResult struct {
	Lines []tail.Line `json:"lines" yaml:"lines"`
	Stats *tail.Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

func runTail(cmd *cobra.Command, args []string) error {
	t, err := tail.New(tail.Options{
		Lines: cfg.Tail.Lines,
		Match: cfg.Tail.Match,
		Level: cfg.Tail.Level,
	}, logger)
	if err != nil {
		return err
	}

	printer := newPrinter(cmd)

	switch {
	case tailFollow:
		if len(args) == 0 {
			return errors.NewValidationError("--follow requires a file").WithField("follow")
		}
		if err := followFile(cmd, args[0], t, printer); err != nil {
			return err
		}
	case len(args) == 1:
		if err := readFile(args[0], t); err != nil {
			return err
		}
	default:
		if _, err := t.ReadFrom(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	stats := t.Stats()
	lines := t.Drain()

	// In follow mode text lines were already printed as they arrived.
	if printer.Format() == output.FormatText {
		if !tailFollow {
			for _, line := range lines {
				if err := printLine(printer, line); err != nil {
					return err
				}
			}
		}
		if tailStats {
			return printStats(cmd.ErrOrStderr(), printer, stats)
		}
		return nil
	}

	result := tailResult{Lines: lines}
	if result.Lines == nil {
		result.Lines = []tail.Line{}
	}
	if tailStats {
		result.Stats = &stats
	}
	return printer.Encode(result)
}

func readFile(path string, t *tail.Tailer) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("file", path).WithCause(err)
		}
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()

	_, err = t.ReadFrom(f)
	return err
}

func followFile(cmd *cobra.Command, path string, t *tail.Tailer, printer *output.Printer) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var printErr error
	opts := tail.FollowOptions{}
	if printer.Format() == output.FormatText {
		opts.OnLine = func(line tail.Line) {
			if printErr == nil {
				printErr = printLine(printer, line)
			}
		}
	}

	if err := tail.Follow(ctx, path, t, opts); err != nil {
		return err
	}
	return printErr
}

func printLine(p *output.Printer, line tail.Line) error {
	text := output.Truncate(line.Text, tailWidth)
	if !tailNumbers {
		return p.Println(text)
	}
	return p.Printf("%s  %s\n", p.Render(output.Muted, fmt.Sprintf("%6d", line.Number)), text)
}

func printStats(w io.Writer, p *output.Printer, s tail.Stats) error {
	msg := fmt.Sprintf("kept %s of %s matching lines (%s read, %s dropped)",
		humanize.Comma(int64(s.Retained)),
		humanize.Comma(int64(s.Matched)),
		humanize.Comma(int64(s.Read)),
		humanize.Comma(int64(s.Dropped)),
	)
	_, err := fmt.Fprintln(w, p.Render(output.Muted, msg))
	return err
}
