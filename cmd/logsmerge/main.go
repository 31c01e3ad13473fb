package main

import (
	"fmt"
	"io"
	"os"

	"logsmerge/internal/logging"
	"logsmerge/internal/merge"
	"logsmerge/internal/paths"
	"logsmerge/internal/sysmon"
	"logsmerge/internal/timestamp"

	"github.com/spf13/cobra"
)

const version = "0.1"

type options struct {
	output    string
	logLevel  string
	logFormat string
	stats     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "logsmerge LOG_A LOG_B",
		Short: "Merge two timestamp-sorted JSON Lines logs into one",
		Long: fmt.Sprintf(`Merge two JSON Lines logs, each sorted by timestamp, into one sorted log.

Every line must be a JSON object with a "timestamp" field in the format
YYYY-MM-DD HH:MM:SS, for example: "timestamp": "2021-02-26 08:59:20".

Lines are copied verbatim. Records with the same timestamp are written
LOG_A first. The merge stops at the first line that is not valid JSON or
has no valid timestamp; lines written up to that point are kept.

Inputs and output must use the %s extension and be three different files.
An existing output file is replaced.`, paths.Extension),
		Example:       "  logsmerge path/to/log_a.jsonl path/to/log_b.jsonl -o path/for/output.jsonl",
		Args:          cobra.ExactArgs(2),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.ErrOrStderr(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", paths.DefaultOutput, "Path to the output log file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", string(logging.FormatAuto), "Log format: auto, text or json")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print a summary of the merge to stderr")

	return cmd
}

func run(stderr io.Writer, logA, logB string, opts *options) error {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(opts.logFormat)
	if err != nil {
		return err
	}
	logger := logging.New(stderr, level, format)

	// Validate everything before touching the output
	if err := paths.Validate(logA, logB, opts.output); err != nil {
		return err
	}

	logger.Info("Merging logs", "logA", logA, "logB", logB, "output", opts.output)

	removed, err := paths.RemoveStale(opts.output)
	if err != nil {
		return err
	}
	if removed {
		logger.Info("Removed existing output", "path", opts.output)
	}

	stats, err := merge.Files(logA, logB, opts.output, merge.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	if usage, err := sysmon.Current(); err != nil {
		logger.Warn("Failed to read resource usage", "error", err)
	} else {
		logger.Info("Resource usage", "usage", usage)
	}

	if opts.stats {
		printStats(stderr, stats)
	}
	return nil
}

func printStats(w io.Writer, stats merge.Stats) {
	fmt.Fprintf(w, "Lines from log A: %d\n", stats.LinesA)
	fmt.Fprintf(w, "Lines from log B: %d\n", stats.LinesB)
	fmt.Fprintf(w, "Lines written:    %d (%d bytes)\n", stats.LinesWritten, stats.BytesWritten)
	if stats.LinesWritten > 0 {
		fmt.Fprintf(w, "Time range:       %s .. %s\n",
			stats.First.Format(timestamp.Layout), stats.Last.Format(timestamp.Layout))
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
