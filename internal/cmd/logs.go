package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/potpanel/internal/config"
	"github.com/Iron-Ham/potpanel/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View panel logs",
	Long: `View and filter the log file written when logging.dir is set.

Examples:
  # Last 50 entries
  potpanel logs

  # Everything the button task logged in the last ten minutes
  potpanel logs --task button --since 10m -n 0

  # Warnings and errors from one run
  potpanel logs --run 0b6f... --level warn`,
	RunE: runLogs,
}

var (
	logsDir   string
	logsTail  int
	logsLevel string
	logsTask  string
	logsRun   string
	logsSince time.Duration
	logsGrep  string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsDir, "dir", "", "Log directory (default logging.dir)")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsTask, "task", "", "Only entries from this task (trigger, sampling, button, output, indicator)")
	logsCmd.Flags().StringVar(&logsRun, "run", "", "Only entries from this run ID")
	logsCmd.Flags().DurationVar(&logsSince, "since", 0, "Only entries newer than this (e.g. 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Only entries whose message contains this text")
}

func runLogs(cmd *cobra.Command, args []string) error {
	dir := logsDir
	if dir == "" {
		dir = config.Get().Logging.Dir
	}
	if dir == "" {
		return fmt.Errorf("no log directory: set logging.dir or pass --dir")
	}

	entries, err := logging.ReadLogs(dir)
	if err != nil {
		return err
	}

	filter := logging.LogFilter{
		Level:           logsLevel,
		Task:            logsTask,
		RunID:           logsRun,
		MessageContains: logsGrep,
	}
	if logsSince > 0 {
		filter.Since = time.Now().Add(-logsSince)
	}
	entries = logging.FilterLogs(entries, filter)

	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintln(out, logging.FormatEntry(e))
	}
	return nil
}
