// Package logging provides structured logging for potpanel runs.
//
// This package wraps Go's log/slog to write JSON-formatted logs. Every task
// of the panel logs through a child logger tagged with its task name, and
// every run carries a run ID, so a log file can be filtered per task after
// the fact.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/var/log/potpanel", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	taskLog := logger.WithRun(runID).WithTask("sampling")
//	taskLog.Debug("sample stored", "sample", 45, "channel", 0)
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"sample stored","run_id":"...","task":"sampling","sample":45,"channel":0}
//
// # Runtime Level Changes
//
// All loggers derived from one root share a level. [Logger.SetLevel] changes
// it for the whole tree; the CLI uses this when the config file is edited
// while the panel is running.
//
// # Log Rotation
//
// [NewLoggerWithRotation] writes through a [RotatingWriter], which renames
// potpanel.log to potpanel.log.1 (optionally gzipped) when it would exceed
// MaxSizeMB.
//
// # Reading Logs
//
// [ReadLogs] and [FilterLogs] back the `potpanel logs` command.
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] with a buffer to
// assert on entries.
package logging
