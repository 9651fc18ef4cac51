// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("menu fetched", slog.Int("cafeteria", 4857))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// A [Logger] is immutable; [Logger.Wrap] and [Logger.With] return new
// loggers. The package-level functions ([Info], [Debug], ...) write to a
// process-wide default logger that [Config] reconfigures.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace is rendered as "TRACE" rather than
// slog's "DEBUG-4".
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON]. Text output is colorized with
// lipgloss when [WithPretty] is enabled and the writer is a terminal.
package log
