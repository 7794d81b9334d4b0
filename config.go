package weft

import "log/slog"

// Config configures a Run. The zero value is a valid Config: logging is
// disabled. Config carries no log level of its own; step records are
// emitted at LevelDebug and the supplied Logger's handler decides whether
// they are kept.
type Config struct {
	// Logger receives one record per driver step, tagged with "step" and
	// "thread", at LevelDebug. Optional; nil disables step logging
	// entirely.
	Logger *slog.Logger

	// CaptureLog redirects the run's log records into RunResult.Log as
	// JSON instead of sending them to Logger, for tests that want to
	// assert on log content rather than watch a terminal.
	CaptureLog bool
}
