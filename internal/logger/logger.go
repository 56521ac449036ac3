package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// log is the process-wide zerolog.Logger every package in this repository
// writes through, whether that's a CLI command printing to a terminal or
// the admin API logging requests and WebSocket lifecycle events.
var log zerolog.Logger

// Init configures the process-wide logger: level parses to InfoLevel on
// any unrecognized string, and pretty switches from JSON-to-stdout (the
// default, suited to log aggregation) to a human-readable console writer
// (suited to `cake run` on a terminal).
func Init(level string, pretty bool) {
	// Parse log level
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)

	var output io.Writer = os.Stdout
	if pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	log = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Get returns the process-wide logger, for callers that need the
// zerolog.Logger value itself rather than one of the Debug/Info/Warn/
// Error/Fatal convenience entry points below.
func Get() *zerolog.Logger {
	return &log
}

// WithComponent tags log lines with the subsystem that emitted them
// (e.g. "adminapi", "store") when a package's own name isn't already
// implicit from the call site.
func WithComponent(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// WithWorker tags log lines with a distributed-worker rank, so a
// master's log stream can be filtered down to one rank's traffic.
func WithWorker(workerID string) zerolog.Logger {
	return log.With().Str("worker_id", workerID).Logger()
}

// WithTask tags log lines with a store task id, the identifier threaded
// through checkout/execute/checkin.
func WithTask(taskID string) zerolog.Logger {
	return log.With().Str("task_id", taskID).Logger()
}

// WithClient tags log lines with a client id. The admin API's WebSocket
// hub and client pass their per-connection id, scoping connection
// lifecycle logging to one hub client.
func WithClient(clientID string) zerolog.Logger {
	return log.With().Str("client_id", clientID).Logger()
}

// Convenience methods
func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
