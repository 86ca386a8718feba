// Package debug provides conditional debug logging for mandal.
//
// Debug logging is enabled by setting the MANDAL_DEBUG environment variable:
//
//	MANDAL_DEBUG=1 mandal
//
// The TUI owns the terminal, so messages go to a log file (see Init). CLI
// subcommands may log to stderr instead. When disabled (default), all debug
// functions are no-ops.
//
// Usage:
//
//	debug.Log("saved board (%d bytes)", n)
//	defer debug.LogEnterExit("export")()
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = zap.NewNop().Sugar()
)

func init() {
	if os.Getenv("MANDAL_DEBUG") != "" {
		enabled = true
		logger = newLogger("stderr")
	}
}

func newLogger(path string) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Named("mandal").Sugar()
}

// Init redirects debug output to a file. It is a no-op when debug logging is
// disabled. An empty path keeps stderr.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if !enabled || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	_ = logger.Sync()
	logger = newLogger(path)
	return nil
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if e {
		logger = newLogger("stderr")
	}
}

func current() (*zap.SugaredLogger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, enabled
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	l, on := current()
	if !on {
		return
	}
	l.Debugf(format, args...)
}

// Error logs an error with context. Used for failures that are deliberately
// not surfaced to the user, like storage writes.
func Error(context string, err error) {
	l, on := current()
	if !on || err == nil {
		return
	}
	l.Errorw(context, "error", err)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	l, on := current()
	if !on {
		return
	}
	l.Debugw("timing", "op", name, "took", d)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("myFunc")()
func LogEnterExit(name string) func() {
	l, on := current()
	if !on {
		return func() {}
	}
	l.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		l.Debugf("<- %s (%v)", name, time.Since(start))
	}
}

// Sync flushes buffered log entries.
func Sync() {
	l, _ := current()
	_ = l.Sync()
}
