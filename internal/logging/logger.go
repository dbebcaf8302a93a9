package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu sync.Mutex

	// Logger is the global logger instance. It discards output until Init runs.
	Logger = log.New(io.Discard)

	// logFile is the file handle for the log file
	logFile *os.File
)

// Options controls where and how verbosely the log is written.
type Options struct {
	// Dir is the log directory; the file name carries the current date.
	Dir string
	// Path, when set, is used as-is instead of a dated file under Dir.
	Path  string
	Level string
}

// FilePath returns the log file Init would open for opts.
func FilePath(opts Options, now time.Time) string {
	if opts.Path != "" {
		return opts.Path
	}
	return filepath.Join(opts.Dir, fmt.Sprintf("rangmanch-%s.log", now.Format("2006-01-02")))
}

// Init opens the log file and installs the global logger. The TUI owns the
// terminal, so logs never go to stderr.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		level = log.InfoLevel
	}

	path := FilePath(opts, time.Now())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f

	Logger = log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})
	Logger.Info("rangmanch started", "log", path)
	return nil
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return
	}
	Logger.Info("rangmanch shutting down")
	_ = logFile.Close()
	logFile = nil
	Logger = log.New(io.Discard)
}

// Info logs an info message
func Info(msg string, keyvals ...any) { current().Info(msg, keyvals...) }

// Debug logs a debug message
func Debug(msg string, keyvals ...any) { current().Debug(msg, keyvals...) }

// Warn logs a warning message
func Warn(msg string, keyvals ...any) { current().Warn(msg, keyvals...) }

// Error logs an error message
func Error(msg string, keyvals ...any) { current().Error(msg, keyvals...) }

// WithPrefix returns a logger with a prefix. Loggers taken before Init keep
// discarding, so take them after Init.
func WithPrefix(prefix string) *log.Logger {
	return current().WithPrefix(prefix)
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return Logger
}
