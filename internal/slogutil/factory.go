package slogutil

import (
	"io"
	"log/slog"

	"coderef/internal/config"
	"coderef/internal/paths"
)

// LoggerFactory builds the loggers for one CLI invocation. The log file level
// comes from logging.level; the console level comes from -v/-q.
type LoggerFactory struct {
	repoRoot string
	config   *config.Config
	closers  []io.Closer
}

// NewLoggerFactory creates a new logger factory.
func NewLoggerFactory(repoRoot string, cfg *config.Config) *LoggerFactory {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &LoggerFactory{
		repoRoot: repoRoot,
		config:   cfg,
	}
}

// FileLogger writes to <repoRoot>/.coderef/logs/coderef.log. Failures to open
// the file yield a discard logger; logging never blocks a command.
func (f *LoggerFactory) FileLogger() *slog.Logger {
	if f.repoRoot == "" {
		return NewDiscardLogger()
	}
	logger, closer, err := NewFileLoggerWithRotation(
		paths.LogPath(f.repoRoot),
		LevelFromString(f.config.Logging.Level),
		f.config.Logging.Format,
		f.config.Logging.MaxSize,
		f.config.Logging.MaxBackups,
	)
	if err != nil {
		return NewDiscardLogger()
	}
	f.closers = append(f.closers, closer)
	return logger
}

// CLILogger writes to console at the given level and to the log file.
func (f *LoggerFactory) CLILogger(console io.Writer, level slog.Level) *slog.Logger {
	consoleHandler := newFormatHandler(console, level, f.config.Logging.Format)
	if f.repoRoot == "" {
		return slog.New(consoleHandler)
	}
	return slog.New(NewTeeHandler(consoleHandler, f.FileLogger().Handler()))
}

// Close closes all open log files.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
