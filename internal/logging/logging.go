// ABOUTME: Structured logger construction on charmbracelet/log
// ABOUTME: Writes to stderr and, when configured, appends to a log file as well
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Options controls where and how verbosely answerbot logs
type Options struct {
	Level  string
	File   string
	Output io.Writer
}

// Logger is a configured logger plus the log file it may own
type Logger struct {
	*log.Logger
	file *os.File
}

// New builds a logger from opts. Output defaults to stderr.
func New(opts Options) (*Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var writers []io.Writer
	if opts.Output != nil {
		writers = append(writers, opts.Output)
	} else {
		writers = append(writers, os.Stderr)
	}

	var file *os.File
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}

	logger := log.NewWithOptions(io.MultiWriter(writers...), log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "answerbot",
	})

	return &Logger{Logger: logger, file: file}, nil
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
