// Package output provides logging and terminal rendering for cvsgit.
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const ruleWidth = 80

// simpleHandler is a custom slog handler that writes messages without timestamps or level prefixes
type simpleHandler struct {
	writer    io.Writer
	debugMode bool
	quiet     *bool // Pointer to quiet flag so it can be changed dynamically
}

func (h *simpleHandler) Enabled(_ context.Context, level slog.Level) bool {
	// Debug messages only enabled in debug mode
	if level == slog.LevelDebug {
		return h.debugMode
	}
	return true
}

func (h *simpleHandler) Handle(_ context.Context, record slog.Record) error {
	if *h.quiet {
		return nil
	}
	_, err := fmt.Fprintln(h.writer, record.Message)
	return err
}

func (h *simpleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *simpleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// createLumberjackLogger creates a lumberjack logger with configuration from environment variables
func createLumberjackLogger(logFilePath string) *lumberjack.Logger {
	config := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10,    // megabytes; import logs are long
		MaxBackups: 2,     // Keep 2 old files - default
		MaxAge:     30,    // Keep for 30 days - default
		Compress:   false, // Never compress logs - default
	}

	if maxSizeStr := os.Getenv("CVSGIT_LOG_MAX_SIZE"); maxSizeStr != "" {
		if maxSize, err := strconv.Atoi(maxSizeStr); err == nil && maxSize > 0 {
			config.MaxSize = maxSize
		}
	}

	if maxBackupsStr := os.Getenv("CVSGIT_LOG_MAX_BACKUPS"); maxBackupsStr != "" {
		if maxBackups, err := strconv.Atoi(maxBackupsStr); err == nil && maxBackups >= 0 {
			config.MaxBackups = maxBackups
		}
	}

	if maxAgeStr := os.Getenv("CVSGIT_LOG_MAX_AGE"); maxAgeStr != "" {
		if maxAge, err := strconv.Atoi(maxAgeStr); err == nil && maxAge > 0 {
			config.MaxAge = maxAge
		}
	}

	return config
}

// multiHandler fans out log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// Splog provides structured logging and output.
//
// Besides the leveled Info/Warn/Error/Debug messages it carries the narration
// surface used by the history repairs: indentation scopes, rule lines and plain
// lines. Narration is logged at debug level, so it always reaches the log file
// and only reaches the console in debug mode.
type Splog struct {
	logger    *slog.Logger
	writer    io.Writer
	logWriter io.WriteCloser // Lumberjack logger for file logging
	quiet     bool
	indent    int
}

// NewSplog creates a new splog instance with console-only logging.
// Debug messages are enabled when the DEBUG environment variable is set.
func NewSplog() *Splog {
	return NewSplogWithWriter(os.Stdout, os.Getenv("DEBUG") != "")
}

// NewSplogWithWriter creates a console-only splog writing to w
func NewSplogWithWriter(w io.Writer, debug bool) *Splog {
	splog := &Splog{writer: w}
	splog.logger = slog.New(&simpleHandler{
		writer:    w,
		debugMode: debug,
		quiet:     &splog.quiet,
	})
	return splog
}

// NewSplogWithConfig creates a new splog instance writing to writer, with optional
// file logging
func NewSplogWithConfig(writer io.Writer, logFilePath string, debug bool) (*Splog, error) {
	debugMode := debug || os.Getenv("DEBUG") != ""
	splog := &Splog{writer: writer}

	consoleHandler := &simpleHandler{
		writer:    writer,
		debugMode: debugMode,
		quiet:     &splog.quiet,
	}

	handlers := []slog.Handler{consoleHandler}

	if logFilePath != "" {
		logDir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(logDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		lumberjackLogger := createLumberjackLogger(logFilePath)
		splog.logWriter = lumberjackLogger

		fileHandler := slog.NewTextHandler(lumberjackLogger, &slog.HandlerOptions{
			Level: slog.LevelDebug, // Always log everything to file
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{Key: a.Key, Value: slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.000"))}
				}
				return a
			},
		})
		handlers = append(handlers, fileHandler)
	}

	splog.logger = slog.New(&multiHandler{handlers: handlers})

	return splog, nil
}

// SetQuiet suppresses all console output while quiet is true
func (s *Splog) SetQuiet(quiet bool) {
	s.quiet = quiet
}

// IsQuiet returns whether the logger is in quiet mode.
func (s *Splog) IsQuiet() bool {
	return s.quiet
}

// logMessage is a helper to log a message using slog without format string validation
func (s *Splog) logMessage(level slog.Level, msg string) {
	s.logger.Log(context.Background(), level, msg)
}

func format(prefix, f string, args []interface{}) string {
	if len(args) == 0 {
		return prefix + f
	}
	return fmt.Sprintf(prefix+f, args...)
}

// Indent increases the indent of following narration lines. Calling the
// returned function restores the previous indent; extra calls do nothing.
func (s *Splog) Indent() func() {
	s.indent++
	restored := false
	return func() {
		if !restored {
			restored = true
			s.indent--
		}
	}
}

// RuleOff writes a single rule line
func (s *Splog) RuleOff() {
	s.logMessage(slog.LevelDebug, strings.Repeat("-", ruleWidth))
}

// DoubleRuleOff writes a double rule line
func (s *Splog) DoubleRuleOff() {
	s.logMessage(slog.LevelDebug, strings.Repeat("=", ruleWidth))
}

// Blank writes an empty narration line
func (s *Splog) Blank() {
	s.logMessage(slog.LevelDebug, "")
}

// WriteLine writes an indented narration line
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) WriteLine(f string, args ...interface{}) {
	s.logMessage(slog.LevelDebug, strings.Repeat("  ", s.indent)+format("", f, args))
}

// Info writes an info message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Info(f string, args ...interface{}) {
	s.logMessage(slog.LevelInfo, format("", f, args))
}

// Page writes output that should be paged (for now, just print)
func (s *Splog) Page(content string) {
	if s.quiet {
		return
	}
	_, _ = fmt.Fprint(s.writer, content)
}

// Newline writes a newline
func (s *Splog) Newline() {
	if s.quiet {
		return
	}
	_, _ = fmt.Fprintln(s.writer)
}

// Warn writes a warning message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Warn(f string, args ...interface{}) {
	s.logMessage(slog.LevelWarn, format("⚠️  ", f, args))
}

// Error writes an error message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Error(f string, args ...interface{}) {
	s.logMessage(slog.LevelError, format("❌ ", f, args))
}

// Debug writes a debug message
// nolint // format string validation is handled internally via fmt.Sprintf
func (s *Splog) Debug(f string, args ...interface{}) {
	s.logMessage(slog.LevelDebug, format("", f, args))
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.logWriter != nil {
		return s.logWriter.Close()
	}
	return nil
}
