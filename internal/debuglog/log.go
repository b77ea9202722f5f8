// Package debuglog is the process-wide diagnostic log. It is off by default
// and writes only to a file, so standard output stays reserved for results.
package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

var levels = [...]struct {
	name    string
	aliases []string
	zl      zerolog.Level
}{
	LevelDebug: {"DEBUG", []string{"TRACE"}, zerolog.DebugLevel},
	LevelInfo:  {"INFO", nil, zerolog.InfoLevel},
	LevelWarn:  {"WARN", []string{"WARNING"}, zerolog.WarnLevel},
	LevelError: {"ERROR", nil, zerolog.ErrorLevel},
	LevelOff:   {"OFF", nil, zerolog.Disabled},
}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levels) {
		return "UNKNOWN"
	}
	return levels[l].name
}

// ParseLogLevel maps a level name to a LogLevel. Unknown names map to OFF so
// a typo never starts writing log files.
func ParseLogLevel(s string) LogLevel {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, l := range levels {
		if l.name == s {
			return LogLevel(i)
		}
		for _, alias := range l.aliases {
			if alias == s {
				return LogLevel(i)
			}
		}
	}
	return LevelOff
}

func (l LogLevel) zerolog() zerolog.Level {
	if l < 0 || int(l) >= len(levels) {
		return zerolog.Disabled
	}
	return levels[l].zl
}

var (
	currentLevel = LevelOff
	logger       = zerolog.Nop()
	logFile      *os.File
)

// DefaultPath returns $XDG_STATE_HOME/fsearch/fsearch.log.
func DefaultPath() string {
	return filepath.Join(xdg.StateHome, "fsearch", "fsearch.log")
}

// Setup starts logging at level to filePath, or to DefaultPath when no path
// is given. A previously opened log file is closed first.
func Setup(level LogLevel, filePath ...string) error {
	if err := Close(); err != nil {
		return fmt.Errorf("closing previous log file: %w", err)
	}
	currentLevel = level
	if level == LevelOff {
		return nil
	}

	logPath := DefaultPath()
	if len(filePath) > 0 && filePath[0] != "" {
		logPath = filePath[0]
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	logFile = f
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        f,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}).Level(level.zerolog()).With().Timestamp().Str("app", "fsearch").Logger()
	return nil
}

func SetLevel(level LogLevel) {
	currentLevel = level
	logger = logger.Level(level.zerolog())
}

func GetLevel() LogLevel {
	return currentLevel
}

// Close closes the log file if one is open. Logging stays silent until the
// next Setup.
func Close() error {
	logger = zerolog.Nop()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func emit(l zerolog.Logger, level LogLevel, format string, args []any) {
	if currentLevel == LevelOff || level < currentLevel {
		return
	}
	l.WithLevel(level.zerolog()).Msgf(format, args...)
}

func Debugf(format string, args ...any) { emit(logger, LevelDebug, format, args) }
func Infof(format string, args ...any)  { emit(logger, LevelInfo, format, args) }
func Warnf(format string, args ...any)  { emit(logger, LevelWarn, format, args) }
func Errorf(format string, args ...any) { emit(logger, LevelError, format, args) }

// FieldLogger attaches key-value fields to every message.
type FieldLogger struct {
	fields map[string]interface{}
}

// WithFields returns a logger that adds fields to each message.
func WithFields(fields map[string]interface{}) *FieldLogger {
	return &FieldLogger{fields: fields}
}

func (fl *FieldLogger) with() zerolog.Logger {
	return logger.With().Fields(fl.fields).Logger()
}

func (fl *FieldLogger) Debugf(format string, args ...any) { emit(fl.with(), LevelDebug, format, args) }
func (fl *FieldLogger) Infof(format string, args ...any)  { emit(fl.with(), LevelInfo, format, args) }
func (fl *FieldLogger) Warnf(format string, args ...any)  { emit(fl.with(), LevelWarn, format, args) }
func (fl *FieldLogger) Errorf(format string, args ...any) { emit(fl.with(), LevelError, format, args) }
