package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel is the minimum severity written to the log file.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

var levels = []struct {
	name  string
	lr    logrus.Level
	alias string
}{
	LevelDebug: {"DEBUG", logrus.DebugLevel, ""},
	LevelInfo:  {"INFO", logrus.InfoLevel, ""},
	LevelWarn:  {"WARN", logrus.WarnLevel, "WARNING"},
	LevelError: {"ERROR", logrus.ErrorLevel, ""},
	LevelOff:   {"OFF", logrus.PanicLevel, "NONE"},
}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levels) {
		return "UNKNOWN"
	}
	return levels[l].name
}

func (l LogLevel) logrusLevel() logrus.Level {
	if l < 0 || int(l) >= len(levels) {
		return logrus.ErrorLevel
	}
	return levels[l].lr
}

// ParseLogLevel maps a config value to a level. Anything unrecognised is
// LevelOff so a typo never starts writing files.
func ParseLogLevel(s string) LogLevel {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, l := range levels {
		if s == l.name || (l.alias != "" && s == l.alias) {
			return LogLevel(i)
		}
	}
	return LevelOff
}

var (
	currentLevel = LevelOff
	logger       *logrus.Logger
	logFile      *os.File
)

// DefaultPath is where logs go when Setup is called without a path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".folio", "folio.log")
}

// Setup starts logging at level into filePath, or DefaultPath when none is
// given. Output never goes to the terminal since the explorer owns it.
func Setup(level LogLevel, filePath ...string) error {
	currentLevel = level

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if level == LevelOff {
		logger = nil
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
	logger = logrus.New()
	logger.SetOutput(f)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		DisableColors:   true,
	})
	logger.SetLevel(level.logrusLevel())
	return nil
}

func SetLevel(level LogLevel) {
	currentLevel = level
	if logger != nil && level != LevelOff {
		logger.SetLevel(level.logrusLevel())
	}
}

func GetLevel() LogLevel {
	return currentLevel
}

// Close flushes and releases the log file. It is safe to call repeatedly.
func Close() error {
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		logger = nil
		return err
	}
	return nil
}

func enabled(level LogLevel) bool {
	return logger != nil && level >= currentLevel && currentLevel != LevelOff
}

func logf(level LogLevel, format string, args ...any) {
	if !enabled(level) {
		return
	}
	logger.Logf(level.logrusLevel(), format, args...)
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

func Errorf(format string, args ...any) {
	logf(LevelError, format, args...)
}

// FieldLogger carries key-value pairs that are appended to every message.
type FieldLogger struct {
	fields logrus.Fields
}

// WithFields tags every message of the returned logger, e.g. with the
// component that wrote it.
func WithFields(fields map[string]any) *FieldLogger {
	return &FieldLogger{fields: logrus.Fields(fields)}
}

// With returns a copy of the logger with one more field.
func (fl *FieldLogger) With(key string, value any) *FieldLogger {
	fields := make(logrus.Fields, len(fl.fields)+1)
	for k, v := range fl.fields {
		fields[k] = v
	}
	fields[key] = value
	return &FieldLogger{fields: fields}
}

func (fl *FieldLogger) logf(level LogLevel, format string, args ...any) {
	if !enabled(level) {
		return
	}
	logger.WithFields(fl.fields).Logf(level.logrusLevel(), format, args...)
}

func (fl *FieldLogger) Debugf(format string, args ...any) {
	fl.logf(LevelDebug, format, args...)
}

func (fl *FieldLogger) Infof(format string, args ...any) {
	fl.logf(LevelInfo, format, args...)
}

func (fl *FieldLogger) Warnf(format string, args ...any) {
	fl.logf(LevelWarn, format, args...)
}

func (fl *FieldLogger) Errorf(format string, args ...any) {
	fl.logf(LevelError, format, args...)
}
