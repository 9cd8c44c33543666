package logging

// Leveled file logging for aw-viewer-tui. The UI owns the terminal, so every
// swallowed failure ends up here instead of on screen.

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Logger levels
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Logger wraps the standard logger with a level filter
type Logger struct {
	logger   *log.Logger
	logFile  *os.File
	logLevel string
}

var (
	mu           sync.Mutex
	globalLogger *Logger
)

// ParseLevel maps a user supplied level to a known level, defaulting to INFO.
func ParseLevel(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn, "WARNING":
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// InitLogger opens logs/aw-viewer-tui-<date>.log and installs the global logger.
func InitLogger(logLevel string) error {
	return InitLoggerIn("logs", logLevel)
}

// InitLoggerIn is InitLogger with an explicit directory.
func InitLoggerIn(logsDir, logLevel string) error {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	logFileName := filepath.Join(logsDir, fmt.Sprintf("aw-viewer-tui-%s.log", timestamp))

	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	writers := []io.Writer{logFile}
	mirrorToStdout := envEnabled("AWVIEWER_LOG_TO_STDOUT")
	if mirrorToStdout {
		writers = append(writers, os.Stdout)
	}

	install(&Logger{
		logger:   log.New(io.MultiWriter(writers...), "", log.LstdFlags),
		logFile:  logFile,
		logLevel: ParseLevel(logLevel),
	})

	Info("Logger initialized", "level", ParseLevel(logLevel), "file", logFileName, "mirrorStdout", fmt.Sprintf("%t", mirrorToStdout))
	return nil
}

// InitWriter installs a logger writing to w. Tests use it to capture output.
func InitWriter(w io.Writer, logLevel string) {
	install(&Logger{
		logger:   log.New(w, "", 0),
		logLevel: ParseLevel(logLevel),
	})
}

func install(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger != nil && globalLogger.logFile != nil {
		_ = globalLogger.logFile.Close()
	}
	globalLogger = l
}

func envEnabled(name string) bool {
	v := strings.TrimSpace(os.Getenv(name))
	return strings.EqualFold(v, "1") || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}

// Close closes the log file
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger != nil && globalLogger.logFile != nil {
		err := globalLogger.logFile.Close()
		globalLogger = nil
		return err
	}
	globalLogger = nil
	return nil
}

func shouldLog(level string) bool {
	if globalLogger == nil {
		return false
	}
	switch globalLogger.logLevel {
	case LevelDebug:
		return true
	case LevelInfo:
		return level != LevelDebug
	case LevelWarn:
		return level == LevelWarn || level == LevelError
	case LevelError:
		return level == LevelError
	default:
		return true
	}
}

// formatMessage renders "[LEVEL] file:line message k=v ..."
func formatMessage(level, message string, keyValues ...string) string {
	file, line := callerSite(3)
	prefix := ""
	if file != "" {
		prefix = fmt.Sprintf("%s:%d ", file, line)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s%s", level, prefix, message)
	for i := 0; i+1 < len(keyValues); i += 2 {
		fmt.Fprintf(&b, " %s=%s", keyValues[i], keyValues[i+1])
	}
	return b.String()
}

// callerSite returns the short file:line of the exported helper's caller.
func callerSite(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}

func write(level, message string, keyValues ...string) {
	mu.Lock()
	defer mu.Unlock()
	if !shouldLog(level) {
		return
	}
	globalLogger.logger.Println(formatMessage(level, message, keyValues...))
}

// Debug logs a debug message
func Debug(message string, keyValues ...string) { write(LevelDebug, message, keyValues...) }

// Info logs an info message
func Info(message string, keyValues ...string) { write(LevelInfo, message, keyValues...) }

// Warn logs a warning message
func Warn(message string, keyValues ...string) { write(LevelWarn, message, keyValues...) }

// Error logs an error message
func Error(message string, keyValues ...string) { write(LevelError, message, keyValues...) }

// GetLogLevel returns the current log level
func GetLogLevel() string {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		return LevelInfo
	}
	return globalLogger.logLevel
}
