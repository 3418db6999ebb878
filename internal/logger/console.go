// Package logger provides the leveled console logger used across plugdex.
//
// Output lines carry [HH:MM:SS] timestamps and a level tag. The logger is
// safe for concurrent use; enrichment runs log from multiple goroutines at
// once. Color is applied only when writing to a real terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger writes timestamped, level-filtered messages to a writer.
// A nil writer silently discards everything.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a logger writing to writer at the given minimum
// level. Valid levels are trace, debug, info, warn, and error
// (case-insensitive); anything else falls back to info.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether writer is a TTY that supports color.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	// color.NoColor honors the NO_COLOR convention.
	return isatty.IsTerminal(file.Fd()) && !color.NoColor
}

func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if logLevelToInt(strings.ToLower(level)) < logLevelToInt(cl.logLevel) {
		return
	}

	tag := fmt.Sprintf("[%s]", level)
	if cl.colorOutput {
		tag = colorizeTag(level, tag)
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	fmt.Fprintf(cl.writer, "[%s] %s %s\n", time.Now().Format("15:04:05"), tag, message)
}

func colorizeTag(level, tag string) string {
	switch level {
	case "ERROR":
		return color.New(color.FgRed).Sprint(tag)
	case "WARN":
		return color.New(color.FgYellow).Sprint(tag)
	case "INFO":
		return color.New(color.FgCyan).Sprint(tag)
	default:
		return tag
	}
}
