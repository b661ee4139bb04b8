// Package log provides the small leveled logger used by the CLI layer.
// Messages go to stderr as "level: message key=value" lines so report
// output on stdout stays clean.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is a log severity.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	default:
		return "error"
	}
}

// Logger writes leveled key=value messages.
type Logger struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
}

// New creates a logger writing to out at the given minimum level.
func New(out io.Writer, level Level) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{level: level, out: out}
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Default returns the process-wide logger (info level, stderr).
func Default() *Logger {
	once.Do(func() {
		defaultLogger = New(os.Stderr, InfoLevel)
	})
	return defaultLogger
}

// SetLevel adjusts the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) write(level Level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	fmt.Fprintf(l.out, "%s: %s\n", level, formatMessage(msg, args))
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...interface{}) { l.write(DebugLevel, msg, args) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...interface{}) { l.write(InfoLevel, msg, args) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...interface{}) { l.write(WarnLevel, msg, args) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...interface{}) { l.write(ErrorLevel, msg, args) }

// formatMessage appends args as key=value pairs.
func formatMessage(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(key)
		sb.WriteString("=")
		fmt.Fprintf(&sb, "%v", args[i+1])
	}
	return sb.String()
}
