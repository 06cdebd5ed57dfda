// Package console is the host application's message console: the place
// addon code reports progress, warnings and errors. Output goes to stderr
// and optionally to a log file, so a headless run still leaves a trace.
package console

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level is the severity of a console message.
type Level int

const (
	LevelDebug Level = iota
	LevelMessage
	LevelWarning
	LevelError
)

// String returns the level tag used in log lines.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DBG"
	case LevelMessage:
		return "MSG"
	case LevelWarning:
		return "WRN"
	case LevelError:
		return "ERR"
	default:
		return "???"
	}
}

// ParseLevel maps a config string to a Level. Unknown strings get
// LevelMessage.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warning", "warn", "WARN":
		return LevelWarning
	case "error", "ERROR":
		return LevelError
	default:
		return LevelMessage
	}
}

// Console is a thread-safe leveled message sink.
type Console struct {
	mu     sync.Mutex
	level  Level
	stderr io.Writer
	file   io.Writer
}

// Config controls console output.
type Config struct {
	Level    Level
	Stderr   bool   // write to stderr
	FilePath string // append to this file when non-empty
}

// New creates a console from config. The log directory is created if the
// file path names one.
func New(cfg Config) (*Console, error) {
	c := &Console{level: cfg.Level}
	if cfg.Stderr {
		c.stderr = os.Stderr
	}
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		c.file = f
	}
	return c, nil
}

// Default returns a stderr-only console at message level.
func Default() *Console {
	return &Console{level: LevelMessage, stderr: os.Stderr}
}

// Discard returns a console that drops everything. Used in tests.
func Discard() *Console {
	return &Console{level: LevelError + 1}
}

// SetLevel changes the minimum level.
func (c *Console) SetLevel(level Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = level
}

// Close releases the log file, if any.
func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if closer, ok := c.file.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Console) print(level Level, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if level < c.level {
		return
	}
	line := fmt.Sprintf("%s [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, args...))
	if c.stderr != nil {
		io.WriteString(c.stderr, line)
	}
	if c.file != nil {
		io.WriteString(c.file, line)
	}
}

// Debug reports detail useful only when debugging the addon.
func (c *Console) Debug(format string, args ...any) { c.print(LevelDebug, format, args...) }

// Message reports normal progress.
func (c *Console) Message(format string, args ...any) { c.print(LevelMessage, format, args...) }

// Warning reports a recoverable problem.
func (c *Console) Warning(format string, args ...any) { c.print(LevelWarning, format, args...) }

// Error reports a failure.
func (c *Console) Error(format string, args ...any) { c.print(LevelError, format, args...) }
