// Package logger provides the prefixed, colored loggers shared by every component.
package logger

import (
	"errors"
	"io"
	"log"
)

const (
	errorColor   = "\033[31m"
	infoColor    = "\033[32m"
	warningColor = "\033[33m"
	colorReset   = "\033[0m"
)

var ErrNilWriter = errors.New("logger writer is required")

// Logger writes "[NAME] [LEVEL] message" lines, with the name in the given color.
type Logger struct {
	out *log.Logger
}

// New creates a Logger tagged with name and colored with color.
func New(name, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	prefix := color + "[" + name + "]" + colorReset + " "
	return &Logger{out: log.New(w, prefix, log.LstdFlags)}, nil
}

// Discard returns a Logger that drops everything; tests use it.
func Discard() *Logger {
	return &Logger{out: log.New(io.Discard, "", 0)}
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.out.Printf("%s[INFO]%s %s", infoColor, colorReset, msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.out.Printf("%s[WARNING]%s %s", warningColor, colorReset, msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.out.Printf("%s[ERROR]%s %s", errorColor, colorReset, msg)
}
