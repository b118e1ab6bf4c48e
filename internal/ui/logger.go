package ui

import (
	"fmt"
	"io"
	"os"
)

// ConsoleLogger writes styled log lines to a terminal. It satisfies
// infra.Logger; errors go to stderr, everything else to stdout.
type ConsoleLogger struct {
	out io.Writer
	err io.Writer
}

// NewLogger returns a ConsoleLogger attached to the process streams.
func NewLogger() *ConsoleLogger {
	return &ConsoleLogger{out: os.Stdout, err: os.Stderr}
}

func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	fmt.Fprintln(l.out, fmt.Sprintf(format, args...))
}

func (l *ConsoleLogger) Warn(format string, args ...interface{}) {
	fmt.Fprintln(l.out, Warning.Render("⚠ "+fmt.Sprintf(format, args...)))
}

func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	fmt.Fprintln(l.err, Error.Render("✗ "+fmt.Sprintf(format, args...)))
}

func (l *ConsoleLogger) Success(format string, args ...interface{}) {
	fmt.Fprintln(l.out, Success.Render("✓ "+fmt.Sprintf(format, args...)))
}
