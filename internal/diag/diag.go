// Package diag carries the assembler's warnings and end-of-run summary
// lines. The teacher never reaches for a structured-logging library
// anywhere in its stack (every conversion path uses the stdlib log
// package directly), so this stays a thin Sink interface over
// log.Logger rather than adopting one — see DESIGN.md.
package diag

import (
	"log"
	"os"
)

// Sink receives diagnostics produced while assembling a document.
// Warnf reports a recoverable anomaly in the source scene (unknown
// camera node, unreadable texture file); Summaryf reports an
// informational line in verbose mode (the input counts printed before
// assembly starts, and a per-material ORM texture note).
type Sink interface {
	Warnf(format string, args ...interface{})
	Summaryf(format string, args ...interface{})
}

// Logger is a Sink backed by a stdlib *log.Logger.
type Logger struct {
	*log.Logger
}

// NewLogger returns a Logger writing to os.Stderr with the standard
// log flags, matching the teacher's package-level log.Print* calls.
func NewLogger() *Logger {
	return &Logger{Logger: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Printf("Warning: "+format, args...)
}

func (l *Logger) Summaryf(format string, args ...interface{}) {
	l.Printf(format, args...)
}

// Nop discards every diagnostic; useful for tests and library callers
// that want to inspect the returned document without stderr noise.
type Nop struct{}

func (Nop) Warnf(string, ...interface{})    {}
func (Nop) Summaryf(string, ...interface{}) {}
