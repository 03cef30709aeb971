// Package log defines the logging contract used across cellflow and ships
// a zap-backed implementation plus a no-op discard logger. The engine
// defaults to the discard logger so library consumers opt into output.
package log

import "os"

// Level defines the severity of a log message.
type Level int

const (
	// DebugLevel logs verbose engine internals.
	DebugLevel Level = iota
	// InfoLevel logs general operational messages.
	InfoLevel
	// WarnLevel logs conditions worth attention that are not failures.
	WarnLevel
	// ErrorLevel logs failures, including isolated listener failures.
	ErrorLevel
)

// Logger is the minimal leveled logging surface the engine depends on.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
}

var (
	// DiscardLogger drops every message. It is the engine default.
	DiscardLogger Logger = discardLogger{}

	// DefaultLogger writes InfoLevel and above to stdout.
	DefaultLogger = NewZap(InfoLevel, os.Stdout)

	// DebugLogger writes DebugLevel and above to stdout.
	DebugLogger = NewZap(DebugLevel, os.Stdout)
)
