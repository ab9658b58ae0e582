// Package log wraps the standard library logger with named, prefixed loggers.
//
// Every line carries the service name, e.g. `INFO [storage>] opened qboard.db`.
// Debug output is off by default and can be turned on for all services with
// SetGlobalDebug or for a single one with EnableDebugFor.
//
// The package name shadows the standard library one; alias it when both are
// needed in the same file.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sync"
	"sync/atomic"
)

// Level names printed in front of every line.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)

// Logger is a named logger. Obtain one with ForService.
type Logger struct {
	name string
	std  *stdlog.Logger
}

// sink keeps atomic.Value storing a single concrete type whatever writer is set.
type sink struct {
	w io.Writer
}

var (
	globalDebug atomic.Bool

	mu           sync.RWMutex
	debugFor     = make(map[string]bool)
	loggers      = make(map[string]*Logger)
	outputWriter atomic.Value
)

func init() {
	outputWriter.Store(sink{w: os.Stderr})
}

// ForService returns the logger for name, creating it on first use.
func ForService(name string) *Logger {
	if name == "" {
		name = "qboard"
	}

	mu.RLock()
	l, ok := loggers[name]
	mu.RUnlock()
	if ok {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[name]; ok {
		return l
	}
	w := outputWriter.Load().(sink).w
	l = &Logger{name: name, std: stdlog.New(w, "", stdlog.LstdFlags|stdlog.Lmicroseconds)}
	loggers[name] = l
	return l
}

// SetGlobalDebug turns debug output on or off for every service.
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

// GlobalDebug reports whether debug output is on for every service.
func GlobalDebug() bool {
	return globalDebug.Load()
}

// EnableDebugFor turns debug output on for one service.
func EnableDebugFor(name string) {
	setDebugFor(name, true)
}

// DisableDebugFor turns per-service debug output off. Global debug still wins.
func DisableDebugFor(name string) {
	setDebugFor(name, false)
}

func setDebugFor(name string, enabled bool) {
	if name == "" {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		debugFor[name] = true
	} else {
		delete(debugFor, name)
	}
}

// DebugEnabledFor reports whether debug lines of the named service are printed.
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	mu.RLock()
	defer mu.RUnlock()
	return debugFor[name]
}

// SetOutput redirects every logger, existing and future, to w.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	outputWriter.Store(sink{w: w})
	mu.RLock()
	defer mu.RUnlock()
	for _, l := range loggers {
		l.std.SetOutput(w)
	}
}

// Name returns the service name of the logger.
func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) output(level, msg string) {
	l.std.Println(level + " [" + l.name + ">] " + msg)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.output(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) {
	l.output(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.output(LevelError, fmt.Sprintf(format, args...))
}

// Debugf logs at debug level when debug is enabled for this service.
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.output(LevelDebug, fmt.Sprintf(format, args...))
}
