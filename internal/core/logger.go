package core

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	// Lazy-load and ensure a single logger
	loggerOnce      sync.Once
	loggerSingleton *Logger
)

type VerboseLevel int

const (
	VerboseOff VerboseLevel = iota
	VerboseInfo
	VerboseDebug
	VerboseTrace
)

// CurrentLogger returns the logger shared by all conversions.
func CurrentLogger() *Logger {
	loggerOnce.Do(func() {
		loggerSingleton = NewLogger(os.Stderr)
	})
	return loggerSingleton
}

// Logger prints messages on standard error.
// Warnings are always printed. Other messages depend on the verbose level.
type Logger struct {
	verbose VerboseLevel
	out     *log.Logger
}

func NewLogger(w io.Writer) *Logger {
	return &Logger{
		verbose: VerboseOff,
		out:     log.New(w, "", log.LstdFlags),
	}
}

// SetVerboseLevel overrides the default verbose level
func (l *Logger) SetVerboseLevel(level VerboseLevel) *Logger {
	l.verbose = level
	return l
}

// VerboseLevel returns the current verbose level.
func (l *Logger) VerboseLevel() VerboseLevel {
	return l.verbose
}

// SetOutput redirects messages. Mainly useful in tests.
func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.out.SetOutput(w)
	return l
}

func (l *Logger) Fatal(v ...any) {
	l.out.Fatalln(v...)
}
func (l *Logger) Fatalf(format string, v ...any) {
	l.out.Fatalf(format, v...)
}

func (l *Logger) Warn(v ...any) {
	l.print(VerboseOff, "WARN", v...)
}
func (l *Logger) Warnf(format string, v ...any) {
	l.printf(VerboseOff, "WARN", format, v...)
}

func (l *Logger) Info(v ...any) {
	l.print(VerboseInfo, "INFO", v...)
}
func (l *Logger) Infof(format string, v ...any) {
	l.printf(VerboseInfo, "INFO", format, v...)
}

func (l *Logger) Debug(v ...any) {
	l.print(VerboseDebug, "DEBUG", v...)
}
func (l *Logger) Debugf(format string, v ...any) {
	l.printf(VerboseDebug, "DEBUG", format, v...)
}

func (l *Logger) Trace(v ...any) {
	l.print(VerboseTrace, "TRACE", v...)
}
func (l *Logger) Tracef(format string, v ...any) {
	l.printf(VerboseTrace, "TRACE", format, v...)
}

func (l *Logger) print(level VerboseLevel, prefix string, v ...any) {
	if l.verbose < level {
		return
	}
	l.out.Println(append([]any{prefix}, v...)...)
}

func (l *Logger) printf(level VerboseLevel, prefix string, format string, v ...any) {
	if l.verbose < level {
		return
	}
	l.out.Printf(prefix+" "+format, v...)
}
