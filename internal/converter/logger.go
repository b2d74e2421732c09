package converter

import (
	"fmt"
	"os"
)

// levels in increasing severity order.
const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// defaultLogger prints leveled messages to stderr.
type defaultLogger struct {
	level int
}

// NewLogger returns the standard logger for a configured level string.
// Unknown levels fall back to info.
func NewLogger(level string) Logger {
	l := &defaultLogger{level: levelInfo}
	switch level {
	case "debug":
		l.level = levelDebug
	case "warn":
		l.level = levelWarn
	case "error":
		l.level = levelError
	}
	return l
}

func (l *defaultLogger) log(level int, tag, msg string, args ...interface{}) {
	if level < l.level {
		return
	}
	fmt.Fprintf(os.Stderr, "["+tag+"] "+msg+"\n", args...)
}

func (l *defaultLogger) Debug(msg string, args ...interface{}) { l.log(levelDebug, "DEBUG", msg, args...) }
func (l *defaultLogger) Info(msg string, args ...interface{})  { l.log(levelInfo, "INFO", msg, args...) }
func (l *defaultLogger) Warn(msg string, args ...interface{})  { l.log(levelWarn, "WARN", msg, args...) }
func (l *defaultLogger) Error(msg string, args ...interface{}) { l.log(levelError, "ERROR", msg, args...) }
