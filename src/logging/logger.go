// Package logging is the process-wide leveled logger. Messages go through log/slog with a
// tint handler so terminal output stays colored and compact.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"
)

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var currentLevel int32 = int32(LevelInfo)

// slogLevel backs the handler so SetLogLevel applies without rebuilding it.
var slogLevel = new(slog.LevelVar)

var baseLogger atomic.Pointer[slog.Logger]

func init() { SetOutput(os.Stderr, false) }

// SetOutput redirects log output to w. noColor disables ANSI escapes (files, tests).
func SetOutput(w io.Writer, noColor bool) {
	h := tint.NewHandler(w, &tint.Options{
		Level:      slogLevel,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	})
	baseLogger.Store(slog.New(h))
}

// SetLogLevel parses and sets global log level. Unknown names are ignored.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	atomic.StoreInt32(&currentLevel, int32(l))
	slogLevel.Set(toSlog(l))
}

func getLevel() LogLevel { return LogLevel(atomic.LoadInt32(&currentLevel)) }

// GetLogLevel returns current global log level.
func GetLogLevel() LogLevel { return getLevel() }

func toSlog(l LogLevel) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logf(l LogLevel, format string, args ...interface{}) {
	if getLevel() > l {
		return
	}
	// Only format when there are args; a pre-formatted message may contain literal '%'.
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	baseLogger.Load().Log(context.Background(), toSlog(l), msg)
}

// Public helpers
func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

func log(l LogLevel, msg string, attrs ...any) {
	if getLevel() > l {
		return
	}
	baseLogger.Load().Log(context.Background(), toSlog(l), msg, attrs...)
}

// Structured helpers take a constant message and slog key/value pairs.
func Debug(msg string, attrs ...any) { log(LevelDebug, msg, attrs...) }
func Info(msg string, attrs ...any)  { log(LevelInfo, msg, attrs...) }
func Warn(msg string, attrs ...any)  { log(LevelWarn, msg, attrs...) }
func Error(msg string, attrs ...any) { log(LevelError, msg, attrs...) }

// TimeTrack logs how long a phase took, at debug level.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
