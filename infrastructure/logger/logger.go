package logger

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// Logger is a subsystem logger writing to a Backend.
type Logger struct {
	lvl Level // atomic
	tag string
	b   *Backend
}

// Tracef formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelTrace.
func (l *Logger) Tracef(format string, params ...interface{}) {
	l.Writef(LevelTrace, format, params...)
}

// Debugf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelDebug.
func (l *Logger) Debugf(format string, params ...interface{}) {
	l.Writef(LevelDebug, format, params...)
}

// Infof formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelInfo.
func (l *Logger) Infof(format string, params ...interface{}) {
	l.Writef(LevelInfo, format, params...)
}

// Warnf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelWarn.
func (l *Logger) Warnf(format string, params ...interface{}) {
	l.Writef(LevelWarn, format, params...)
}

// Errorf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelError.
func (l *Logger) Errorf(format string, params ...interface{}) {
	l.Writef(LevelError, format, params...)
}

// Criticalf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelCritical.
func (l *Logger) Criticalf(format string, params ...interface{}) {
	l.Writef(LevelCritical, format, params...)
}

// Writef formats the message and writes it to the backend if logLevel is
// enabled for this logger.
func (l *Logger) Writef(logLevel Level, format string, params ...interface{}) {
	if l.Level() > logLevel {
		return
	}
	l.b.write(logEntry{
		log:   l.formatEntry(time.Now(), logLevel, fmt.Sprintf(format, params...)),
		level: logLevel,
	})
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32((*uint32)(&l.lvl)))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32((*uint32)(&l.lvl), uint32(level))
}

// Backend returns the log backend
func (l *Logger) Backend() *Backend {
	return l.b
}

// formatEntry renders a single line in the form
// `2006-01-02 15:04:05.000 [LVL] TAG: file.go:12: message`.
func (l *Logger) formatEntry(t time.Time, level Level, msg string) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, normalLogSize))
	buf.WriteString(t.Format("2006-01-02 15:04:05.000"))
	buf.WriteString(" [")
	buf.WriteString(level.String())
	buf.WriteString("] ")
	buf.WriteString(l.tag)
	buf.WriteString(": ")
	if l.b.flag&(LogFlagShortFile|LogFlagLongFile) != 0 {
		buf.WriteString(callsite(l.b.flag))
		buf.WriteString(": ")
	}
	buf.WriteString(msg)
	if !strings.HasSuffix(msg, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

const normalLogSize = 512

// callsite returns the file and line of the caller of the exported logging
// method, formatted according to flag.
func callsite(flag uint32) string {
	// Tracef/Debugf/... -> Writef -> formatEntry -> callsite
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		return "???:0"
	}
	if flag&LogFlagShortFile != 0 {
		if i := strings.LastIndexByte(file, os.PathSeparator); i >= 0 {
			file = file[i+1:]
		}
	}
	return fmt.Sprintf("%s:%d", file, line)
}
