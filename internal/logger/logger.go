// Package logger provides leveled logging on top of the standard log package.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level is a logging threshold.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

type Logger struct {
	level  Level
	logger *log.Logger
}

var std = &Logger{level: InfoLevel, logger: log.New(os.Stderr, "", log.LstdFlags)}

// ParseLevel maps a level name to a Level. Unknown names map to InfoLevel.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Init configures the package logger. Format "text" adds file:line to every
// entry, "plain" leaves it out. Both are line-oriented text.
func Init(level, format string) {
	InitWriter(os.Stderr, level, format)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level, format string) {
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}
	std = &Logger{
		level:  ParseLevel(level),
		logger: log.New(w, "", flags),
	}
}

func output(l Level, tag, format string, args ...interface{}) {
	if std.level > l {
		return
	}
	_ = std.logger.Output(3, fmt.Sprintf("["+tag+"] "+format, args...))
}

func Debug(format string, args ...interface{}) { output(DebugLevel, "DEBUG", format, args...) }

func Info(format string, args ...interface{}) { output(InfoLevel, "INFO", format, args...) }

func Warn(format string, args ...interface{}) { output(WarnLevel, "WARN", format, args...) }

func Error(format string, args ...interface{}) { output(ErrorLevel, "ERROR", format, args...) }

// Fatal logs regardless of level and exits with status 1.
func Fatal(format string, args ...interface{}) {
	_ = std.logger.Output(2, fmt.Sprintf("[FATAL] "+format, args...))
	os.Exit(1)
}
