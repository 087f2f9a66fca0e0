package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerI defines the interface for the logging levels and formatted output
type LoggerI interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Print(msg string)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Printf(format string, args ...interface{})
}

const (
	DebugLevel int32 = -4
	InfoLevel  int32 = 0
	WarnLevel  int32 = 4
	ErrorLevel int32 = 8
)

var (
	_ LoggerI = &Logger{}
)

// Config holds the logging level and the output of the logger
type Config struct {
	Level int32
	Out   io.Writer
	// Disable the terminal colors, e.g. when writing to a file
	NoColor bool
	// If set, the output is also written to this file. The file is rotated once it grows past 10 megabytes.
	File string
	// Omit the timestamp of every line
	NoTimestamp bool
}

// Logger is the concrete implementation of LoggerI
type Logger struct {
	config Config
	mu     sync.Mutex

	debugColor, infoColor, warnColor, errorColor, timeColor *color.Color
}

func (l *Logger) Debug(msg string) {
	if l.config.Level <= DebugLevel {
		l.write(colorString(l.debugColor, "DEBUG: "+msg))
	}
}

func (l *Logger) Info(msg string) {
	if l.config.Level <= InfoLevel {
		l.write(colorString(l.infoColor, "INFO: "+msg))
	}
}

func (l *Logger) Warn(msg string) {
	if l.config.Level <= WarnLevel {
		l.write(colorString(l.warnColor, "WARN: "+msg))
	}
}

func (l *Logger) Error(msg string) {
	if l.config.Level <= ErrorLevel {
		l.write(colorString(l.errorColor, "ERROR: "+msg))
	}
}

// Print() logs a message without any level or color
func (l *Logger) Print(msg string) { l.write(msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Printf(format string, args ...interface{}) {
	l.write(fmt.Sprintf(format, args...))
}

// write() outputs the message with a timestamp to the configured writer
func (l *Logger) write(msg string) {
	line := msg + "\n"
	if !l.config.NoTimestamp {
		line = fmt.Sprintf("%s %s\n", colorString(l.timeColor, time.Now().Format(time.StampMilli)), msg)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.config.Out.Write([]byte(line)); err != nil {
		fmt.Fprintf(os.Stderr, "logging: write failed: %v\n", err)
	}
}

// NewLogger() creates a new Logger with the provided configuration.
// Without an output the logger writes to stdout.
func NewLogger(config Config) LoggerI {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if config.File != "" {
		config.Out = io.MultiWriter(config.Out, &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
		})
	}
	l := &Logger{
		config:     config,
		debugColor: color.New(color.FgBlue),
		infoColor:  color.New(color.FgGreen),
		warnColor:  color.New(color.FgYellow),
		errorColor: color.New(color.FgRed),
		timeColor:  color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{l.debugColor, l.infoColor, l.warnColor, l.errorColor, l.timeColor} {
		if config.NoColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return l
}

// NewDefaultLogger() creates a Logger at the Info level writing to stdout
func NewDefaultLogger() LoggerI {
	return NewLogger(Config{Level: InfoLevel, Out: os.Stdout})
}

// NewNullLogger() creates a Logger that discards all output
func NewNullLogger() LoggerI {
	return NewLogger(Config{Level: ErrorLevel, Out: io.Discard, NoColor: true})
}

// ParseLevel() returns the level with the provided name
func ParseLevel(name string) (int32, error) {
	switch strings.ToLower(name) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", name)
	}
}

// colorString() applies the color to every line of the message
func colorString(c *color.Color, msg string) string {
	arr := strings.Split(msg, "\n")
	for i, part := range arr {
		arr[i] = c.Sprint(part)
	}
	return strings.Join(arr, "\n")
}
