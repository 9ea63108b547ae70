package logging

// Leveled logging for aoiunit

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelVerbose
	LogLevelDebug
)

var levelNames = map[string]LogLevel{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"info":    LogLevelInfo,
	"verbose": LogLevelVerbose,
	"debug":   LogLevelDebug,
}

// ParseLevel maps a level name (silent, error, info, verbose, debug) to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return LogLevelInfo, fmt.Errorf("invalid log level %q (use silent, error, info, verbose or debug)", s)
	}
	return level, nil
}

func (l LogLevel) String() string {
	for name, level := range levelNames {
		if level == l {
			return name
		}
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Logger provides leveled logging to the console and an optional file
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	file    *os.File
	fileLog *log.Logger
	stdout  *log.Logger
	stderr  *log.Logger
}

// NewLogger creates a new logger writing to the process stdout/stderr
func NewLogger(level LogLevel, logFile string) (*Logger, error) {
	return NewLoggerTo(level, logFile, os.Stdout, os.Stderr)
}

// NewLoggerTo creates a logger with explicit console writers
func NewLoggerTo(level LogLevel, logFile string, stdout, stderr io.Writer) (*Logger, error) {
	l := &Logger{
		level:  level,
		stdout: log.New(stdout, "", 0),
		stderr: log.New(stderr, "", 0),
	}

	if logFile != "" {
		file, err := os.Create(logFile)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		l.file = file
		l.fileLog = log.New(file, "", log.LstdFlags)
	}

	return l, nil
}

// Discard returns a silent logger
func Discard() *Logger {
	l, _ := NewLoggerTo(LogLevelSilent, "", io.Discard, io.Discard)
	return l
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.fileLog = nil
		return err
	}
	return nil
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	if l.GetLevel() >= LogLevelError {
		l.write(fmt.Sprintf("ERROR: "+format, v...), true)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	if l.GetLevel() >= LogLevelInfo {
		l.write(fmt.Sprintf("INFO: "+format, v...), false)
	}
}

// Verbose logs a verbose message
func (l *Logger) Verbose(format string, v ...interface{}) {
	if l.GetLevel() >= LogLevelVerbose {
		l.write(fmt.Sprintf("VERBOSE: "+format, v...), false)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.GetLevel() >= LogLevelDebug {
		l.write(fmt.Sprintf("DEBUG: "+format, v...), false)
	}
}

// write sends a message to the log file and the console.
// Errors always go to stderr; other messages reach stdout only at verbose or above.
func (l *Logger) write(msg string, isError bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		l.fileLog.Println(msg)
	}

	if isError {
		l.stderr.Println(msg)
	} else if l.level >= LogLevelVerbose {
		l.stdout.Println(msg)
	}
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current logging level
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// LogWrite logs one parameter write and its readback
func (l *Logger) LogWrite(tag, param, value, readback string, err error) {
	switch {
	case err != nil:
		l.Info("FAILED write %s.%s = %s - error: %v", tag, param, value, err)
	case readback != value:
		l.Info("MISMATCH write %s.%s = %s, read back %s", tag, param, value, readback)
	default:
		l.Verbose("SUCCESS write %s.%s = %s", tag, param, value)
	}
}

// LogRunStart logs run parameters
func (l *Logger) LogRunStart(aoi, tag string, cases int, definitionPath, vectorsPath string) {
	l.Info("Testing AOI %s on tag %s (%d cases)", aoi, tag, cases)
	l.Verbose("  Definition: %s", definitionPath)
	l.Verbose("  Vectors: %s", vectorsPath)
}

// LogHex logs a byte buffer as space separated hex pairs (debug level)
func (l *Logger) LogHex(label string, data []byte) {
	if l.GetLevel() < LogLevelDebug {
		return
	}
	var b strings.Builder
	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", c)
	}
	l.Debug("%s: %s", label, b.String())
}
