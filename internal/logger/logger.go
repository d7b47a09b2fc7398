package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"groundwork/internal/constants"
)

const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Logger provides leveled logging with optional append-only file output.
// All writes go to stdout by default; when a data directory is set, every
// line is additionally appended to a daily log file under <dataDir>/logs/.
type Logger struct {
	mu            sync.Mutex
	level         string
	dataDir       string // empty = stdout only
	file          *os.File
	fileDay       int // year*1000 + yday of the open file, for rotation
	writeToStdout bool
}

// Options configures the logger.
type Options struct {
	Level         string
	DataDir       string // if set, enables file logging
	WriteToStdout bool
}

// New creates a stdout-only logger at the given level.
// Unknown levels fall back to INFO.
func New(level string) *Logger {
	return NewWithOptions(Options{Level: level, WriteToStdout: true})
}

// NewWithOptions creates a logger with full configuration.
func NewWithOptions(opts Options) *Logger {
	level := normalizeLevel(opts.Level)
	return &Logger{
		level:         level,
		dataDir:       opts.DataDir,
		writeToStdout: opts.WriteToStdout,
	}
}

func normalizeLevel(level string) string {
	switch level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return level
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetDataDir enables or changes file logging. Pass empty string to disable.
func (l *Logger) SetDataDir(dataDir string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeFileLocked()
	l.dataDir = dataDir
}

// SetLevel changes the minimum level. Unknown levels are ignored.
func (l *Logger) SetLevel(level string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := levelOrder[normalizeLevel(level)]; ok {
		l.level = normalizeLevel(level)
	}
}

// Close releases the log file handle, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeFileLocked()
}

func (l *Logger) closeFileLocked() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.fileDay = 0
	return err
}

func dayKey(t time.Time) int {
	return t.Year()*1000 + t.YearDay()
}

// fileLocked returns the current day's log file, rotating if the day changed.
// Caller must hold the mutex.
func (l *Logger) fileLocked(now time.Time) (*os.File, error) {
	day := dayKey(now)
	if l.file != nil && day == l.fileDay {
		return l.file, nil
	}
	l.closeFileLocked()

	logDir := filepath.Join(l.dataDir, constants.LogsDir)
	if err := os.MkdirAll(logDir, constants.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	name := now.UTC().Format("2006-01-02") + constants.LogFileExtension
	f, err := os.OpenFile(filepath.Join(logDir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", name, err)
	}
	l.file = f
	l.fileDay = day
	return f, nil
}

func (l *Logger) log(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if levelOrder[level] < levelOrder[l.level] {
		return
	}

	now := time.Now()
	line := fmt.Sprintf("%s [%s] %s\n",
		now.Format(constants.LogTimestampFormat), level, fmt.Sprintf(format, args...))

	if l.writeToStdout {
		fmt.Print(line)
	}

	if l.dataDir != "" {
		f, err := l.fileLocked(now)
		if err != nil {
			if l.writeToStdout {
				fmt.Printf("%s [%s] logger: %v\n", now.Format(constants.LogTimestampFormat), LevelError, err)
			}
			return
		}
		if _, err := f.WriteString(line); err != nil && l.writeToStdout {
			fmt.Printf("%s [%s] logger: write failed: %v\n", now.Format(constants.LogTimestampFormat), LevelError, err)
		}
	}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(LevelError, format, args...) }
