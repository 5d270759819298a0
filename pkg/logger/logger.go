// Package logger provides the leveled logger used across procdriver.
//
// A global logger is configured once with Init and fetched with Get; the
// package-level helpers (Debug, Info, Warn, ...) log through it:
//
//	opts := logger.DefaultOptions()
//	opts.ConsoleLevel = logger.DebugLevel
//	logger.Init(opts)
//	defer logger.SyncGlobal()
//
//	logger.Info("starting container %s", id)
//
// Console output is a compact, optionally colored line format. File output is
// JSON and rotates through lumberjack.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level defines the log level.
type Level int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	// SuccessLevel is logged at zap's info level with a distinct console prefix.
	SuccessLevel
	WarnLevel
	ErrorLevel
	// FatalLevel logs then calls os.Exit(1).
	FatalLevel
)

const customLevelKey = "customlevel"

// String returns a lowercase string representation of the Level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case SuccessLevel:
		return "success"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case FatalLevel:
		return "fatal"
	default:
		return fmt.Sprintf("level(%d)", l)
	}
}

// CapitalString returns a capitalized string representation of the Level.
func (l Level) CapitalString() string {
	return strings.ToUpper(l.String())
}

// ToZapLevel converts Level to zapcore.Level.
func (l Level) ToZapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel, SuccessLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel accepts the names produced by Level.String, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "success":
		return SuccessLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// Options holds configuration for the logger.
type Options struct {
	ConsoleLevel    Level
	FileLevel       Level
	LogFilePath     string
	ConsoleOutput   bool
	FileOutput      bool
	ColorConsole    bool
	TimestampFormat string
	// Rotation settings for file output, see lumberjack.Logger.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger wraps zap.SugaredLogger with the custom level handling.
type Logger struct {
	*zap.SugaredLogger
	opts Options
}

var (
	globalLogger *Logger
	once         sync.Once
	globalMu     sync.RWMutex
)

// Init initializes the global logger. Only the first call has an effect.
// If the options cannot be honored (e.g. the log file is not writable) it
// falls back to a plain stderr logger.
func Init(opts Options) {
	once.Do(func() {
		l, err := NewLogger(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize global logger: %v. Falling back to basic console logging.\n", err)
			cfg := zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
			zl, _ := cfg.Build(zap.AddCallerSkip(1))
			l = &Logger{SugaredLogger: zl.Sugar(), opts: Options{ConsoleOutput: true, ConsoleLevel: InfoLevel}}
		}
		globalMu.Lock()
		globalLogger = l
		globalMu.Unlock()
	})
}

// Get returns the global logger, initializing it with DefaultOptions if Init
// has not been called.
func Get() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}
	Init(DefaultOptions())
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		// Init already ran and a replaced logger was restored to nil.
		globalLogger, _ = NewLogger(DefaultOptions())
	}
	return globalLogger
}

// ReplaceGlobal installs l as the global logger, taking precedence over Init.
// The returned func restores the previous logger.
func ReplaceGlobal(l *Logger) func() {
	once.Do(func() {})
	globalMu.Lock()
	prev := globalLogger
	globalLogger = l
	globalMu.Unlock()
	return func() {
		globalMu.Lock()
		globalLogger = prev
		globalMu.Unlock()
	}
}

// DefaultOptions logs INFO and above to a colored console; file output is off.
func DefaultOptions() Options {
	return Options{
		ConsoleLevel:    InfoLevel,
		FileLevel:       DebugLevel,
		LogFilePath:     "procdriver.log",
		ConsoleOutput:   true,
		FileOutput:      false,
		ColorConsole:    true,
		TimestampFormat: time.RFC3339,
		MaxSizeMB:       50,
		MaxBackups:      3,
		MaxAgeDays:      28,
	}
}

// NewLogger creates a Logger writing the console output to os.Stderr.
func NewLogger(opts Options) (*Logger, error) {
	return NewLoggerWithWriter(opts, os.Stderr)
}

func levelEnabler(min Level) zap.LevelEnablerFunc {
	return func(lvl zapcore.Level) bool {
		return lvl >= min.ToZapLevel()
	}
}

// NewLoggerWithWriter is NewLogger with the console output sent to console.
func NewLoggerWithWriter(opts Options, console io.Writer) (*Logger, error) {
	var cores []zapcore.Core

	if opts.TimestampFormat == "" {
		opts.TimestampFormat = time.RFC3339
	}

	if opts.ConsoleOutput {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "time"
		encCfg.CallerKey = "caller"
		encCfg.LevelKey = ""
		enc := newConsoleEncoder(encCfg, opts, opts.ColorConsole)
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(console)), levelEnabler(opts.ConsoleLevel)))
	}

	if opts.FileOutput {
		if opts.LogFilePath == "" {
			return nil, fmt.Errorf("log file path cannot be empty when file output is enabled")
		}
		fileEncoderCfg := zap.NewProductionEncoderConfig()
		fileEncoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(opts.TimestampFormat)
		fileEncoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		rotator := &lumberjack.Logger{
			Filename:   opts.LogFilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderCfg), zapcore.AddSync(rotator), levelEnabler(opts.FileLevel)))
	}

	if len(cores) == 0 {
		return &Logger{SugaredLogger: zap.NewNop().Sugar(), opts: opts}, nil
	}

	zapLogger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	return &Logger{SugaredLogger: zapLogger.Sugar(), opts: opts}, nil
}

func (l *Logger) logWithCustomLevel(level Level, template string, args ...interface{}) {
	if l == nil || l.SugaredLogger == nil {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", level.CapitalString(), fmt.Sprintf(template, args...))
		if level == FatalLevel {
			os.Exit(1)
		}
		return
	}

	msg := fmt.Sprintf(template, args...)
	lvlField := zap.String(customLevelKey, level.CapitalString())
	s := l.SugaredLogger.WithOptions(zap.AddCallerSkip(1))

	switch level {
	case DebugLevel:
		s.Debugw(msg, lvlField)
	case InfoLevel, SuccessLevel:
		s.Infow(msg, lvlField)
	case WarnLevel:
		s.Warnw(msg, lvlField)
	case ErrorLevel:
		s.Errorw(msg, lvlField)
	case FatalLevel:
		s.Fatalw(msg, lvlField)
	default:
		s.Infow(msg, lvlField)
	}
}

func (l *Logger) Debugf(template string, args ...interface{}) {
	l.logWithCustomLevel(DebugLevel, template, args...)
}

func (l *Logger) Infof(template string, args ...interface{}) {
	l.logWithCustomLevel(InfoLevel, template, args...)
}

func (l *Logger) Successf(template string, args ...interface{}) {
	l.logWithCustomLevel(SuccessLevel, template, args...)
}

func (l *Logger) Warnf(template string, args ...interface{}) {
	l.logWithCustomLevel(WarnLevel, template, args...)
}

func (l *Logger) Errorf(template string, args ...interface{}) {
	l.logWithCustomLevel(ErrorLevel, template, args...)
}

// Fatalf logs a message at FatalLevel then calls os.Exit(1).
func (l *Logger) Fatalf(template string, args ...interface{}) {
	l.logWithCustomLevel(FatalLevel, template, args...)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l == nil || l.SugaredLogger == nil {
		return nil
	}
	return l.SugaredLogger.Sync()
}

// With returns a child logger carrying the given key/value pairs.
// The keys "target", "container" and "image" render as a console prefix.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(args...),
		opts:          l.opts,
	}
}

func Debug(template string, args ...interface{}) {
	Get().logWithCustomLevel(DebugLevel, template, args...)
}

func Info(template string, args ...interface{}) {
	Get().logWithCustomLevel(InfoLevel, template, args...)
}

func Success(template string, args ...interface{}) {
	Get().logWithCustomLevel(SuccessLevel, template, args...)
}

func Warn(template string, args ...interface{}) {
	Get().logWithCustomLevel(WarnLevel, template, args...)
}

func Error(template string, args ...interface{}) {
	Get().logWithCustomLevel(ErrorLevel, template, args...)
}

func Fatal(template string, args ...interface{}) {
	Get().logWithCustomLevel(FatalLevel, template, args...)
}

// SyncGlobal flushes the global logger.
func SyncGlobal() error {
	return Get().Sync()
}
