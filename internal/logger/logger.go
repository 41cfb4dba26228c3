package logger

import (
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the global logger instance
	Logger zerolog.Logger

	// fileWriter is the rotating log file, nil until Init is given a path
	fileWriter *lumberjack.Logger
)

func init() {
	// Initialize with a default logger (info level, console output)
	// Can be reconfigured later with Init()
	Logger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = Logger
}

// LogLevel represents the logging level
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Options configures Init.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string
	// Pretty forces the human readable console writer. When false it is
	// still used if stdout is a terminal.
	Pretty bool
	// File, when set, receives a copy of every log line and is rotated.
	File string
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Init initializes the global logger with the specified level and outputs
func Init(opts Options) {
	zerolog.SetGlobalLevel(ParseLevel(opts.Level))

	var console io.Writer = os.Stdout
	if opts.Pretty || isatty.IsTerminal(os.Stdout.Fd()) {
		console = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
		}
	}

	output := console
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err == nil {
			fileWriter = &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    5, // megabytes
				MaxBackups: 3,
				MaxAge:     30, // days
			}
			output = zerolog.MultiLevelWriter(console, fileWriter)
		}
	}

	Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()

	// Set as global logger
	log.Logger = Logger

	if opts.File != "" && fileWriter == nil {
		Logger.Warn().Str("path", opts.File).Msg("Log file directory unavailable, logging to console only")
	}
}

// Close flushes and closes the rotating log file, if any.
func Close() error {
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	return err
}

// Get returns the global logger instance
func Get() *zerolog.Logger {
	return &Logger
}

// WithComponent returns a logger with a component field set
func WithComponent(component string) *zerolog.Logger {
	l := Logger.With().Str("component", component).Logger()
	return &l
}

// WithField adds a custom field to the logger
func WithField(key string, value interface{}) *zerolog.Logger {
	l := Logger.With().Interface(key, value).Logger()
	return &l
}

// Recover logs a panic raised in the calling goroutine instead of letting it
// take the process down. Use as `defer logger.Recover("tray")`.
func Recover(component string) {
	if r := recover(); r != nil {
		WithComponent(component).Error().
			Interface("panic", r).
			Str("stack", string(debug.Stack())).
			Msg("Recovered from panic")
	}
}
