package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

var globalLogger *slog.Logger

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	OutputPath string
	Format     string // "json" or "text"
}

// Init initializes the structured logger with defaults.
func Init() error {
	return InitWithConfig(Config{
		Level:      LevelInfo,
		OutputPath: "stdout",
		Format:     "json",
	})
}

// InitWithConfig initializes the logger with custom config and installs it
// as the slog default.
func InitWithConfig(config Config) error {
	var output *os.File
	var err error
	if config.OutputPath == "" || config.OutputPath == "stdout" {
		output = os.Stdout
	} else {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0755); err != nil {
			return err
		}
		output, err = os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
	}

	var level slog.Level
	switch config.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	}
	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	return nil
}

// WithFields returns a logger with additional fields.
func WithFields(fields ...any) *slog.Logger {
	return globalLogger.With(fields...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	globalLogger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	globalLogger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	globalLogger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	globalLogger.Error(msg, args...)
}

// Errorf logs an error message with formatting
func Errorf(format string, args ...any) {
	globalLogger.Error(fmt.Sprintf(format, args...))
}

// Fatalf logs a fatal message with formatting and exits
func Fatalf(format string, args ...any) {
	globalLogger.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	return globalLogger
}
