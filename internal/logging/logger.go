// Package logging wraps slog with configuration and lifecycle management.
// The orchestrator builds one Logger at startup and passes it down; no
// component reaches for a hidden global.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog with configuration and file rotation.
type Logger struct {
	config *Config
	file   io.WriteCloser
	logger *slog.Logger
}

// Config holds logging configuration.
type Config struct {
	Level      string `yaml:"level" json:"level"`             // debug, info, warn, error
	File       string `yaml:"file" json:"file"`               // log file path (optional)
	MaxSize    int    `yaml:"max_size" json:"max_size"`       // megabytes
	MaxBackups int    `yaml:"max_backups" json:"max_backups"` // old log files to keep
	MaxAge     int    `yaml:"max_age" json:"max_age"`         // days
	Console    bool   `yaml:"console" json:"console"`         // also log to console
	JSON       bool   `yaml:"json" json:"json"`               // JSON format instead of text
}

// New builds a Logger from config.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = &Config{Level: "info", Console: true}
	}
	l := &Logger{config: cfg}
	if err := l.configure(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Logger) configure() error {
	level := parseLevel(l.config.Level)

	var writers []io.Writer
	if l.config.Console {
		writers = append(writers, os.Stderr)
	}
	if l.config.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   l.config.File,
			MaxSize:    l.config.MaxSize,
			MaxBackups: l.config.MaxBackups,
			MaxAge:     l.config.MaxAge,
			Compress:   true,
		}
		l.file = rotator
		writers = append(writers, rotator)
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stderr
	case 1:
		writer = writers[0]
	default:
		writer = io.MultiWriter(writers...)
	}

	var handler slog.Handler
	if l.config.JSON {
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	}
	l.logger = slog.New(handler)
	return nil
}

// Slog returns the underlying slog logger.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

func parseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close closes any open file handles.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
