package logging

import (
	"fmt"
	"log/slog"
	"time"
)

// Common field helpers for consistent structured logging

// Person creates recipient identity fields.
func Person(name, url string) []any {
	return []any{
		slog.String("person", name),
		slog.String("url", url),
	}
}

// URL creates a url field.
func URL(url string) slog.Attr {
	return slog.String("url", url)
}

// Zip formats a 5-digit zip field.
func Zip(zip5 uint32) slog.Attr {
	return slog.String("zip5", fmt.Sprintf("%05d", zip5))
}

// Tray creates tray fields.
func Tray(name string, pieces int) []any {
	return []any{
		slog.String("tray", name),
		slog.Int("piece_count", pieces),
	}
}

// Strategy creates a standardization strategy field.
func Strategy(name string) slog.Attr {
	return slog.String("strategy", name)
}

// Duration logs duration in milliseconds.
func Duration(name string, d time.Duration) slog.Attr {
	return slog.Int64(name+"_ms", d.Milliseconds())
}

// Err creates an error field.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Count creates a count field.
func Count(name string, count int) slog.Attr {
	return slog.Int(name+"_count", count)
}

// File creates a file path field.
func File(path string) slog.Attr {
	return slog.String("file", path)
}

// Source creates a roster source field.
func Source(name string) slog.Attr {
	return slog.String("source", name)
}
