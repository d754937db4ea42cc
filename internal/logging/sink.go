package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultMaxSizeMB is applied when the configured rotation size is not positive.
const DefaultMaxSizeMB = 5

// NewFileSink returns a size- and age-rotated log file writer.
func NewFileSink(path string, maxSizeMB, maxBackups, maxAgeDays int) (io.WriteCloser, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	// lumberjack opens the file lazily, so probe the path now.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	f.Close()

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}, nil
}

// TeeWriter returns an io.Writer that writes to both w1 and w2.
func TeeWriter(w1, w2 io.Writer) io.Writer {
	return io.MultiWriter(w1, w2)
}
