package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Logger wraps a structured logger with optional file output
type Logger struct {
	log.Logger
	file *os.File
}

// NewLogger creates a logger that writes to stderr and, when logDir is not
// empty, to a timestamped file inside logDir.
func NewLogger(logDir string, level slog.Level) (*Logger, error) {
	if logDir == "" {
		return &Logger{Logger: log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, true))}, nil
	}

	// Ensure log directory exists
	if err := EnsureDir(logDir); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Create log file with timestamp
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFilePath := filepath.Join(logDir, fmt.Sprintf("treemut_%s.log", timestamp))

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Colors would end up in the file, so they stay off
	multiWriter := io.MultiWriter(os.Stderr, file)
	return &Logger{
		Logger: log.NewLogger(log.NewTerminalHandlerWithLevel(multiWriter, level, false)),
		file:   file,
	}, nil
}

// Path returns the log file path, empty for console only loggers
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
