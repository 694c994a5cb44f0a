package utils

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, logger *Logger) string {
	t.Helper()
	content, err := os.ReadFile(logger.Path())
	require.NoError(t, err)
	return string(content)
}

// TestNewLogger tests creating a new logger
func TestNewLogger(t *testing.T) {
	tempDir := t.TempDir()

	logger, err := NewLogger(tempDir, slog.LevelInfo)
	require.NoError(t, err)
	defer logger.Close()

	assert.NotNil(t, logger.file)
	assert.Equal(t, tempDir, filepath.Dir(logger.Path()))
	assert.True(t, strings.HasPrefix(filepath.Base(logger.Path()), "treemut_"))
	assert.True(t, strings.HasSuffix(logger.Path(), ".log"))
}

// TestNewLogger_CreatesDirectory tests that a missing log directory is created
func TestNewLogger_CreatesDirectory(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "nested", "logs")

	logger, err := NewLogger(logDir, slog.LevelInfo)
	require.NoError(t, err)
	defer logger.Close()

	assert.True(t, FileExists(logDir))
}

// TestNewLogger_ConsoleOnly tests a logger without file output
func TestNewLogger_ConsoleOnly(t *testing.T) {
	logger, err := NewLogger("", slog.LevelInfo)
	require.NoError(t, err)

	assert.Empty(t, logger.Path())
	assert.NoError(t, logger.Close())
}

// TestNewLogger_InvalidPath tests creating logger with invalid path
func TestNewLogger_InvalidPath(t *testing.T) {
	logger, err := NewLogger("/proc/invalid/path/that/cannot/be/created", slog.LevelInfo)

	assert.Error(t, err)
	assert.Nil(t, logger)
}

// TestLogger_Levels tests that every level at or above the threshold reaches the file
func TestLogger_Levels(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), slog.LevelDebug)
	require.NoError(t, err)
	defer logger.Close()

	logger.Debug("Debug message", "k", 1)
	logger.Info("Info message", "k", 2)
	logger.Warn("Warning message", "k", 3)
	logger.Error("Error message", "k", 4)
	logger.Trace("Trace message")

	content := readLog(t, logger)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	assert.Len(t, lines, 4)

	assert.Contains(t, lines[0], "DEBUG")
	assert.Contains(t, lines[0], "Debug message")
	assert.Contains(t, lines[1], "INFO")
	assert.Contains(t, lines[1], "k=2")
	assert.Contains(t, lines[2], "WARN")
	assert.Contains(t, lines[3], "ERROR")
	assert.NotContains(t, content, "Trace message")
}

// TestLogger_Threshold tests filtering below the configured level
func TestLogger_Threshold(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), slog.LevelWarn)
	require.NoError(t, err)
	defer logger.Close()

	logger.Info("Info message")
	logger.Warn("Warning message")

	content := readLog(t, logger)
	assert.NotContains(t, content, "Info message")
	assert.Contains(t, content, "Warning message")
}

// TestLogger_TraceLevel tests the extra trace level
func TestLogger_TraceLevel(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), log.LevelTrace)
	require.NoError(t, err)
	defer logger.Close()

	logger.Trace("Trace message", "size", 3)

	assert.Contains(t, readLog(t, logger), "Trace message")
}

// TestLogger_NoColorsInFile tests that the file receives plain text
func TestLogger_NoColorsInFile(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), slog.LevelInfo)
	require.NoError(t, err)
	defer logger.Close()

	logger.Error("Error message")

	assert.NotContains(t, readLog(t, logger), "\x1b[")
}

// TestLogger_Close tests closing the logger
func TestLogger_Close(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), slog.LevelInfo)
	require.NoError(t, err)

	logger.Info("Message before close")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(logger.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), "Message before close")
}

// TestLogger_ConcurrentAccess tests concurrent logging
func TestLogger_ConcurrentAccess(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), slog.LevelInfo)
	require.NoError(t, err)
	defer logger.Close()

	numGoroutines := 10
	messagesPerGoroutine := 10

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for j := 0; j < messagesPerGoroutine; j++ {
				logger.Info("Concurrent message", "goroutine", goroutineID, "message", j)
			}
		}(i)
	}
	wg.Wait()

	file, err := os.Open(logger.Path())
	require.NoError(t, err)
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineCount := 0
	for scanner.Scan() {
		lineCount++
	}
	assert.Equal(t, numGoroutines*messagesPerGoroutine, lineCount)
}

// TestLogger_LongMessages tests logging very long values
func TestLogger_LongMessages(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), slog.LevelInfo)
	require.NoError(t, err)
	defer logger.Close()

	longValue := strings.Repeat("This is a very long value that should be handled properly by the logger. ", 100)
	logger.Info("Long value", "value", longValue)

	assert.Contains(t, readLog(t, logger), "This is a very long value")
}

// BenchmarkLogger_Info benchmarks Info logging
func BenchmarkLogger_Info(b *testing.B) {
	logger, err := NewLogger(b.TempDir(), slog.LevelInfo)
	if err != nil {
		b.Fatal(err)
	}
	defer logger.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("Benchmark info message", "i", i)
	}
}
