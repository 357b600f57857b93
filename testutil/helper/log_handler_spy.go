package helper

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// TestLogHandler is a slog.Handler that captures log records for testing.
type TestLogHandler struct {
	mu          sync.Mutex
	records     []slog.Record
	logToStdout bool
}

// NewTestLogHandler creates a new TestLogHandler.
// Switchable to log to stdout, which can be useful for debugging tests by seeing the actual log output.
func NewTestLogHandler(logToStdout bool) *TestLogHandler {
	return &TestLogHandler{logToStdout: logToStdout}
}

func (h *TestLogHandler) Handle(ctx context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, record.Clone())

	if h.logToStdout {
		_ = slog.NewJSONHandler(os.Stdout, nil).Handle(ctx, record)
	}

	return nil
}

func (h *TestLogHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *TestLogHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *TestLogHandler) WithGroup(_ string) slog.Handler {
	return h
}

// HasLog reports whether a record with the level and message was captured.
func (h *TestLogHandler) HasLog(level slog.Level, message string) bool {
	return h.HasLogWithAttr(level, message, "")
}

// HasLogWithAttr reports whether a record with the level and message carries the attribute key.
// An empty key only checks level and message.
func (h *TestLogHandler) HasLogWithAttr(level slog.Level, message string, key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, record := range h.records {
		if record.Level != level || record.Message != message {
			continue
		}

		if key == "" {
			return true
		}

		found := false
		record.Attrs(func(attr slog.Attr) bool {
			found = attr.Key == key
			return !found
		})

		if found {
			return true
		}
	}

	return false
}

// RecordCount returns the number of captured log records.
func (h *TestLogHandler) RecordCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.records)
}
