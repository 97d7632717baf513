package otel

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func newBufferLogger() (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := NewLoggerWithWriter(noop.NewTracerProvider().Tracer("test"), buf)
	logger.now = func() time.Time { return time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC) }
	return logger, buf
}

func decodeEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		entries = append(entries, e)
	}
	return entries
}

func TestNewLogger(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := NewLogger(tracer)

	assert.NotNil(t, logger)
	assert.Equal(t, tracer, logger.tracer)
}

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name    string
		level   LogLevel
		message string
		fields  map[string]interface{}
	}{
		{
			name:    "Infoレベルのログ",
			level:   LogLevelInfo,
			message: "Fetching rewards",
			fields:  map[string]interface{}{"user_id": "9999999999"},
		},
		{
			name:    "Debugレベルのログ",
			level:   LogLevelDebug,
			message: "debug message",
			fields:  nil,
		},
		{
			name:    "Warnレベルのログ",
			level:   LogLevelWarn,
			message: "Resize message rejected",
			fields:  map[string]interface{}{"origin": "https://evil.example.net"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger()
			logger.Log(context.Background(), tt.level, tt.message, tt.fields)

			entries := decodeEntries(t, buf)
			require.Len(t, entries, 1)
			assert.Equal(t, string(tt.level), entries[0].Level)
			assert.Equal(t, tt.message, entries[0].Message)
			assert.Equal(t, "2025-01-15T10:30:00Z", entries[0].Timestamp)
			assert.Empty(t, entries[0].TraceID)
			for k, v := range tt.fields {
				assert.Equal(t, v, entries[0].Fields[k])
			}
		})
	}
}

func TestLogger_TimestampIsRFC3339(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLoggerWithWriter(noop.NewTracerProvider().Tracer("test"), buf)
	logger.Info(context.Background(), "hello", nil)

	entries := decodeEntries(t, buf)
	require.Len(t, entries, 1)
	_, err := time.Parse(time.RFC3339Nano, entries[0].Timestamp)
	assert.NoError(t, err)
}

func TestLogger_LogWithTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	tracer := tp.Tracer("test")

	buf := &bytes.Buffer{}
	logger := NewLoggerWithWriter(tracer, buf)

	ctx, span := tracer.Start(context.Background(), "test-span")
	logger.Info(ctx, "inside span", nil)
	span.End()

	entries := decodeEntries(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[0].TraceID)
	assert.Equal(t, span.SpanContext().SpanID().String(), entries[0].SpanID)
}

func TestLogger_SetLevel(t *testing.T) {
	logger, buf := newBufferLogger()
	logger.SetLevel(LogLevelWarn)

	ctx := context.Background()
	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", nil, nil)

	entries := decodeEntries(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, "ERROR", entries[1].Level)
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		fields    map[string]interface{}
		wantError interface{}
	}{
		{
			name:      "エラーあり、フィールドなし",
			err:       assert.AnError,
			fields:    nil,
			wantError: assert.AnError.Error(),
		},
		{
			name:      "エラーあり、既存のerrorフィールドを上書き",
			err:       assert.AnError,
			fields:    map[string]interface{}{"error": "existing", "key": "value"},
			wantError: assert.AnError.Error(),
		},
		{
			name:      "エラーなし、フィールドあり",
			err:       nil,
			fields:    map[string]interface{}{"key": "value"},
			wantError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger()
			logger.Error(context.Background(), "Claim failed", tt.err, tt.fields)

			entries := decodeEntries(t, buf)
			require.Len(t, entries, 1)
			assert.Equal(t, "ERROR", entries[0].Level)
			assert.Equal(t, tt.wantError, entries[0].Fields["error"])
		})
	}
}

func TestLogger_ErrorDoesNotMutateFields(t *testing.T) {
	logger, _ := newBufferLogger()
	fields := map[string]interface{}{"key": "value"}

	logger.Error(context.Background(), "error", assert.AnError, fields)

	_, ok := fields["error"]
	assert.False(t, ok)
}
