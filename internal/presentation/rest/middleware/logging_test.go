package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	otelinfra "community-rewards/internal/infrastructure/observability/otel"
)

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []otelinfra.LogEntry {
	t.Helper()
	var entries []otelinfra.LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry otelinfra.LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		handler       echo.HandlerFunc
		expectedLevel string
		expectedMsg   string
		expectErr     bool
	}{
		{
			name:          "正常系: 成功したリクエスト",
			path:          "/widget/fragment?token=42",
			handler:       func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
			expectedLevel: "INFO",
			expectedMsg:   "HTTP request completed",
		},
		{
			name:          "正常系: ヘルスチェックはDebug",
			path:          "/health",
			handler:       func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
			expectedLevel: "DEBUG",
			expectedMsg:   "HTTP request completed",
		},
		{
			name:          "異常系: 5xxレスポンス",
			path:          "/",
			handler:       func(c echo.Context) error { return c.String(http.StatusBadGateway, "bad") },
			expectedLevel: "WARN",
			expectedMsg:   "HTTP request completed with server error",
		},
		{
			name:          "異常系: ハンドラーエラー",
			path:          "/claim",
			handler:       func(c echo.Context) error { return errors.New("test error") },
			expectedLevel: "ERROR",
			expectedMsg:   "HTTP request failed",
			expectErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := otelinfra.NewLoggerWithWriter(noop.NewTracerProvider().Tracer("test"), &buf)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("User-Agent", "test-agent")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := LoggingMiddleware(logger)(tt.handler)(c)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			entries := decodeLogLines(t, &buf)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.expectedLevel, entries[0].Level)
			assert.Equal(t, tt.expectedMsg, entries[0].Message)
			assert.Equal(t, "test-agent", entries[0].Fields["user_agent"])
		})
	}
}

func TestLoggingMiddleware_DoesNotLogQuery(t *testing.T) {
	var buf bytes.Buffer
	logger := otelinfra.NewLoggerWithWriter(noop.NewTracerProvider().Tracer("test"), &buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?token=secret-user&admin_key=k", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := LoggingMiddleware(logger)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})(c)
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "secret-user")
	assert.NotContains(t, buf.String(), "admin_key")
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := otelinfra.NewLoggerWithWriter(noop.NewTracerProvider().Tracer("test"), &buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-123")

	err := LoggingMiddleware(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	require.NoError(t, err)

	entries := decodeLogLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].Fields["request_id"])
}
