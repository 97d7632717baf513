package interceptor

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	otelinfra "community-rewards/internal/infrastructure/observability/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		err           error
		expectedLevel string
		expectedCode  string
	}{
		{name: "正常系: 成功", method: "/test.Test/Method", expectedLevel: "INFO", expectedCode: "OK"},
		{name: "正常系: ヘルスチェックはDebug", method: "/grpc.health.v1.Health/Check", expectedLevel: "DEBUG", expectedCode: "OK"},
		{name: "異常系: 未知のサービス", method: "/test.Test/Method", err: status.Error(codes.NotFound, "unknown service"), expectedLevel: "WARN", expectedCode: "NotFound"},
		{name: "異常系: 内部エラー", method: "/test.Test/Method", err: status.Error(codes.Internal, "boom"), expectedLevel: "ERROR", expectedCode: "Internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := otelinfra.NewLoggerWithWriter(noop.NewTracerProvider().Tracer("test"), &buf)

			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return "success", nil
			}

			resp, err := LoggingInterceptor(logger)(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: tt.method}, handler)
			if tt.err != nil {
				assert.Equal(t, tt.err, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "success", resp)
			}

			var entry otelinfra.LogEntry
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
			assert.Equal(t, tt.expectedLevel, entry.Level)
			assert.Equal(t, tt.method, entry.Fields["method"])
			assert.Equal(t, tt.expectedCode, entry.Fields["code"])
		})
	}
}
