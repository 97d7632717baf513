package interceptor

import (
	"context"
	"time"

	otelinfra "community-rewards/internal/infrastructure/observability/otel"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// quietMethods 頻繁に呼ばれるためDebugで記録するメソッド
var quietMethods = map[string]bool{
	"/grpc.health.v1.Health/Check": true,
}

// LoggingInterceptor リクエストログのインターセプター
func LoggingInterceptor(logger *otelinfra.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := map[string]interface{}{
			"method":      info.FullMethod,
			"code":        code.String(),
			"duration_ms": time.Since(start).Milliseconds(),
		}

		switch {
		case isServerError(code):
			logger.Error(ctx, "gRPC request failed", err, fields)
		case err != nil:
			logger.Warn(ctx, "gRPC request rejected", fields)
		case quietMethods[info.FullMethod]:
			logger.Debug(ctx, "gRPC request completed", fields)
		default:
			logger.Info(ctx, "gRPC request completed", fields)
		}
		return resp, err
	}
}

func isServerError(code codes.Code) bool {
	switch code {
	case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss, codes.Unimplemented:
		return true
	}
	return false
}
