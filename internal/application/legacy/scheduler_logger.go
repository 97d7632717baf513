package legacy

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"

	otelinfra "community-rewards/internal/infrastructure/observability/otel"
)

// schedulerLogger gocronのログを構造化ロガーへ流す
type schedulerLogger struct {
	logger *otelinfra.Logger
}

var _ gocron.Logger = (*schedulerLogger)(nil)

func (l *schedulerLogger) Debug(msg string, args ...any) {
	l.logger.Debug(context.Background(), msg, argsToFields(args))
}

func (l *schedulerLogger) Info(msg string, args ...any) {
	l.logger.Info(context.Background(), msg, argsToFields(args))
}

func (l *schedulerLogger) Warn(msg string, args ...any) {
	l.logger.Warn(context.Background(), msg, argsToFields(args))
}

func (l *schedulerLogger) Error(msg string, args ...any) {
	l.logger.Error(context.Background(), msg, nil, argsToFields(args))
}

// argsToFields key, value, key, value... をフィールドに変換する
func argsToFields(args []any) map[string]interface{} {
	if len(args) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 < len(args) {
			fields[key] = args[i+1]
		} else {
			fields[key] = nil
		}
	}
	return fields
}
