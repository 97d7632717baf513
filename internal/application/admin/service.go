package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"community-rewards/internal/domain/reward"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"
)

// createFields 作成フォームで上流へ転送するフィールド
var createFields = []string{
	"start_at",
	"title",
	"prize_name",
	"prize_image",
	"prize_msrp_usd",
	"description",
	"revenue_target_usd",
	"progress_curve",
	"unlocked_message",
}

// numericFields 数値として送信するフィールド
var numericFields = map[string]bool{
	"prize_msrp_usd":     true,
	"revenue_target_usd": true,
	"progress_curve":     true,
}

// AdminApplicationService 管理画面アプリケーションサービス
// 上流の管理APIへの薄いパススルー
type AdminApplicationService struct {
	gateway    reward.AdminGateway
	statsLimit int
	logger     *otelinfra.Logger
	metrics    *otelinfra.Metrics
	tracer     trace.Tracer
}

// NewAdminApplicationService 新しいAdminApplicationServiceを作成
func NewAdminApplicationService(
	gateway reward.AdminGateway,
	statsLimit int,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *AdminApplicationService {
	if statsLimit <= 0 {
		statsLimit = 200
	}
	return &AdminApplicationService{
		gateway:    gateway,
		statsLimit: statsLimit,
		logger:     logger,
		metrics:    metrics,
		tracer:     otel.Tracer("admin-service"),
	}
}

// Dashboard 一覧と選択中ギブアウェイの統計を取得
func (s *AdminApplicationService) Dashboard(ctx context.Context, adminKey, selectedID string) (*DashboardResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.Dashboard")
	defer span.End()

	span.SetAttributes(attribute.String("selected_id", selectedID))

	rows, err := s.gateway.ListGiveaways(ctx, adminKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	resp := &DashboardResponse{Giveaways: rows}
	if selectedID == "" {
		return resp, nil
	}

	stats, err := s.Stats(ctx, adminKey, selectedID)
	if err != nil {
		// 統計が取れなくても一覧は表示する
		s.logger.Warn(ctx, "Failed to load giveaway stats", map[string]interface{}{
			"giveaway_id": selectedID,
			"error":       err.Error(),
		})
		return resp, nil
	}
	resp.Selected = stats
	return resp, nil
}

// ListGiveaways ギブアウェイ一覧を取得
func (s *AdminApplicationService) ListGiveaways(ctx context.Context, adminKey string) ([]reward.AdminGiveaway, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.ListGiveaways")
	defer span.End()

	rows, err := s.gateway.ListGiveaways(ctx, adminKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("count", len(rows)))
	return rows, nil
}

// Stats ギブアウェイの統計を取得
func (s *AdminApplicationService) Stats(ctx context.Context, adminKey, giveawayID string) (*reward.GiveawayStats, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.Stats")
	defer span.End()

	span.SetAttributes(
		attribute.String("giveaway_id", giveawayID),
		attribute.Int("limit", s.statsLimit),
	)

	stats, err := s.gateway.GiveawayStats(ctx, adminKey, giveawayID, s.statsLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	return stats, nil
}

// Create ギブアウェイを作成する
// 空欄は送信せず、金額と進捗カーブは数値に変換する
func (s *AdminApplicationService) Create(ctx context.Context, adminKey string, form url.Values) (*reward.CreatedGiveaway, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.Create")
	defer span.End()

	fields, err := BuildCreateFields(form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	created, err := s.gateway.CreateGiveaway(ctx, adminKey, fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	s.logger.Info(ctx, "Giveaway created", map[string]interface{}{
		"giveaway_id": created.ID.String(),
	})
	span.SetAttributes(attribute.String("giveaway_id", created.ID.String()))
	return created, nil
}

// Act 行アクションを実行する
func (s *AdminApplicationService) Act(ctx context.Context, adminKey, giveawayID, action string) error {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.Act")
	defer span.End()

	span.SetAttributes(
		attribute.String("giveaway_id", giveawayID),
		attribute.String("action", action),
	)

	a, err := reward.NewAdminAction(action)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	if err := s.gateway.RunAction(ctx, adminKey, giveawayID, a); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	s.logger.Info(ctx, "Admin action executed", map[string]interface{}{
		"giveaway_id": giveawayID,
		"action":      a.String(),
	})
	return nil
}

// Sync 注文を同期する
func (s *AdminApplicationService) Sync(ctx context.Context, adminKey string) error {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.Sync")
	defer span.End()

	if err := s.gateway.SyncOrders(ctx, adminKey); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}
	s.logger.Info(ctx, "Orders synced", nil)
	return nil
}

// ExportStats 参加者一覧をCSVとして出力する
func (s *AdminApplicationService) ExportStats(ctx context.Context, adminKey, giveawayID string) (*StatsExport, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.ExportStats")
	defer span.End()

	stats, err := s.Stats(ctx, adminKey, giveawayID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"email", "entries", "probability"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range stats.Participants {
		row := []string{
			p.Email,
			strconv.FormatFloat(p.Entries, 'f', -1, 64),
			strconv.FormatFloat(p.Probability, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return &StatsExport{
		Filename: ExportFilename(giveawayID, stats.Giveaway),
		Data:     buf.Bytes(),
	}, nil
}

// ExportFilename CSVのファイル名を返す
func ExportFilename(giveawayID string, g reward.AdminGiveaway) string {
	name := g.PrizeName
	if name == "" {
		name = g.Title
	}
	return slug.Make(strings.TrimSpace("giveaway "+giveawayID+" "+name)) + "-participants.csv"
}

// BuildCreateFields フォーム値を上流へ送るフィールドに変換する
func BuildCreateFields(form url.Values) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	for _, key := range createFields {
		v := strings.TrimSpace(form.Get(key))
		if v == "" {
			continue
		}
		if numericFields[key] {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be a number", reward.ErrInvalidGiveawayField, key)
			}
			fields[key] = n
			continue
		}
		fields[key] = v
	}
	return fields, nil
}
