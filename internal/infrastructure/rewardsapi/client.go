package rewardsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"community-rewards/internal/domain/reward"
	"community-rewards/internal/infrastructure/config"
	otelinfra "community-rewards/internal/infrastructure/observability/otel"
)

// maxBodySize 上流レスポンスの読み取り上限
const maxBodySize = 4 << 20

// Client リワードAPIのHTTPクライアント
// 自動リトライは行わない
type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	httpClient   *http.Client
	logger       *otelinfra.Logger
	metrics      *otelinfra.Metrics
	tracer       trace.Tracer
}

// NewClient 新しいClientを作成
func NewClient(cfg *config.RewardsAPIConfig, logger *otelinfra.Logger, metrics *otelinfra.Metrics) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		apiKeyHeader: cfg.APIKeyHeader,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		logger:       logger,
		metrics:      metrics,
		tracer:       otel.Tracer("rewards-api-client"),
	}
}

func (c *Client) uri(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do リクエストを送信し、2xxならボディを返す
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body interface{}) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "RewardsAPI."+operation, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.uri(path, query), reader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		c.recordUpstream(ctx, operation, 0, elapsed)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		if c.logger != nil {
			c.logger.Error(ctx, "Rewards API request failed", err, map[string]interface{}{
				"operation": operation,
				"method":    method,
				"path":      path,
			})
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.recordUpstream(ctx, operation, resp.StatusCode, elapsed)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, data)
		span.RecordError(apiErr)
		span.SetStatus(otelcodes.Error, apiErr.Error())
		if c.logger != nil {
			c.logger.Warn(ctx, "Rewards API returned an error status", map[string]interface{}{
				"operation":   operation,
				"method":      method,
				"path":        path,
				"status_code": resp.StatusCode,
				"message":     apiErr.Message,
			})
		}
		return nil, apiErr
	}

	span.SetStatus(otelcodes.Ok, "")
	return data, nil
}

// doJSON リクエストを送信し、2xxのボディをtargetにデコードする
func (c *Client) doJSON(ctx context.Context, operation, method, path string, query url.Values, body, target interface{}) error {
	data, err := c.do(ctx, operation, method, path, query, body)
	if err != nil {
		return err
	}
	if target == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

func (c *Client) recordUpstream(ctx context.Context, operation string, statusCode int, elapsed float64) {
	if c.metrics != nil {
		c.metrics.RecordUpstreamCall(ctx, operation, statusCode, elapsed)
	}
}

// FetchUserRewards GET /rewards/{userId}
func (c *Client) FetchUserRewards(ctx context.Context, userID string) (*reward.RawPayload, error) {
	data, err := c.do(ctx, "FetchUserRewards", http.MethodGet, "/rewards/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return nil, err
	}
	return reward.DecodePayload(data)
}

// FetchCurrent GET /current
func (c *Client) FetchCurrent(ctx context.Context) (*reward.RawPayload, error) {
	data, err := c.do(ctx, "FetchCurrent", http.MethodGet, "/current", nil, nil)
	if err != nil {
		return nil, err
	}
	return reward.DecodePayload(data)
}

// FetchMe GET /me
func (c *Client) FetchMe(ctx context.Context) (*reward.RawUser, error) {
	var u reward.RawUser
	if err := c.doJSON(ctx, "FetchMe", http.MethodGet, "/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

type ordersResponse struct {
	Data []reward.Order `json:"data"`
}

// FetchMyOrders GET /me/orders
func (c *Client) FetchMyOrders(ctx context.Context) ([]reward.Order, error) {
	var res ordersResponse
	if err := c.doJSON(ctx, "FetchMyOrders", http.MethodGet, "/me/orders", nil, nil, &res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return []reward.Order{}, nil
	}
	return res.Data, nil
}

// ClaimGiveaway PUT /rewards/giveaways/{giveawayId}
func (c *Client) ClaimGiveaway(ctx context.Context, giveawayID string, payload reward.ClaimPayload) error {
	_, err := c.do(ctx, "ClaimGiveaway", http.MethodPut, "/rewards/giveaways/"+url.PathEscape(giveawayID), nil, payload)
	return err
}
