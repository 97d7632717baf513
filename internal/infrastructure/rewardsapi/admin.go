package rewardsapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"community-rewards/internal/domain/reward"
)

func adminQuery(adminKey string) url.Values {
	q := url.Values{}
	if adminKey != "" {
		q.Set("admin_key", adminKey)
	}
	return q
}

type giveawaysResponse struct {
	Data []reward.AdminGiveaway `json:"data"`
}

// ListGiveaways GET /admin/giveaways
func (c *Client) ListGiveaways(ctx context.Context, adminKey string) ([]reward.AdminGiveaway, error) {
	var res giveawaysResponse
	if err := c.doJSON(ctx, "ListGiveaways", http.MethodGet, "/admin/giveaways", adminQuery(adminKey), nil, &res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return []reward.AdminGiveaway{}, nil
	}
	return res.Data, nil
}

// GiveawayStats GET /admin/giveaways/{id}/stats?limit=N
func (c *Client) GiveawayStats(ctx context.Context, adminKey, giveawayID string, limit int) (*reward.GiveawayStats, error) {
	q := adminQuery(adminKey)
	q.Set("limit", strconv.Itoa(limit))

	var stats reward.GiveawayStats
	path := "/admin/giveaways/" + url.PathEscape(giveawayID) + "/stats"
	if err := c.doJSON(ctx, "GiveawayStats", http.MethodGet, path, q, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateGiveaway POST /admin/giveaways
func (c *Client) CreateGiveaway(ctx context.Context, adminKey string, fields map[string]interface{}) (*reward.CreatedGiveaway, error) {
	var created reward.CreatedGiveaway
	if err := c.doJSON(ctx, "CreateGiveaway", http.MethodPost, "/admin/giveaways", adminQuery(adminKey), fields, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// RunAction POST /admin/giveaways/{id}/{action}
func (c *Client) RunAction(ctx context.Context, adminKey, giveawayID string, action reward.AdminAction) error {
	path := "/admin/giveaways/" + url.PathEscape(giveawayID) + "/" + action.String()
	_, err := c.do(ctx, "RunAction", http.MethodPost, path, adminQuery(adminKey), nil)
	return err
}

// SyncOrders POST /admin/sync
func (c *Client) SyncOrders(ctx context.Context, adminKey string) error {
	_, err := c.do(ctx, "SyncOrders", http.MethodPost, "/admin/sync", adminQuery(adminKey), nil)
	return err
}
