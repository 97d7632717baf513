package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	required := map[string]string{
		"REWARDS_API_KEY":     "upstream-key",
		"CLAIM_TICKET_SECRET": "ticket-secret",
		"ADMIN_API_KEY":       "admin-key",
	}

	tests := []struct {
		name        string
		env         map[string]string
		unset       []string
		wantError   bool
		checkConfig func(*testing.T, *Config)
	}{
		{
			name: "正常系: デフォルト値で設定を読み込む",
			env:  required,
			checkConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 8081, cfg.Server.GRPCPort)
				assert.Equal(t, "http://localhost:8000/api/iframe", cfg.RewardsAPI.BaseURL)
				assert.Equal(t, "X-API-Key", cfg.RewardsAPI.APIKeyHeader)
				assert.Equal(t, "upstream-key", cfg.RewardsAPI.APIKey)
				assert.Equal(t, "reach", cfg.Claim.ThresholdMode)
				assert.Equal(t, "memory", cfg.Claim.Ledger)
				assert.Equal(t, 15*time.Minute, cfg.Claim.TicketTTL)
				assert.Equal(t, []string{"*"}, cfg.Embed.AllowedOrigins)
				assert.True(t, cfg.Fixture.Enabled)
				assert.Equal(t, "test-finished", cfg.Fixture.Token)
				assert.Equal(t, 500*time.Millisecond, cfg.Fixture.Delay)
				assert.Equal(t, 60*time.Second, cfg.Legacy.PollInterval)
				assert.Equal(t, 200, cfg.Admin.StatsLimit)
				assert.Equal(t, 1.0, cfg.OpenTelemetry.SampleRatio)
				assert.True(t, cfg.IsDevelopment())
			},
		},
		{
			name: "正常系: 環境変数から設定を読み込む",
			env: map[string]string{
				"ENVIRONMENT":            "production",
				"SERVER_PORT":            "9000",
				"REWARDS_API_BASE_URL":   "https://api.example.com/api/iframe/",
				"REWARDS_API_KEY":        "prod-key",
				"REWARDS_API_KEY_HEADER": "X-Rewards-Key",
				"CLAIM_TICKET_SECRET":    "prod-secret",
				"CLAIM_THRESHOLD_MODE":   "exceed",
				"ADMIN_API_KEY":          "admin-key",
				"ADMIN_ALLOWED_IPS":      "10.0.0.1, 10.0.0.2",
				"EMBED_ALLOWED_ORIGINS":  "https://www.example.com, https://partner.example.org",
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "production", cfg.Environment)
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, 9001, cfg.Server.GRPCPort)
				assert.Equal(t, "https://api.example.com/api/iframe", cfg.RewardsAPI.BaseURL)
				assert.Equal(t, "X-Rewards-Key", cfg.RewardsAPI.APIKeyHeader)
				assert.Equal(t, "exceed", cfg.Claim.ThresholdMode)
				assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Admin.AllowedIPs)
				assert.Equal(t, []string{"https://www.example.com", "https://partner.example.org"}, cfg.Embed.AllowedOrigins)
				assert.False(t, cfg.Fixture.Enabled)
				assert.False(t, cfg.IsDevelopment())
			},
		},
		{
			name:      "異常系: REWARDS_API_KEYが空",
			env:       map[string]string{"CLAIM_TICKET_SECRET": "s", "ADMIN_API_KEY": "a"},
			unset:     []string{"REWARDS_API_KEY"},
			wantError: true,
		},
		{
			name:      "異常系: CLAIM_TICKET_SECRETが空",
			env:       map[string]string{"REWARDS_API_KEY": "k", "ADMIN_API_KEY": "a"},
			unset:     []string{"CLAIM_TICKET_SECRET"},
			wantError: true,
		},
		{
			name:      "異常系: 管理画面が有効でADMIN_API_KEYが空",
			env:       map[string]string{"REWARDS_API_KEY": "k", "CLAIM_TICKET_SECRET": "s"},
			unset:     []string{"ADMIN_API_KEY"},
			wantError: true,
		},
		{
			name:  "正常系: 管理画面が無効ならADMIN_API_KEYは不要",
			env:   map[string]string{"REWARDS_API_KEY": "k", "CLAIM_TICKET_SECRET": "s", "ADMIN_ENABLED": "false"},
			unset: []string{"ADMIN_API_KEY"},
			checkConfig: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Admin.Enabled)
			},
		},
		{
			name: "異常系: 無効な達成判定モード",
			env: map[string]string{
				"REWARDS_API_KEY": "k", "CLAIM_TICKET_SECRET": "s", "ADMIN_API_KEY": "a",
				"CLAIM_THRESHOLD_MODE": "gte",
			},
			wantError: true,
		},
		{
			name: "正常系: サンプリング比率",
			env: map[string]string{
				"REWARDS_API_KEY": "k", "CLAIM_TICKET_SECRET": "s", "ADMIN_API_KEY": "a",
				"OTEL_TRACES_SAMPLE_RATIO": "0.25",
			},
			checkConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0.25, cfg.OpenTelemetry.SampleRatio)
			},
		},
		{
			name: "異常系: サンプリング比率が範囲外",
			env: map[string]string{
				"REWARDS_API_KEY": "k", "CLAIM_TICKET_SECRET": "s", "ADMIN_API_KEY": "a",
				"OTEL_TRACES_SAMPLE_RATIO": "1.5",
			},
			wantError: true,
		},
		{
			name: "異常系: 無効な台帳",
			env: map[string]string{
				"REWARDS_API_KEY": "k", "CLAIM_TICKET_SECRET": "s", "ADMIN_API_KEY": "a",
				"CLAIM_LEDGER": "redis",
			},
			wantError: true,
		},
		{
			name: "異常系: 本番環境で許可オリジンが未設定",
			env: map[string]string{
				"ENVIRONMENT": "production", "REWARDS_API_KEY": "k", "CLAIM_TICKET_SECRET": "s", "ADMIN_API_KEY": "a",
			},
			unset:     []string{"EMBED_ALLOWED_ORIGINS"},
			wantError: true,
		},
		{
			name: "異常系: 本番環境でワイルドカード",
			env: map[string]string{
				"ENVIRONMENT": "production", "REWARDS_API_KEY": "k", "CLAIM_TICKET_SECRET": "s", "ADMIN_API_KEY": "a",
				"EMBED_ALLOWED_ORIGINS": "https://www.example.com,*",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range tt.unset {
				t.Setenv(key, "")
			}
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg, err := Load()

			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, cfg)
				if tt.checkConfig != nil {
					tt.checkConfig(t, cfg)
				}
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		User:     "testuser",
		Password: "testpass",
		Host:     "localhost",
		Port:     3306,
		Database: "community_rewards",
	}

	assert.Equal(t, "testuser:testpass@tcp(localhost:3306)/community_rewards?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())
}

func TestGetEnvAsSlice(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue []string
		want         []string
	}{
		{name: "カンマ区切り", envValue: "a, b ,c", want: []string{"a", "b", "c"}},
		{name: "空要素は無視", envValue: "a,,b,", want: []string{"a", "b"}},
		{name: "環境変数が空", envValue: "", defaultValue: []string{"*"}, want: []string{"*"}},
		{name: "区切り文字のみ", envValue: " , ", defaultValue: []string{"x"}, want: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_SLICE", tt.envValue)
			defer os.Unsetenv("TEST_SLICE")

			got := getEnvAsSlice("TEST_SLICE", tt.defaultValue)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		want         int
	}{
		{
			name:         "環境変数が設定されている",
			envValue:     "123",
			defaultValue: 0,
			want:         123,
		},
		{
			name:         "環境変数が空",
			envValue:     "",
			defaultValue: 456,
			want:         456,
		},
		{
			name:         "環境変数が無効な値",
			envValue:     "invalid",
			defaultValue: 789,
			want:         789,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_INT", tt.envValue)
			defer os.Unsetenv("TEST_INT")

			got := getEnvAsInt("TEST_INT", tt.defaultValue)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{
			name:         "環境変数がtrue",
			envValue:     "true",
			defaultValue: false,
			want:         true,
		},
		{
			name:         "環境変数がfalse",
			envValue:     "false",
			defaultValue: true,
			want:         false,
		},
		{
			name:         "環境変数が空",
			envValue:     "",
			defaultValue: true,
			want:         true,
		},
		{
			name:         "環境変数が無効な値",
			envValue:     "invalid",
			defaultValue: false,
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_BOOL", tt.envValue)
			defer os.Unsetenv("TEST_BOOL")

			got := getEnvAsBool("TEST_BOOL", tt.defaultValue)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		want         time.Duration
	}{
		{
			name:         "環境変数が有効な時間",
			envValue:     "1h",
			defaultValue: time.Minute,
			want:         time.Hour,
		},
		{
			name:         "環境変数が空",
			envValue:     "",
			defaultValue: time.Minute,
			want:         time.Minute,
		},
		{
			name:         "環境変数が無効な値",
			envValue:     "invalid",
			defaultValue: time.Hour,
			want:         time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_DURATION", tt.envValue)
			defer os.Unsetenv("TEST_DURATION")

			got := getEnvAsDuration("TEST_DURATION", tt.defaultValue)
			assert.Equal(t, tt.want, got)
		})
	}
}
