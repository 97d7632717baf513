package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config アプリケーション全体の設定
type Config struct {
	Server        ServerConfig
	RewardsAPI    RewardsAPIConfig
	Admin         AdminAPIConfig
	Claim         ClaimConfig
	Embed         EmbedConfig
	Fixture       FixtureConfig
	Legacy        LegacyConfig
	Database      DatabaseConfig
	OpenTelemetry OpenTelemetryConfig
	Environment   string
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port            int
	GRPCPort        int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// RewardsAPIConfig 上流のリワードAPI設定
type RewardsAPIConfig struct {
	BaseURL      string
	APIKey       string
	APIKeyHeader string
	Timeout      time.Duration
}

// AdminAPIConfig 管理画面の設定
type AdminAPIConfig struct {
	Enabled    bool
	APIKey     string
	AllowedIPs []string
	StatsLimit int
}

// ClaimConfig 請求の設定
type ClaimConfig struct {
	ThresholdMode string // "reach" (>=100), "exceed" (>100)
	TicketSecret  string
	TicketTTL     time.Duration
	TicketIssuer  string
	Ledger        string // "memory", "mysql"
}

// EmbedConfig iframe埋め込みの設定
type EmbedConfig struct {
	AllowedOrigins []string
	FrameAncestors []string
	WidgetURL      string
}

// FixtureConfig テスト用フィクスチャの設定
type FixtureConfig struct {
	Enabled bool
	Token   string
	Delay   time.Duration
}

// LegacyConfig 旧エンドポイントの設定
type LegacyConfig struct {
	Enabled      bool
	PollInterval time.Duration
}

// DatabaseConfig データベース設定（請求台帳をMySQLに保存する場合のみ使用）
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// OpenTelemetryConfig OpenTelemetry設定
type OpenTelemetryConfig struct {
	Enabled         bool
	ServiceName     string
	ServiceVersion  string
	OTLPEndpoint    string
	OTLPInsecure    bool
	TraceExporter   string // "otlp", "none"
	MetricsExporter string // "otlp", "none"
	SampleRatio     float64
}

// Load 設定を読み込む
func Load() (*Config, error) {
	// .envファイルを読み込む（存在しない場合は無視）
	_ = godotenv.Load()

	env := getEnv("ENVIRONMENT", "development")
	port := getEnvAsInt("SERVER_PORT", 8080)

	origins := getEnvAsSlice("EMBED_ALLOWED_ORIGINS", nil)
	if len(origins) == 0 && env == "development" {
		origins = []string{"*"}
	}

	cfg := &Config{
		Environment: env,
		Server: ServerConfig{
			Port:            port,
			GRPCPort:        getEnvAsInt("GRPC_PORT", port+1),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		RewardsAPI: RewardsAPIConfig{
			BaseURL:      strings.TrimRight(getEnv("REWARDS_API_BASE_URL", "http://localhost:8000/api/iframe"), "/"),
			APIKey:       getEnv("REWARDS_API_KEY", ""),
			APIKeyHeader: getEnv("REWARDS_API_KEY_HEADER", "X-API-Key"),
			Timeout:      getEnvAsDuration("REWARDS_API_TIMEOUT", 10*time.Second),
		},
		Admin: AdminAPIConfig{
			Enabled:    getEnvAsBool("ADMIN_ENABLED", true),
			APIKey:     getEnv("ADMIN_API_KEY", ""),
			AllowedIPs: getEnvAsSlice("ADMIN_ALLOWED_IPS", nil),
			StatsLimit: getEnvAsInt("ADMIN_STATS_LIMIT", 200),
		},
		Claim: ClaimConfig{
			ThresholdMode: getEnv("CLAIM_THRESHOLD_MODE", "reach"),
			TicketSecret:  getEnv("CLAIM_TICKET_SECRET", ""),
			TicketTTL:     getEnvAsDuration("CLAIM_TICKET_TTL", 15*time.Minute),
			TicketIssuer:  getEnv("CLAIM_TICKET_ISSUER", "community-rewards"),
			Ledger:        getEnv("CLAIM_LEDGER", "memory"),
		},
		Embed: EmbedConfig{
			AllowedOrigins: origins,
			FrameAncestors: getEnvAsSlice("EMBED_FRAME_ANCESTORS", []string{"*"}),
			WidgetURL:      getEnv("EMBED_WIDGET_URL", fmt.Sprintf("http://localhost:%d/", port)),
		},
		Fixture: FixtureConfig{
			Enabled: getEnvAsBool("FIXTURE_ENABLED", env != "production"),
			Token:   getEnv("FIXTURE_TOKEN", "test-finished"),
			Delay:   getEnvAsDuration("FIXTURE_DELAY", 500*time.Millisecond),
		},
		Legacy: LegacyConfig{
			Enabled:      getEnvAsBool("LEGACY_ENABLED", true),
			PollInterval: getEnvAsDuration("LEGACY_POLL_INTERVAL", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 3306),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "community_rewards"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		},
		OpenTelemetry: OpenTelemetryConfig{
			Enabled:         getEnvAsBool("OTEL_ENABLED", false),
			ServiceName:     getEnv("OTEL_SERVICE_NAME", "community-rewards"),
			ServiceVersion:  getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			OTLPInsecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			TraceExporter:   getEnv("OTEL_TRACES_EXPORTER", "otlp"),
			MetricsExporter: getEnv("OTEL_METRICS_EXPORTER", "otlp"),
			SampleRatio:     getEnvAsFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0),
		},
	}

	// 必須設定の検証
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate 設定の検証
func (c *Config) validate() error {
	if c.RewardsAPI.BaseURL == "" {
		return fmt.Errorf("REWARDS_API_BASE_URL is required")
	}
	if c.RewardsAPI.APIKey == "" {
		return fmt.Errorf("REWARDS_API_KEY is required")
	}
	if c.Claim.TicketSecret == "" {
		return fmt.Errorf("CLAIM_TICKET_SECRET is required")
	}
	switch c.Claim.ThresholdMode {
	case "reach", "exceed":
	default:
		return fmt.Errorf("CLAIM_THRESHOLD_MODE must be reach or exceed: %s", c.Claim.ThresholdMode)
	}
	switch c.Claim.Ledger {
	case "memory":
	case "mysql":
		if c.Database.Host == "" || c.Database.Database == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for the mysql claim ledger")
		}
	default:
		return fmt.Errorf("CLAIM_LEDGER must be memory or mysql: %s", c.Claim.Ledger)
	}
	if c.OpenTelemetry.SampleRatio < 0 || c.OpenTelemetry.SampleRatio > 1 {
		return fmt.Errorf("OTEL_TRACES_SAMPLE_RATIO must be between 0 and 1: %v", c.OpenTelemetry.SampleRatio)
	}
	if c.Admin.Enabled && c.Admin.APIKey == "" {
		return fmt.Errorf("ADMIN_API_KEY is required when the admin dashboard is enabled")
	}
	if !c.IsDevelopment() {
		if len(c.Embed.AllowedOrigins) == 0 {
			return fmt.Errorf("EMBED_ALLOWED_ORIGINS is required outside development")
		}
		for _, o := range c.Embed.AllowedOrigins {
			if o == "*" {
				return fmt.Errorf("EMBED_ALLOWED_ORIGINS must not contain * outside development")
			}
		}
	}
	return nil
}

// IsDevelopment 開発環境かどうかを返す
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// DSN データベース接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 環境変数を整数として取得
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat 環境変数を浮動小数点数として取得
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool 環境変数を真偽値として取得
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration 環境変数を時間として取得
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice カンマ区切りの環境変数をスライスとして取得
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
