package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"community-rewards/internal/infrastructure/config"

	_ "github.com/go-sql-driver/mysql"
)

// DB データベース接続を提供
type DB struct {
	*sql.DB
}

// NewDB 新しいデータベース接続を作成
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 接続プールの設定
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// 接続テスト
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close データベース接続を閉じる
func (db *DB) Close() error {
	return db.DB.Close()
}

// HealthCheck データベースのヘルスチェックを実行
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

const claimAttemptsSchema = `
	CREATE TABLE IF NOT EXISTS claim_attempts (
		ticket_id     VARCHAR(255) NOT NULL PRIMARY KEY,
		user_id       VARCHAR(255) NOT NULL,
		reward_id     VARCHAR(255) NOT NULL,
		status        VARCHAR(32)  NOT NULL,
		error_message TEXT         NULL,
		created_at    DATETIME(6)  NOT NULL,
		updated_at    DATETIME(6)  NOT NULL,
		INDEX idx_claim_attempts_user_reward (user_id, reward_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

// EnsureSchema 請求台帳のテーブルを作成する
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, claimAttemptsSchema); err != nil {
		return fmt.Errorf("failed to create claim_attempts table: %w", err)
	}
	return nil
}
