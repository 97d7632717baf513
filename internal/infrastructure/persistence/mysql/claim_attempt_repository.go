package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"community-rewards/internal/domain/claim"
)

// errDuplicateEntry MySQLの一意制約違反
const errDuplicateEntry = 1062

// ClaimAttemptRepository MySQL実装のAttemptRepository
type ClaimAttemptRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewClaimAttemptRepository 新しいClaimAttemptRepositoryを作成
func NewClaimAttemptRepository(db *DB) *ClaimAttemptRepository {
	return &ClaimAttemptRepository{
		db:     db,
		tracer: otel.Tracer("claim-attempt-repository"),
	}
}

// Create 試行を記録
func (r *ClaimAttemptRepository) Create(ctx context.Context, a *claim.Attempt) error {
	ctx, span := r.tracer.Start(ctx, "ClaimAttemptRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.ticket_id", a.TicketID()),
		attribute.String("db.user_id", a.UserID()),
		attribute.String("db.reward_id", a.RewardID()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "claim_attempts"),
	)

	query := `
		INSERT INTO claim_attempts (
			ticket_id, user_id, reward_id, status, error_message, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.TicketID(),
		a.UserID(),
		a.RewardID(),
		a.Status().String(),
		nullString(a.ErrorMessage()),
		a.CreatedAt(),
		a.UpdatedAt(),
	)
	if err != nil {
		var mysqlErr *mysqldriver.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry {
			span.SetStatus(otelcodes.Error, "duplicate ticket")
			return claim.ErrDuplicateTicket
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create claim attempt: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "claim attempt created")
	return nil
}

// Update ステータスとエラーメッセージを更新
func (r *ClaimAttemptRepository) Update(ctx context.Context, a *claim.Attempt) error {
	ctx, span := r.tracer.Start(ctx, "ClaimAttemptRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.ticket_id", a.TicketID()),
		attribute.String("db.status", a.Status().String()),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "claim_attempts"),
	)

	query := `
		UPDATE claim_attempts
		SET status = ?, error_message = ?, updated_at = ?
		WHERE ticket_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		a.Status().String(),
		nullString(a.ErrorMessage()),
		a.UpdatedAt(),
		a.TicketID(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to update claim attempt: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		span.SetStatus(otelcodes.Error, "claim attempt not found")
		return claim.ErrAttemptNotFound
	}

	span.SetStatus(otelcodes.Ok, "claim attempt updated")
	return nil
}

// FindByTicketID チケットIDで試行を取得
func (r *ClaimAttemptRepository) FindByTicketID(ctx context.Context, ticketID string) (*claim.Attempt, error) {
	ctx, span := r.tracer.Start(ctx, "ClaimAttemptRepository.FindByTicketID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.ticket_id", ticketID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "claim_attempts"),
	)

	query := `
		SELECT ticket_id, user_id, reward_id, status, error_message, created_at, updated_at
		FROM claim_attempts
		WHERE ticket_id = ?
	`

	var dbTicketID, userID, rewardID, dbStatus string
	var errorMessage sql.NullString
	var createdAt, updatedAt time.Time

	err := r.db.QueryRowContext(ctx, query, ticketID).Scan(
		&dbTicketID,
		&userID,
		&rewardID,
		&dbStatus,
		&errorMessage,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			span.SetStatus(otelcodes.Error, "claim attempt not found")
			return nil, claim.ErrAttemptNotFound
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find claim attempt: %w", err)
	}

	status, err := claim.NewAttemptStatus(dbStatus)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to parse attempt status: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "claim attempt found")
	return claim.RestoreAttempt(
		dbTicketID,
		userID,
		rewardID,
		status,
		errorMessage.String,
		createdAt,
		updatedAt,
	), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
