package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/payout-reconciler/internal/domain/outbox"
	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/payout-reconciler/internal/platform/persistence"
)

const outboxColumns = `id, transaction_id, account_id, payload, status, attempts, created_at, last_attempt_at`

// OutboxRepository stores payout events in payout_outbox next to the payout
// transactions they describe
type OutboxRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewOutboxRepository(logger *slog.Logger, db *persistence.PostgresDB) outbox.Repository {
	return &OutboxRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx binds the repository to the transaction that writes the payouts
func (r *OutboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	return &OutboxRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *OutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	err := r.querier.QueryRow(ctx, `
		INSERT INTO payout_outbox (transaction_id, account_id, payload, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		message.TransactionID,
		message.AccountID,
		message.Payload,
		message.Status,
		message.Attempts,
		message.CreatedAt,
	).Scan(&message.ID)
	if err != nil {
		r.logger.Error("Failed to create outbox message",
			"transaction_id", message.TransactionID.String(),
			"account_id", message.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message: %w", err)
	}
	return nil
}

// GetPending returns the oldest pending messages first
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	rows, err := r.querier.Query(ctx,
		`SELECT `+outboxColumns+` FROM payout_outbox WHERE status = $1 ORDER BY created_at, id LIMIT $2`,
		shared.OutboxStatusPending, limit,
	)
	if err != nil {
		r.logger.Error("Failed to get pending outbox messages", "error", err)
		return nil, fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*outbox.Message, 0, limit)
	for rows.Next() {
		msg, err := scanOutboxMessage(rows)
		if err != nil {
			r.logger.Error("Failed to scan outbox message", "error", err)
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over outbox messages: %w", err)
	}
	return messages, nil
}

func (r *OutboxRepository) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	return r.touch(ctx, "update outbox message status", id,
		`UPDATE payout_outbox SET status = $1, last_attempt_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
}

func (r *OutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	return r.touch(ctx, "increment outbox message attempts", id,
		`UPDATE payout_outbox SET attempts = attempts + 1, last_attempt_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
}

func (r *OutboxRepository) PurgeProcessed(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.querier.Exec(ctx,
		`DELETE FROM payout_outbox WHERE status = $1 AND last_attempt_at < $2`,
		shared.OutboxStatusProcessed, before,
	)
	if err != nil {
		r.logger.Error("Failed to purge processed outbox messages", "before", before, "error", err)
		return 0, fmt.Errorf("failed to purge processed outbox messages: %w", err)
	}
	return tag.RowsAffected(), nil
}

// touch runs a single-row update and maps zero affected rows to ErrMessageNotFound
func (r *OutboxRepository) touch(ctx context.Context, action string, id int64, query string, args ...interface{}) error {
	tag, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to "+action, "outbox_id", id, "error", err)
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if tag.RowsAffected() == 0 {
		return outbox.ErrMessageNotFound{ID: id}
	}
	return nil
}

func scanOutboxMessage(row pgx.Row) (*outbox.Message, error) {
	var msg outbox.Message
	err := row.Scan(
		&msg.ID,
		&msg.TransactionID,
		&msg.AccountID,
		&msg.Payload,
		&msg.Status,
		&msg.Attempts,
		&msg.CreatedAt,
		&msg.LastAttemptAt,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
