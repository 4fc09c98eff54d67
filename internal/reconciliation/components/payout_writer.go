package components

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/payout-reconciler/internal/config"
	"github.com/payout-reconciler/internal/domain/outbox"
	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/payout-reconciler/internal/domain/stripe"
	"github.com/payout-reconciler/internal/reconciliation/service"
)

type PayoutWriterImpl struct {
	txnRepo     stripe.TransactionRepository
	outboxRepo  outbox.Repository
	idPrefix    string
	currency    string
	description string
	logger      *slog.Logger
}

func NewPayoutWriter(
	txnRepo stripe.TransactionRepository,
	outboxRepo outbox.Repository,
	cfg config.PayoutConfig,
	logger *slog.Logger,
) service.PayoutWriter {
	return &PayoutWriterImpl{
		txnRepo:     txnRepo,
		outboxRepo:  outboxRepo,
		idPrefix:    cfg.IDPrefix,
		currency:    cfg.Currency,
		description: cfg.Description,
		logger:      logger,
	}
}

// WritePayouts stores each payout as a processor transaction and queues a
// payout-created event for it. Payouts whose id already exists are left
// untouched and get no event.
func (w *PayoutWriterImpl) WritePayouts(ctx context.Context, tx pgx.Tx, batch *service.PayoutBatch) (*service.WriteResult, error) {
	logger := w.logger.With("run_id", batch.RunID.String(), "account_id", batch.Account.ID.String())
	if batch.CorrelationID != "" {
		logger = logger.With("correlation_id", batch.CorrelationID)
	}

	txnRepoTx := w.txnRepo.WithTx(tx)
	outboxRepoTx := w.outboxRepo.WithTx(tx)

	currency := batch.Account.Currency
	if currency == "" {
		currency = w.currency
	}

	result := &service.WriteResult{Created: []string{}, Existing: []string{}}
	for _, event := range batch.Payouts {
		payoutID := stripe.SimulatedPayoutID(w.idPrefix, batch.Period, batch.Account.ProcessorID, event.Sequence)
		txn := stripe.NewPayoutTransaction(batch.Account.ID, payoutID, event, currency, w.description)

		inserted, err := txnRepoTx.Create(ctx, txn)
		if err != nil {
			logger.Error("Failed to store payout transaction", "stripe_id", payoutID, "error", err)
			return nil, fmt.Errorf("failed to store payout %s: %w", payoutID, err)
		}
		if !inserted {
			logger.Info("Payout already exists, skipping", "stripe_id", payoutID)
			result.Existing = append(result.Existing, payoutID)
			continue
		}

		outboxMessage, err := outbox.NewMessage(&shared.PayoutCreatedEvent{
			TransactionID: txn.ID,
			StripeID:      payoutID,
			AccountID:     batch.Account.ID,
			RunID:         batch.RunID,
			Amount:        txn.Amount,
			Currency:      currency,
			Sequence:      event.Sequence,
			TriggeredAt:   event.TriggeredAt,
			CorrelationID: batch.CorrelationID,
			CreatedAt:     time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create outbox message payload for payout %s: %w", payoutID, err)
		}

		if err = outboxRepoTx.Create(ctx, outboxMessage); err != nil {
			logger.Error("Failed to create outbox message", "stripe_id", payoutID, "error", err)
			return nil, fmt.Errorf("failed to create outbox message for payout %s: %w", payoutID, err)
		}

		logger.Info("Payout stored",
			"stripe_id", payoutID,
			"amount", txn.Amount,
			"triggered_at", event.TriggeredAt,
			"outbox_id", outboxMessage.ID,
		)
		result.Created = append(result.Created, payoutID)
	}

	return result, nil
}
