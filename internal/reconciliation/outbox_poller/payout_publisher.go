package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/payout-reconciler/internal/domain/outbox"
	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/payout-reconciler/internal/platform/messaging/producers"
)

// PayoutPublisher delivers outbox messages downstream
type PayoutPublisher interface {
	PublishPayout(ctx context.Context, message *outbox.Message) error
}

// PayoutPublisherImpl publishes payout-created events to Kafka
type PayoutPublisherImpl struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewPayoutPublisher creates a new publisher
func NewPayoutPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) PayoutPublisher {
	return &PayoutPublisherImpl{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishPayout sends the event keyed by account and marks the message processed
func (p *PayoutPublisherImpl) PublishPayout(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetPayoutEvent()
	if err != nil {
		p.logger.Error("Failed to unmarshal payout event from outbox payload",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if event.CorrelationID != "" {
		logger = p.logger.With("correlation_id", event.CorrelationID)
	}

	if err := p.producer.Publish(ctx, event.AccountID.String(), event); err != nil {
		logger.Error("Failed to publish payout event", "outbox_id", message.ID, "stripe_id", event.StripeID, "error", err)
		return fmt.Errorf("failed to publish payout event %s: %w", event.StripeID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		return fmt.Errorf("payout event %s published, but failed to mark outbox %d as PROCESSED: %w", event.StripeID, message.ID, err)
	}

	logger.Info("Payout event published and outbox message marked as PROCESSED",
		"outbox_id", message.ID,
		"stripe_id", event.StripeID,
		"amount", event.Amount,
	)
	return nil
}
