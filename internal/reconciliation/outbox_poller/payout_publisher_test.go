package outbox_poller

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/domain/outbox"
	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testOutboxMessage(t *testing.T, id int64) (*outbox.Message, *shared.PayoutCreatedEvent) {
	event := &shared.PayoutCreatedEvent{
		TransactionID: uuid.New(),
		StripeID:      "po_sim_202509_tutor_hub_001",
		AccountID:     uuid.New(),
		RunID:         uuid.New(),
		Amount:        9230,
		Currency:      "hkd",
		Sequence:      1,
		TriggeredAt:   time.Date(2025, time.September, 6, 10, 0, 0, 0, time.UTC),
		CorrelationID: "corr-1",
		CreatedAt:     time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC),
	}
	msg, err := outbox.NewMessage(event)
	require.NoError(t, err)
	msg.ID = id
	return msg, event
}

func TestPayoutPublisher_PublishPayout(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("PublishesAndMarksProcessed", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		producer := &MockMessagePublisher{}
		msg, event := testOutboxMessage(t, 1)

		producer.On("Publish", ctx, event.AccountID.String(), mock.MatchedBy(func(v interface{}) bool {
			published, ok := v.(*shared.PayoutCreatedEvent)
			return ok && published.StripeID == event.StripeID && published.Amount == 9230
		})).Return(nil).Once()
		outboxRepo.On("UpdateStatus", ctx, int64(1), shared.OutboxStatusProcessed).Return(nil).Once()

		err := NewPayoutPublisher(outboxRepo, producer, logger).PublishPayout(ctx, msg)
		require.NoError(t, err)
		producer.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("PublishErrorLeavesMessagePending", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		producer := &MockMessagePublisher{}
		msg, _ := testOutboxMessage(t, 2)

		producer.On("Publish", ctx, mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		err := NewPayoutPublisher(outboxRepo, producer, logger).PublishPayout(ctx, msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker down")
		outboxRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CorruptPayoutIsFailed", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		producer := &MockMessagePublisher{}
		msg := &outbox.Message{ID: 3, Payload: []byte("not json"), Status: shared.OutboxStatusPending}

		outboxRepo.On("UpdateStatus", ctx, int64(3), shared.OutboxStatusFailedToPublish).Return(nil).Once()

		err := NewPayoutPublisher(outboxRepo, producer, logger).PublishPayout(ctx, msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unmarshal payload for outbox 3")
		producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("StatusUpdateFailure", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		producer := &MockMessagePublisher{}
		msg, _ := testOutboxMessage(t, 4)

		producer.On("Publish", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		outboxRepo.On("UpdateStatus", ctx, int64(4), shared.OutboxStatusProcessed).Return(errors.New("db error")).Once()

		err := NewPayoutPublisher(outboxRepo, producer, logger).PublishPayout(ctx, msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to mark outbox 4 as PROCESSED")
	})
}
