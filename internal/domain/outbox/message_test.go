package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		event := &shared.PayoutCreatedEvent{
			TransactionID: uuid.New(),
			StripeID:      "po_sim_202509_tutor_hub_001",
			AccountID:     uuid.New(),
			RunID:         uuid.New(),
			Amount:        9230,
			Currency:      "hkd",
			Sequence:      1,
			TriggeredAt:   time.Date(2025, time.September, 6, 10, 0, 0, 0, time.UTC),
			CreatedAt:     time.Now().Add(-time.Minute),
		}

		beforeCreation := time.Now()
		msg, err := NewMessage(event)
		afterCreation := time.Now()

		require.NoError(t, err)
		require.NotNil(t, msg)

		assert.Equal(t, event.TransactionID, msg.TransactionID)
		assert.Equal(t, event.AccountID, msg.AccountID)
		assert.Equal(t, shared.OutboxStatusPending, msg.Status)
		assert.Equal(t, 0, msg.Attempts)
		assert.Nil(t, msg.LastAttemptAt)
		assert.WithinDuration(t, beforeCreation, msg.CreatedAt, afterCreation.Sub(beforeCreation)+time.Millisecond)

		// Check payload
		var decoded shared.PayoutCreatedEvent
		err = json.Unmarshal(msg.Payload, &decoded)
		require.NoError(t, err)
		assert.Equal(t, event.StripeID, decoded.StripeID)
		assert.Equal(t, event.Amount, decoded.Amount)
	})
}

func TestMessage_IncrementAttempts(t *testing.T) {
	t.Run("SuccessfulIncrement", func(t *testing.T) {
		initialTime := time.Now().Add(-time.Hour)
		msg := &Message{
			Attempts:      1,
			LastAttemptAt: &initialTime,
		}
		initialAttempts := msg.Attempts

		time.Sleep(10 * time.Millisecond) // Ensure time changes
		beforeUpdate := time.Now()
		msg.IncrementAttempts()
		afterUpdate := time.Now()

		assert.Equal(t, initialAttempts+1, msg.Attempts)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
		assert.WithinDuration(t, beforeUpdate, *msg.LastAttemptAt, afterUpdate.Sub(beforeUpdate)+time.Millisecond)
	})
}

func TestMessage_MarkAsProcessed(t *testing.T) {
	t.Run("SuccessfulMarkAsProcessed", func(t *testing.T) {
		initialTime := time.Now().Add(-time.Hour)
		msg := &Message{
			Status:        shared.OutboxStatusPending,
			LastAttemptAt: &initialTime,
		}
		time.Sleep(10 * time.Millisecond) // Ensure time changes
		beforeUpdate := time.Now()
		msg.MarkAsProcessed()
		afterUpdate := time.Now()

		assert.Equal(t, shared.OutboxStatusProcessed, msg.Status)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
		assert.WithinDuration(t, beforeUpdate, *msg.LastAttemptAt, afterUpdate.Sub(beforeUpdate)+time.Millisecond)
	})
}

func TestMessage_MarkAsFailed(t *testing.T) {
	t.Run("SuccessfulMarkAsFailed", func(t *testing.T) {
		initialTime := time.Now().Add(-time.Hour)
		msg := &Message{
			Status:        shared.OutboxStatusPending,
			LastAttemptAt: &initialTime,
		}
		time.Sleep(10 * time.Millisecond) // Ensure time changes
		beforeUpdate := time.Now()
		msg.MarkAsFailed()
		afterUpdate := time.Now()

		assert.Equal(t, shared.OutboxStatusFailedToPublish, msg.Status)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
		assert.WithinDuration(t, beforeUpdate, *msg.LastAttemptAt, afterUpdate.Sub(beforeUpdate)+time.Millisecond)
	})
}

func TestMessage_GetPayoutEvent(t *testing.T) {
	t.Run("SuccessfulGetPayoutEvent", func(t *testing.T) {
		original := &shared.PayoutCreatedEvent{
			TransactionID: uuid.New(),
			StripeID:      "po_sim_202509_cm_002",
			AccountID:     uuid.New(),
			Amount:        9232,
			Currency:      "hkd",
			Sequence:      2,
			TriggeredAt:   time.Date(2025, time.September, 11, 10, 0, 0, 0, time.UTC),
			CreatedAt:     time.Now().Truncate(time.Millisecond),
		}
		payload, err := json.Marshal(original)
		require.NoError(t, err)

		msg := &Message{Payload: payload}
		decoded, err := msg.GetPayoutEvent()

		require.NoError(t, err)
		require.NotNil(t, decoded)
		assert.Equal(t, original.TransactionID, decoded.TransactionID)
		assert.Equal(t, original.StripeID, decoded.StripeID)
		assert.Equal(t, original.Amount, decoded.Amount)
		assert.Equal(t, original.Sequence, decoded.Sequence)
		assert.True(t, original.TriggeredAt.Equal(decoded.TriggeredAt))
		assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt), "CreatedAt should match")
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		msg := &Message{Payload: []byte("{not json")}
		_, err := msg.GetPayoutEvent()
		assert.Error(t, err)
	})
}
