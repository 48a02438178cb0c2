package service

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/dto"
	"checkout-core/internal/metrics"
	"checkout-core/internal/model"
	"checkout-core/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newWebhookService(db *gorm.DB) WebhookService {
	return NewWebhookService(repository.NewProviderEventRepository(db), newPaymentService(db), metrics.New())
}

func TestWebhookAppliesPaidEvent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newWebhookService(db)

	order := seedOrder(t, db, "s1", 4100)
	seedTransaction(t, db, order.ID, "CARD", "pi_123", model.TxCreated, 4100)

	err := svc.HandleProviderEvent(ctx, "card", &dto.ProviderEvent{
		EventID: "evt_1", EventType: "payment.updated", PaymentID: "pi_123", Status: "succeeded",
	})
	require.NoError(t, err)

	var transaction model.PaymentTransaction
	require.NoError(t, db.Where("provider_payment_id = ?", "pi_123").First(&transaction).Error)
	assert.Equal(t, model.TxPaid, transaction.Status)

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, model.OrderPaid, reloaded.Status)
}

func TestWebhookReplayIsNoop(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newWebhookService(db)

	order := seedOrder(t, db, "s1", 4100)
	seedTransaction(t, db, order.ID, "CARD", "pi_123", model.TxCreated, 4100)

	event := &dto.ProviderEvent{EventID: "evt_1", PaymentID: "pi_123", Status: "paid"}
	require.NoError(t, svc.HandleProviderEvent(ctx, "CARD", event))

	// Same event id again, even with a different status: absorbed.
	replay := &dto.ProviderEvent{EventID: "evt_1", PaymentID: "pi_123", Status: "refunded"}
	require.NoError(t, svc.HandleProviderEvent(ctx, "CARD", replay))

	var transaction model.PaymentTransaction
	require.NoError(t, db.Where("provider_payment_id = ?", "pi_123").First(&transaction).Error)
	assert.Equal(t, model.TxPaid, transaction.Status)
}

func TestWebhookRejectsBadEnvelope(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newWebhookService(db)

	t.Run("missing event id", func(t *testing.T) {
		err := svc.HandleProviderEvent(ctx, "CARD", &dto.ProviderEvent{PaymentID: "pi_1", Status: "paid"})
		assert.True(t, apperr.Is(err, apperr.CodeValidation))
	})

	t.Run("missing payment id", func(t *testing.T) {
		err := svc.HandleProviderEvent(ctx, "CARD", &dto.ProviderEvent{EventID: "evt_1", Status: "paid"})
		assert.True(t, apperr.Is(err, apperr.CodeValidation))
	})

	t.Run("unknown status", func(t *testing.T) {
		err := svc.HandleProviderEvent(ctx, "CARD", &dto.ProviderEvent{EventID: "evt_1", PaymentID: "pi_1", Status: "teleported"})
		assert.True(t, apperr.Is(err, apperr.CodeValidation))
	})
}

func TestWebhookRejectedTransitionLeavesEventUnprocessed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newWebhookService(db)

	order := seedOrder(t, db, "s1", 4100)
	seedTransaction(t, db, order.ID, "CARD", "pi_123", model.TxFailed, 4100)

	err := svc.HandleProviderEvent(ctx, "CARD", &dto.ProviderEvent{
		EventID: "evt_1", PaymentID: "pi_123", Status: "paid",
	})
	assert.True(t, apperr.Is(err, apperr.CodeIllegalTransition))

	// The event was not consumed, so a corrected delivery can still land.
	var count int64
	require.NoError(t, db.Model(&model.ProviderEvent{}).Where("event_id = ?", "evt_1").Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestWebhookRepeatedStatusIsNoop(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newWebhookService(db)

	order := seedOrder(t, db, "s1", 4100)
	seedTransaction(t, db, order.ID, "CARD", "pi_123", model.TxPaid, 4100)

	// Fresh event id, but the ledger already holds this status.
	err := svc.HandleProviderEvent(ctx, "CARD", &dto.ProviderEvent{
		EventID: "evt_2", PaymentID: "pi_123", Status: "paid",
	})
	require.NoError(t, err)
}
