package service

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/dto"
	"checkout-core/internal/metrics"
	"checkout-core/internal/model"
	"checkout-core/internal/repository"
	"context"
	"fmt"
	"strings"
)

// providerStatuses maps the normalized envelope statuses to ledger statuses.
var providerStatuses = map[string]string{
	"paid":            model.TxPaid,
	"succeeded":       model.TxPaid,
	"failed":          model.TxFailed,
	"requires_action": model.TxRequiresAction,
	"refunded":        model.TxRefunded,
}

type WebhookService interface {
	// HandleProviderEvent applies one provider callback. Replayed event ids
	// and repeated statuses are successful no-ops.
	HandleProviderEvent(ctx context.Context, providerCode string, event *dto.ProviderEvent) error
}

type webhookServiceImpl struct {
	eventRepo      repository.ProviderEventRepository
	paymentService PaymentService
	metrics        *metrics.Metrics
}

func NewWebhookService(eventRepo repository.ProviderEventRepository, paymentService PaymentService, m *metrics.Metrics) WebhookService {
	return &webhookServiceImpl{
		eventRepo:      eventRepo,
		paymentService: paymentService,
		metrics:        m,
	}
}

func (s *webhookServiceImpl) HandleProviderEvent(ctx context.Context, providerCode string, event *dto.ProviderEvent) error {
	providerCode = strings.ToUpper(providerCode)

	if event.EventID == "" || event.PaymentID == "" {
		s.metrics.ObserveWebhook(providerCode, "invalid")
		return apperr.Validation("event_id and payment_id are required")
	}

	status, ok := providerStatuses[strings.ToLower(event.Status)]
	if !ok {
		s.metrics.ObserveWebhook(providerCode, "invalid")
		return apperr.Validation(fmt.Sprintf("unknown payment status %q", event.Status))
	}

	seen, err := s.eventRepo.Exists(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("check event replay: %w", err)
	}
	if seen {
		s.metrics.ObserveWebhook(providerCode, "replay")
		return nil
	}

	applied, err := s.paymentService.Reconcile(ctx, providerCode, event.PaymentID, status)
	if err != nil {
		s.metrics.ObserveWebhook(providerCode, "rejected")
		return err
	}

	if err := s.eventRepo.MarkProcessed(ctx, event.EventID, providerCode, event.EventType); err != nil {
		// The transition already landed; a replay of this event id would be
		// absorbed by the status check anyway.
		return fmt.Errorf("mark event processed: %w", err)
	}

	if applied {
		s.metrics.ObserveWebhook(providerCode, "applied")
	} else {
		s.metrics.ObserveWebhook(providerCode, "noop")
	}

	return nil
}
