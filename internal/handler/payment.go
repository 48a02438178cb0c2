package handler

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/dto"
	"checkout-core/internal/middleware"
	"checkout-core/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	webhookService service.WebhookService
}

func NewPaymentHandler(paymentService service.PaymentService, webhookService service.WebhookService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		webhookService: webhookService,
	}
}

// ProviderWebhook receives the normalized provider event envelope from the
// webhook-facing collaborator and feeds it into reconciliation.
func (h *PaymentHandler) ProviderWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	provider := c.Param("provider")

	var event dto.ProviderEvent
	if err := c.Bind(&event); err != nil {
		return apperr.Validation("invalid event payload")
	}

	if err := h.webhookService.HandleProviderEvent(ctx, provider, &event); err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}

// MarkPaid is the owner action for cash flows: the buyer handed over the
// money, the owner confirms it.
func (h *PaymentHandler) MarkPaid(c echo.Context) error {
	ctx := c.Request().Context()
	orderID := c.Param("orderID")

	err := h.paymentService.MarkPaidManually(ctx, middleware.StoreID(c), orderID, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PaymentHandler) AmountPaid(c echo.Context) error {
	ctx := c.Request().Context()
	orderID := c.Param("orderID")

	paid, err := h.paymentService.SumPaid(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]int64{"amountPaid": paid})
}
