package gateway

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/client"
	"checkout-core/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"
)

const CardCode = "CARD"

// cardAdapter collects money through the hosted card provider. The store's
// secret key authenticates the intent call; the publishable key and the
// intent's client secret go back to the buyer's client.
type cardAdapter struct {
	cardClient client.CardClient
}

func NewCardAdapter(cardClient client.CardClient) Adapter {
	return &cardAdapter{cardClient: cardClient}
}

func (a *cardAdapter) Code() string        { return CardCode }
func (a *cardAdapter) DisplayName() string { return "Credit / Debit Card" }

func (a *cardAdapter) ConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "secret_key", Label: "Secret key", Secret: true, Required: true},
		{Name: "publishable_key", Label: "Publishable key", Required: true},
		{Name: "webhook_secret", Label: "Webhook signing secret", Secret: true},
		{Name: "fee_percent", Label: "Processing fee percent"},
	}
}

func (a *cardAdapter) PublicCheckoutConfig(cfg map[string]string) map[string]string {
	return map[string]string{
		"publishable_key": cfg["publishable_key"],
	}
}

func (a *cardAdapter) CreatePayment(ctx context.Context, cmd *CreatePaymentCommand, cfg map[string]string) (*CreatePaymentResult, error) {
	secretKey := cfg["secret_key"]
	if secretKey == "" {
		return nil, apperr.GatewayNotConfigured(CardCode)
	}

	resp, err := a.cardClient.CreateIntent(ctx, secretKey, &client.CreateIntentRequest{
		Amount:      cmd.Amount,
		Currency:    strings.ToLower(cmd.CurrencyID),
		Description: fmt.Sprintf("order %s", cmd.OrderID),
		ReferenceID: cmd.OrderID,
	})
	if err != nil {
		if errors.Is(err, client.ErrBadCredentials) {
			return nil, apperr.GatewayNotConfigured(CardCode).WithCause(err)
		}
		return nil, apperr.ProviderUnavailable(err)
	}

	status := model.TxCreated
	if resp.Status == "requires_action" {
		status = model.TxRequiresAction
	}

	return &CreatePaymentResult{
		ProviderPaymentID: resp.IntentID,
		ClientSecret:      resp.ClientSecret,
		InitialStatus:     status,
	}, nil
}
