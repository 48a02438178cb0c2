package gateway

import (
	"checkout-core/internal/model"
	"context"
)

const CodCode = "COD"

// codAdapter handles cash on delivery. No provider is involved: the
// transaction starts OFFLINE_PENDING and the store owner marks it paid once
// the cash is in hand.
type codAdapter struct{}

func NewCodAdapter() Adapter {
	return &codAdapter{}
}

func (a *codAdapter) Code() string        { return CodCode }
func (a *codAdapter) DisplayName() string { return "Cash on Delivery" }

func (a *codAdapter) ConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "instructions", Label: "Instructions shown to the buyer"},
	}
}

func (a *codAdapter) PublicCheckoutConfig(cfg map[string]string) map[string]string {
	return map[string]string{
		"instructions": cfg["instructions"],
	}
}

func (a *codAdapter) CreatePayment(ctx context.Context, cmd *CreatePaymentCommand, cfg map[string]string) (*CreatePaymentResult, error) {
	return &CreatePaymentResult{
		InitialStatus: model.TxOfflinePending,
	}, nil
}
