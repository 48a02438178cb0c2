package gateway

import (
	"checkout-core/internal/apperr"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ConfigField describes one owner-facing configuration field of a provider.
// Secret fields must never leave the server through PublicCheckoutConfig.
type ConfigField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Secret   bool   `json:"secret"`
	Required bool   `json:"required"`
}

// CreatePaymentCommand carries everything an adapter needs to open a payment
// on the provider side.
type CreatePaymentCommand struct {
	OrderID    string
	StoreID    string
	UserID     string
	Amount     int64
	CurrencyID string
}

// CreatePaymentResult reports the provider-side payment. ProviderPaymentID is
// empty for offline flows that never touch a provider. InitialStatus is one of
// the model.Tx* statuses.
type CreatePaymentResult struct {
	ProviderPaymentID string
	ClientSecret      string
	InitialStatus     string
}

// Adapter is the contract every payment provider integration satisfies. New
// providers are added by registering another Adapter; the orchestrator never
// changes.
type Adapter interface {
	Code() string
	DisplayName() string
	ConfigSchema() []ConfigField
	// PublicCheckoutConfig returns the subset of the store's config that is
	// safe to hand to a buyer's client.
	PublicCheckoutConfig(cfg map[string]string) map[string]string
	CreatePayment(ctx context.Context, cmd *CreatePaymentCommand, cfg map[string]string) (*CreatePaymentResult, error)
}

// Registry resolves provider codes to adapters. Built once at startup; a
// duplicate code is a fatal configuration error, never silently overwritten.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) (*Registry, error) {
	byCode := make(map[string]Adapter, len(adapters))
	for _, adapter := range adapters {
		code := strings.ToUpper(adapter.Code())
		if _, exists := byCode[code]; exists {
			return nil, fmt.Errorf("duplicate payment gateway code %q", code)
		}
		byCode[code] = adapter
	}

	return &Registry{adapters: byCode}, nil
}

func (r *Registry) Require(code string) (Adapter, error) {
	adapter, ok := r.adapters[strings.ToUpper(code)]
	if !ok {
		return nil, apperr.BadRequest(apperr.CodeUnsupportedGateway,
			fmt.Sprintf("payment method %q is not supported", code))
	}

	return adapter, nil
}

func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.adapters))
	for code := range r.adapters {
		codes = append(codes, code)
	}
	return codes
}

// ParseConfig decodes a store's stored configuration blob.
func ParseConfig(blob string) (map[string]string, error) {
	cfg := map[string]string{}
	if blob == "" {
		return cfg, nil
	}
	if err := json.Unmarshal([]byte(blob), &cfg); err != nil {
		return nil, fmt.Errorf("decode payment method config: %w", err)
	}
	return cfg, nil
}
