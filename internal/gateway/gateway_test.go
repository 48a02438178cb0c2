package gateway

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolvesCaseInsensitively(t *testing.T) {
	registry, err := NewRegistry(NewCodAdapter())
	require.NoError(t, err)

	for _, code := range []string{"COD", "cod", "Cod"} {
		adapter, err := registry.Require(code)
		require.NoError(t, err)
		assert.Equal(t, CodCode, adapter.Code())
	}
}

func TestRegistryRejectsUnknownCode(t *testing.T) {
	registry, err := NewRegistry(NewCodAdapter())
	require.NoError(t, err)

	_, err = registry.Require("CARRIER_PIGEON")
	assert.True(t, apperr.Is(err, apperr.CodeUnsupportedGateway))
}

func TestRegistryRejectsDuplicateCode(t *testing.T) {
	_, err := NewRegistry(NewCodAdapter(), NewCodAdapter())
	assert.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	t.Run("empty blob", func(t *testing.T) {
		cfg, err := ParseConfig("")
		require.NoError(t, err)
		assert.Empty(t, cfg)
	})

	t.Run("json blob", func(t *testing.T) {
		cfg, err := ParseConfig(`{"secret_key":"sk_1","publishable_key":"pk_1"}`)
		require.NoError(t, err)
		assert.Equal(t, "sk_1", cfg["secret_key"])
	})

	t.Run("garbage blob", func(t *testing.T) {
		_, err := ParseConfig("not json")
		assert.Error(t, err)
	})
}

func TestCodCreatePaymentIsOffline(t *testing.T) {
	adapter := NewCodAdapter()

	result, err := adapter.CreatePayment(context.Background(), &CreatePaymentCommand{
		OrderID: "o1", StoreID: "s1", Amount: 1000, CurrencyID: "USD",
	}, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, model.TxOfflinePending, result.InitialStatus)
	assert.Empty(t, result.ProviderPaymentID)
	assert.Empty(t, result.ClientSecret)
}

func TestPublicCheckoutConfigHidesSecrets(t *testing.T) {
	storeConfig := map[string]string{
		"secret_key":      "sk_live_1",
		"publishable_key": "pk_live_1",
		"webhook_secret":  "whsec_1",
	}

	public := NewCardAdapter(nil).PublicCheckoutConfig(storeConfig)
	assert.Equal(t, map[string]string{"publishable_key": "pk_live_1"}, public)
}
