package client

import (
	"bytes"
	"checkout-core/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// CardClient talks to the card payment provider's HTTP API. Per-store
// credentials are passed per call; the platform only fixes the endpoint.
type CardClient interface {
	CreateIntent(ctx context.Context, secretKey string, req *CreateIntentRequest) (*CreateIntentResponse, error)
}

// ErrBadCredentials means the store's provider credentials were rejected.
// Callers must surface this as a store-configuration problem, not a retryable
// provider outage.
var ErrBadCredentials = errors.New("card provider rejected credentials")

type CreateIntentRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
	ReferenceID string `json:"reference_id,omitempty"`
}

type CreateIntentResponse struct {
	IntentID     string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"` // created, requires_action
}

type cardClientImpl struct {
	httpClient *http.Client
	baseApiURL string
}

func NewCardClient(cfg *config.CardProvider) CardClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &cardClientImpl{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseApiURL: cfg.BaseApiURL,
	}
}

func (c *cardClientImpl) CreateIntent(ctx context.Context, secretKey string, req *CreateIntentRequest) (*CreateIntentResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode intent request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/payment_intents", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build intent request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// network error or timeout
		return nil, fmt.Errorf("card provider request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrBadCredentials
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("card provider returned status %d", resp.StatusCode)
	}

	var result CreateIntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode intent response: %w", err)
	}
	if result.IntentID == "" {
		return nil, fmt.Errorf("card provider response missing intent id")
	}

	return &result, nil
}
