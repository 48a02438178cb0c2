package dto

import "checkout-core/internal/model"

type AddItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int32  `json:"quantity"`
}

type UpdateItemRequest struct {
	Quantity int32 `json:"quantity"`
}

type CartLine struct {
	CartItemID string `json:"cartItemId"`
	ItemID     string `json:"itemId"`
	Quantity   int32  `json:"quantity"`
	UnitPrice  int64  `json:"unitPrice"`
	CurrencyID string `json:"currencyId"`
	LineTotal  int64  `json:"lineTotal"`
}

type CartResponse struct {
	CartID string     `json:"cartId"`
	Status string     `json:"status"`
	Items  []CartLine `json:"items"`
	Total  int64      `json:"total"`
}

func NewCartResponse(cart *model.Cart) *CartResponse {
	resp := &CartResponse{
		CartID: cart.ID,
		Status: cart.Status,
		Items:  make([]CartLine, 0, len(cart.Items)),
		Total:  cart.Total,
	}
	for _, line := range cart.Items {
		resp.Items = append(resp.Items, CartLine{
			CartItemID: line.ID,
			ItemID:     line.ItemID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			CurrencyID: line.CurrencyID,
			LineTotal:  line.UnitPrice * int64(line.Quantity),
		})
	}
	return resp
}

type CheckoutRequest struct {
	PaymentMethod   string        `json:"paymentMethod"`
	CurrencyID      string        `json:"currencyId"`
	CouponCode      string        `json:"couponCode,omitempty"`
	ShippingAddress model.Address `json:"shippingAddress"`
}

type CheckoutResponse struct {
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	Total         int64  `json:"total"`
	// ClientSecret is set for providers that finish collection client-side.
	ClientSecret string `json:"clientSecret,omitempty"`
}

type PaymentMethodInfo struct {
	Code        string            `json:"code"`
	DisplayName string            `json:"displayName"`
	Config      map[string]string `json:"config"`
}

// ProviderEvent is the internal webhook envelope: the provider-facing
// collaborator maps each provider's payload into this before calling us.
type ProviderEvent struct {
	EventID   string `json:"event_id"`
	EventType string `json:"type"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

type ErrorResponse struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}
