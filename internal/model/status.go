package model

// Cart statuses.
const (
	CartActive    = "ACTIVE"
	CartConverted = "CONVERTED"
	CartAbandoned = "ABANDONED"
	CartExpired   = "EXPIRED"
)

// Coupon discount types.
const (
	DiscountPercent      = "PERCENT"
	DiscountFixed        = "FIXED"
	DiscountFreeShipping = "FREE_SHIPPING"
)

// Shipping method types.
const (
	ShippingFlatRate          = "FLAT_RATE"
	ShippingFree              = "FREE"
	ShippingWeightBased       = "WEIGHT_BASED"
	ShippingPriceBased        = "PRICE_BASED"
	ShippingPricePerKg        = "PRICE_PER_KG"
	ShippingLocalPickup       = "LOCAL_PICKUP"
	ShippingFreeOverThreshold = "FREE_OVER_THRESHOLD"
)

// Order statuses.
const (
	OrderPending = "PENDING"
	OrderPaid    = "PAID"
)

// Payment transaction statuses.
const (
	TxCreated        = "CREATED"
	TxRequiresAction = "REQUIRES_ACTION"
	TxPaid           = "PAID"
	TxFailed         = "FAILED"
	TxOfflinePending = "OFFLINE_PENDING"
	TxRefunded       = "REFUNDED"
)

// Address is the shipping destination used by the tax and shipping engines.
// Country/region are compared case-insensitively against rule filters.
type Address struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	Region     string `json:"region"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}
