package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// All monetary amounts are stored in minor units (cents).

type Store struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	Name      string `gorm:"size:128;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Currency struct {
	ID     string `gorm:"primaryKey;size:16;not null"` // ISO code, e.g. USD
	Symbol string `gorm:"size:8;not null"`
}

type CatalogItem struct {
	ID         string          `gorm:"primaryKey;size:64;not null"` // item sku
	StoreID    string          `gorm:"size:64;index;not null"`
	Name       string          `gorm:"size:128;not null"`
	Price      int64           `gorm:"not null"`
	CurrencyID string          `gorm:"size:16;not null"`
	WeightKg   decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	// No default tag on the flag columns: gorm omits zero-valued fields that
	// carry one, which would silently store false as true.
	Available bool `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Cart struct {
	ID      string `gorm:"primaryKey;size:64;not null"`
	StoreID string `gorm:"size:64;index:idx_cart_owner;uniqueIndex:idx_one_active_cart;not null"`
	UserID  string `gorm:"size:64;index:idx_cart_owner;not null"`
	Status  string `gorm:"size:32;index;not null"` // ACTIVE, CONVERTED, ABANDONED, EXPIRED
	// ActiveOwner mirrors UserID while the cart is ACTIVE and is nulled on
	// conversion. The unique index on (store_id, active_owner) admits one
	// ACTIVE cart per buyer without constraining historical carts.
	ActiveOwner *string `gorm:"size:64;uniqueIndex:idx_one_active_cart"`
	Total       int64   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

type CartItem struct {
	ID     string `gorm:"primaryKey;size:64;not null"`
	CartID string `gorm:"size:64;uniqueIndex:idx_cart_line;not null"`
	ItemID string `gorm:"size:64;uniqueIndex:idx_cart_line;not null"`
	// Snapshots taken at add-to-cart time; never re-read from the catalog.
	UnitPrice  int64           `gorm:"not null"`
	CurrencyID string          `gorm:"size:16;not null"`
	WeightKg   decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Quantity   int32           `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Coupon struct {
	ID           string          `gorm:"primaryKey;size:64;not null"`
	StoreID      string          `gorm:"size:64;uniqueIndex:idx_store_code;not null"`
	Code         string          `gorm:"size:64;uniqueIndex:idx_store_code;not null"`
	DiscountType string          `gorm:"size:32;not null"`            // PERCENT, FIXED, FREE_SHIPPING
	Value        decimal.Decimal `gorm:"type:decimal(20,2);not null"` // percent for PERCENT, cents for FIXED

	MinOrderAmount    *int64
	MaxDiscountAmount *int64
	GlobalUsageLimit  *int32
	UsedCount         int32 `gorm:"not null;default:0"`

	ValidFrom *time.Time
	ValidTo   *time.Time
	Active    bool `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TaxRule struct {
	ID                string          `gorm:"primaryKey;size:64;not null"`
	StoreID           string          `gorm:"size:64;index;not null"`
	Name              string          `gorm:"size:128;not null"`
	RatePercent       decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	AppliesToShipping bool            `gorm:"not null;default:false"`
	Country           string          `gorm:"size:8"`  // empty matches any
	Region            string          `gorm:"size:64"` // empty matches any
	Enabled           bool            `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type ShippingMethod struct {
	ID      string `gorm:"primaryKey;size:64;not null"`
	StoreID string `gorm:"size:64;index;not null"`
	Name    string `gorm:"size:128;not null"`
	// FLAT_RATE, FREE, WEIGHT_BASED, PRICE_BASED, PRICE_PER_KG, LOCAL_PICKUP, FREE_OVER_THRESHOLD
	Type                  string `gorm:"size:32;not null"`
	FlatRate              int64  `gorm:"not null;default:0"`
	PricePerKg            int64  `gorm:"not null;default:0"`
	FreeShippingThreshold *int64
	Country               string `gorm:"size:8"`
	Region                string `gorm:"size:64"`
	Enabled               bool   `gorm:"not null"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// PaymentMethodConfig is the per-store configuration of one provider. Config is
// a JSON blob holding the fields declared by the adapter's schema, secrets
// included; only the adapter decides what is safe to expose to a client.
type PaymentMethodConfig struct {
	StoreID      string `gorm:"primaryKey;size:64;not null"`
	ProviderCode string `gorm:"primaryKey;size:32;not null"`
	Config       string `gorm:"type:text;not null"`
	Enabled      bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Order struct {
	ID         string `gorm:"primaryKey;size:64;not null"`
	StoreID    string `gorm:"size:64;index;not null"`
	UserID     string `gorm:"size:64;index;not null"`
	Status     string `gorm:"size:32;index;not null"` // PENDING, PAID
	CurrencyID string `gorm:"size:16;not null"`

	Subtotal    int64 `gorm:"not null"`
	Discount    int64 `gorm:"not null"`
	Shipping    int64 `gorm:"not null"`
	ItemTax     int64 `gorm:"not null"`
	ShippingTax int64 `gorm:"not null"`
	Total       int64 `gorm:"not null"`

	CouponCode       string `gorm:"size:64"`
	ShippingMethodID string `gorm:"size:64"`
	ShipCountry      string `gorm:"size:8"`
	ShipRegion       string `gorm:"size:64"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID         uint   `gorm:"primaryKey"`
	OrderID    string `gorm:"size:64;index;not null"`
	ItemID     string `gorm:"size:64;index;not null"`
	Quantity   int32  `gorm:"not null"`
	UnitPrice  int64  `gorm:"not null"`
	CurrencyID string `gorm:"size:16;not null"`
	CreatedAt  time.Time
}

// PaymentTransaction is one attempt to collect money for an order. The sum of
// PAID rows for an order is the authoritative amount collected.
type PaymentTransaction struct {
	ID                string  `gorm:"primaryKey;size:64;not null"`
	OrderID           string  `gorm:"size:64;index;not null"`
	ProviderCode      string  `gorm:"size:32;index:idx_provider_payment;not null"`
	ProviderPaymentID *string `gorm:"size:128;index:idx_provider_payment"`
	Amount            int64   `gorm:"not null"`
	Status            string  `gorm:"size:32;index;not null"`
	ManualActorID     *string `gorm:"size:64"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProviderEvent records processed webhook event ids so replays are no-ops.
type ProviderEvent struct {
	EventID      string `gorm:"primaryKey;size:128;not null"`
	ProviderCode string `gorm:"size:32;index;not null"`
	EventType    string `gorm:"size:64"`
	ProcessedAt  time.Time
	CreatedAt    time.Time
}
