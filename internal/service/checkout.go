package service

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/dto"
	"checkout-core/internal/events"
	"checkout-core/internal/gateway"
	"checkout-core/internal/metrics"
	"checkout-core/internal/model"
	"checkout-core/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckoutService interface {
	Checkout(ctx context.Context, storeID, userID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	// PaymentMethods lists the store's enabled, registered gateways with
	// their client-safe config only.
	PaymentMethods(ctx context.Context, storeID string) ([]*dto.PaymentMethodInfo, error)
}

type checkoutServiceImpl struct {
	db              *gorm.DB
	registry        *gateway.Registry
	cartRepo        repository.CartRepository
	orderRepo       repository.OrderRepository
	configRepo      repository.PaymentConfigRepository
	currencyRepo    repository.CurrencyRepository
	couponService   CouponService
	taxService      TaxService
	shippingService ShippingService
	paymentService  PaymentService
	publisher       events.Publisher
	metrics         *metrics.Metrics
}

func NewCheckoutService(
	db *gorm.DB,
	registry *gateway.Registry,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	configRepo repository.PaymentConfigRepository,
	currencyRepo repository.CurrencyRepository,
	couponService CouponService,
	taxService TaxService,
	shippingService ShippingService,
	paymentService PaymentService,
	publisher events.Publisher,
	m *metrics.Metrics,
) CheckoutService {
	return &checkoutServiceImpl{
		db:              db,
		registry:        registry,
		cartRepo:        cartRepo,
		orderRepo:       orderRepo,
		configRepo:      configRepo,
		currencyRepo:    currencyRepo,
		couponService:   couponService,
		taxService:      taxService,
		shippingService: shippingService,
		paymentService:  paymentService,
		publisher:       publisher,
		metrics:         m,
	}
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, storeID, userID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	start := time.Now()
	resp, err := s.checkout(ctx, storeID, userID, req)
	s.metrics.ObserveCheckout(err, time.Since(start))
	return resp, err
}

func (s *checkoutServiceImpl) checkout(ctx context.Context, storeID, userID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if req.PaymentMethod == "" {
		return nil, apperr.Validation("paymentMethod is required")
	}

	// Resolve the gateway up front: an unsupported code must fail before any
	// money-affecting work.
	adapter, err := s.registry.Require(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if _, err := s.currencyRepo.FindByID(ctx, req.CurrencyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("unknown currency")
		}
		return nil, fmt.Errorf("load currency: %w", err)
	}

	// Step 1: the active cart is the unit of work.
	cart, err := s.cartRepo.FindActive(ctx, storeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.BusinessRule(apperr.CodeEmptyCart, "cart is empty")
		}
		return nil, fmt.Errorf("load active cart: %w", err)
	}
	lines, err := s.cartRepo.GetItems(ctx, s.db, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, apperr.BusinessRule(apperr.CodeEmptyCart, "cart is empty")
	}

	// Step 2: subtotal from add-time snapshots, never the live catalog.
	subtotal := linesSubtotal(lines)

	// Step 3: coupon. Validate first, then atomically reserve a use. From the
	// moment Consume succeeds, every failure path below must Release.
	var coupon *model.Coupon
	var discount int64
	if req.CouponCode != "" {
		coupon, err = s.couponService.Validate(ctx, storeID, req.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
		consumed, err := s.couponService.Consume(ctx, storeID, req.CouponCode)
		if err != nil {
			return nil, fmt.Errorf("consume coupon: %w", err)
		}
		if !consumed {
			return nil, apperr.BusinessRule(apperr.CodeCouponExhausted, "coupon usage limit reached")
		}
		discount = s.couponService.Discount(coupon, subtotal)
	}

	resp, err := s.settle(ctx, storeID, userID, req, adapter, cart, lines, subtotal, coupon, discount)
	if err != nil && coupon != nil {
		// Compensation: give the reserved use back. Not optional cleanup,
		// part of the checkout contract.
		if releaseErr := s.couponService.Release(ctx, storeID, req.CouponCode); releaseErr != nil {
			log.Printf("anomaly: failed to release coupon %s after checkout failure: %v", req.CouponCode, releaseErr)
		}
	}

	return resp, err
}

func (s *checkoutServiceImpl) settle(
	ctx context.Context,
	storeID, userID string,
	req *dto.CheckoutRequest,
	adapter gateway.Adapter,
	cart *model.Cart,
	lines []*model.CartItem,
	subtotal int64,
	coupon *model.Coupon,
	discount int64,
) (*dto.CheckoutResponse, error) {
	// Step 4: shipping quote; a FREE_SHIPPING coupon zeroes it regardless.
	quote, err := s.shippingService.Quote(ctx, storeID, req.ShippingAddress, lines)
	if err != nil {
		return nil, err
	}
	shipping := quote.Amount
	if coupon != nil && coupon.DiscountType == model.DiscountFreeShipping {
		shipping = 0
	}

	// Step 5: taxes. Shipping tax is computed on the post-coupon shipping
	// amount, so waived shipping is taxed at zero.
	itemTax, err := s.taxService.ItemTax(ctx, storeID, req.ShippingAddress, subtotal-discount)
	if err != nil {
		return nil, err
	}
	shippingTax, err := s.taxService.ShippingTax(ctx, storeID, req.ShippingAddress, shipping)
	if err != nil {
		return nil, err
	}

	// Step 6: grand total.
	total := subtotal - discount + shipping + itemTax + shippingTax
	if total <= 0 {
		return nil, apperr.BusinessRule(apperr.CodeInvalidTotal, "order total must be positive")
	}

	// Step 7: the provider call sits outside the database transaction; it
	// cannot be rolled back, only compensated.
	storeConfig, err := s.configRepo.GetEnabled(ctx, storeID, adapter.Code())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.GatewayNotConfigured(adapter.Code())
		}
		return nil, fmt.Errorf("load payment config: %w", err)
	}
	providerConfig, err := gateway.ParseConfig(storeConfig.Config)
	if err != nil {
		return nil, apperr.GatewayNotConfigured(adapter.Code()).WithCause(err)
	}

	orderID := uuid.NewString()
	payment, err := adapter.CreatePayment(ctx, &gateway.CreatePaymentCommand{
		OrderID:    orderID,
		StoreID:    storeID,
		UserID:     userID,
		Amount:     total,
		CurrencyID: req.CurrencyID,
	}, providerConfig)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:               orderID,
		StoreID:          storeID,
		UserID:           userID,
		Status:           model.OrderPending,
		CurrencyID:       req.CurrencyID,
		Subtotal:         subtotal,
		Discount:         discount,
		Shipping:         shipping,
		ItemTax:          itemTax,
		ShippingTax:      shippingTax,
		Total:            total,
		ShippingMethodID: quote.MethodID,
		ShipCountry:      req.ShippingAddress.Country,
		ShipRegion:       req.ShippingAddress.Region,
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}

	var providerPaymentID *string
	if payment.ProviderPaymentID != "" {
		providerPaymentID = &payment.ProviderPaymentID
	}
	transaction := NewPaymentTransaction(orderID, adapter.Code(), providerPaymentID, total, payment.InitialStatus)

	// Step 8: one all-or-nothing unit of work.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		orderItems := make([]*model.OrderItem, len(lines))
		for i, line := range lines {
			orderItems[i] = &model.OrderItem{
				OrderID:    orderID,
				ItemID:     line.ItemID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				CurrencyID: line.CurrencyID,
			}
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		if err := s.paymentService.RecordAttempt(ctx, tx, transaction); err != nil {
			return fmt.Errorf("store payment transaction: %w", err)
		}

		converted, err := s.cartRepo.MarkConverted(ctx, tx, cart.ID)
		if err != nil {
			return fmt.Errorf("convert cart: %w", err)
		}
		if !converted {
			// Another checkout for the same cart won the race.
			return apperr.BusinessRule(apperr.CodeConflict, "cart was already checked out")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishOrderCreated(ctx, order)

	return &dto.CheckoutResponse{
		OrderID:       orderID,
		TransactionID: transaction.ID,
		Status:        transaction.Status,
		Total:         total,
		ClientSecret:  payment.ClientSecret,
	}, nil
}

// publishOrderCreated is best-effort: downstream consumers catch up from the
// store of record if the broker is down.
func (s *checkoutServiceImpl) publishOrderCreated(ctx context.Context, order *model.Order) {
	err := s.publisher.OrderCreated(ctx, &events.OrderCreated{
		OrderID:    order.ID,
		StoreID:    order.StoreID,
		UserID:     order.UserID,
		CurrencyID: order.CurrencyID,
		Total:      order.Total,
	})
	if err != nil {
		log.Printf("publish order.created for %s: %v", order.ID, err)
	}
}

func (s *checkoutServiceImpl) PaymentMethods(ctx context.Context, storeID string) ([]*dto.PaymentMethodInfo, error) {
	configs, err := s.configRepo.ListEnabled(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list payment configs: %w", err)
	}

	methods := make([]*dto.PaymentMethodInfo, 0, len(configs))
	for _, cfg := range configs {
		adapter, err := s.registry.Require(cfg.ProviderCode)
		if err != nil {
			// Configured but not registered on this deployment; skip.
			continue
		}
		providerConfig, err := gateway.ParseConfig(cfg.Config)
		if err != nil {
			log.Printf("anomaly: unreadable payment config for store %s provider %s: %v", storeID, cfg.ProviderCode, err)
			continue
		}
		methods = append(methods, &dto.PaymentMethodInfo{
			Code:        adapter.Code(),
			DisplayName: adapter.DisplayName(),
			Config:      adapter.PublicCheckoutConfig(providerConfig),
		})
	}

	return methods, nil
}
