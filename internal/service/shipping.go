package service

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/model"
	"checkout-core/internal/repository"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type ShippingQuote struct {
	MethodID string `json:"method_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Amount   int64  `json:"amount"`
}

type ShippingService interface {
	// Quote returns the cheapest available method for the destination, ties
	// broken by lowest method id. A store with no shipping methods at all
	// ships for free (digital stores); methods that exist but none matching
	// the address is NO_SHIPPING_METHOD.
	Quote(ctx context.Context, storeID string, addr model.Address, lines []*model.CartItem) (*ShippingQuote, error)
	AvailableMethods(ctx context.Context, storeID string, addr model.Address, lines []*model.CartItem) ([]*ShippingQuote, error)
}

type shippingServiceImpl struct {
	methodRepo repository.ShippingMethodRepository
}

func NewShippingService(methodRepo repository.ShippingMethodRepository) ShippingService {
	return &shippingServiceImpl{
		methodRepo: methodRepo,
	}
}

func (s *shippingServiceImpl) Quote(ctx context.Context, storeID string, addr model.Address, lines []*model.CartItem) (*ShippingQuote, error) {
	methods, err := s.methodRepo.FindEnabled(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("load shipping methods: %w", err)
	}
	if len(methods) == 0 {
		return &ShippingQuote{Type: model.ShippingFree}, nil
	}

	quotes := buildQuotes(methods, addr, lines)
	if len(quotes) == 0 {
		return nil, apperr.BusinessRule(apperr.CodeNoShippingMethod, "no shipping method is available for this address")
	}

	cheapest := quotes[0]
	for _, quote := range quotes[1:] {
		if quote.Amount < cheapest.Amount {
			cheapest = quote
		}
	}

	return cheapest, nil
}

func (s *shippingServiceImpl) AvailableMethods(ctx context.Context, storeID string, addr model.Address, lines []*model.CartItem) ([]*ShippingQuote, error) {
	methods, err := s.methodRepo.FindEnabled(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("load shipping methods: %w", err)
	}

	return buildQuotes(methods, addr, lines), nil
}

// Methods whose address filter does not match are excluded from the candidate
// list entirely, not priced at infinity.
func buildQuotes(methods []*model.ShippingMethod, addr model.Address, lines []*model.CartItem) []*ShippingQuote {
	quotes := make([]*ShippingQuote, 0, len(methods))
	for _, method := range methods {
		if !ruleMatchesAddress(method.Country, method.Region, addr) {
			continue
		}
		quotes = append(quotes, &ShippingQuote{
			MethodID: method.ID,
			Name:     method.Name,
			Type:     method.Type,
			Amount:   priceMethod(method, lines),
		})
	}

	return quotes
}

func priceMethod(method *model.ShippingMethod, lines []*model.CartItem) int64 {
	switch method.Type {
	case model.ShippingFree, model.ShippingLocalPickup:
		return 0

	case model.ShippingFlatRate, model.ShippingPriceBased:
		return method.FlatRate

	case model.ShippingWeightBased, model.ShippingPricePerKg:
		return weightPrice(method.PricePerKg, lines)

	case model.ShippingFreeOverThreshold:
		if method.FreeShippingThreshold != nil && linesSubtotal(lines) >= *method.FreeShippingThreshold {
			return 0
		}
		if method.FlatRate > 0 {
			return method.FlatRate
		}
		return weightPrice(method.PricePerKg, lines)

	default:
		return method.FlatRate
	}
}

func weightPrice(pricePerKg int64, lines []*model.CartItem) int64 {
	totalWeight := decimal.Zero
	for _, line := range lines {
		totalWeight = totalWeight.Add(line.WeightKg.Mul(decimal.NewFromInt32(line.Quantity)))
	}

	return decimal.NewFromInt(pricePerKg).Mul(totalWeight).Round(0).IntPart()
}

func linesSubtotal(lines []*model.CartItem) int64 {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPrice * int64(line.Quantity)
	}
	return subtotal
}
