package service

import (
	"checkout-core/internal/model"
	"checkout-core/internal/repository"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type TaxService interface {
	ItemTax(ctx context.Context, storeID string, addr model.Address, taxableAmount int64) (int64, error)
	ShippingTax(ctx context.Context, storeID string, addr model.Address, shippingAmount int64) (int64, error)
}

type taxServiceImpl struct {
	taxRuleRepo repository.TaxRuleRepository
}

func NewTaxService(taxRuleRepo repository.TaxRuleRepository) TaxService {
	return &taxServiceImpl{
		taxRuleRepo: taxRuleRepo,
	}
}

func (s *taxServiceImpl) ItemTax(ctx context.Context, storeID string, addr model.Address, taxableAmount int64) (int64, error) {
	return s.tax(ctx, storeID, addr, taxableAmount, false)
}

func (s *taxServiceImpl) ShippingTax(ctx context.Context, storeID string, addr model.Address, shippingAmount int64) (int64, error) {
	return s.tax(ctx, storeID, addr, shippingAmount, true)
}

// Matching rules are additive: their rates sum into one effective rate. No
// matching rules means zero tax.
func (s *taxServiceImpl) tax(ctx context.Context, storeID string, addr model.Address, base int64, shipping bool) (int64, error) {
	if base <= 0 {
		return 0, nil
	}

	rules, err := s.taxRuleRepo.FindEnabled(ctx, storeID, shipping)
	if err != nil {
		return 0, fmt.Errorf("load tax rules: %w", err)
	}

	effectiveRate := decimal.Zero
	for _, rule := range rules {
		if !ruleMatchesAddress(rule.Country, rule.Region, addr) {
			continue
		}
		effectiveRate = effectiveRate.Add(rule.RatePercent)
	}

	if effectiveRate.IsZero() {
		return 0, nil
	}

	amount := decimal.NewFromInt(base).
		Mul(effectiveRate).
		Div(decimal.NewFromInt(100)).
		Round(0).IntPart()

	return amount, nil
}

// An empty country/region filter matches any address; a set filter must match
// exactly (case-insensitive).
func ruleMatchesAddress(country, region string, addr model.Address) bool {
	if country != "" && !strings.EqualFold(country, addr.Country) {
		return false
	}
	if region != "" && !strings.EqualFold(region, addr.Region) {
		return false
	}
	return true
}
