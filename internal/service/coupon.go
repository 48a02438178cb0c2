package service

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/model"
	"checkout-core/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CouponService interface {
	// Validate checks existence, active flag, validity window and order
	// minimum. It deliberately does NOT check the usage limit: that check
	// lives inside Consume, where it is atomic.
	Validate(ctx context.Context, storeID, code string, itemsSubtotal int64) (*model.Coupon, error)
	Consume(ctx context.Context, storeID, code string) (bool, error)
	Release(ctx context.Context, storeID, code string) error
	Discount(coupon *model.Coupon, itemsSubtotal int64) int64
}

type couponServiceImpl struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
}

func NewCouponService(couponRepo repository.CouponRepository) CouponService {
	return &couponServiceImpl{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

func (s *couponServiceImpl) Validate(ctx context.Context, storeID, code string, itemsSubtotal int64) (*model.Coupon, error) {
	if code == "" {
		return nil, apperr.Validation("coupon code must not be blank")
	}

	coupon, err := s.couponRepo.FindByCode(ctx, storeID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeCouponNotFound, "coupon not found")
		}
		return nil, fmt.Errorf("load coupon: %w", err)
	}

	if !coupon.Active {
		return nil, apperr.BusinessRule(apperr.CodeCouponInactive, "coupon is not active")
	}

	now := s.now()
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return nil, apperr.BusinessRule(apperr.CodeCouponExpired, "coupon is not valid yet")
	}
	if coupon.ValidTo != nil && now.After(*coupon.ValidTo) {
		return nil, apperr.BusinessRule(apperr.CodeCouponExpired, "coupon has expired")
	}

	if coupon.MinOrderAmount != nil && itemsSubtotal < *coupon.MinOrderAmount {
		return nil, apperr.BusinessRule(apperr.CodeCouponBelowMinimum, "order subtotal is below the coupon minimum")
	}

	return coupon, nil
}

func (s *couponServiceImpl) Consume(ctx context.Context, storeID, code string) (bool, error) {
	return s.couponRepo.Consume(ctx, storeID, code)
}

func (s *couponServiceImpl) Release(ctx context.Context, storeID, code string) error {
	return s.couponRepo.Release(ctx, storeID, code)
}

// Discount returns the item discount in cents. FREE_SHIPPING yields zero here;
// the orchestrator waives shipping instead.
func (s *couponServiceImpl) Discount(coupon *model.Coupon, itemsSubtotal int64) int64 {
	switch coupon.DiscountType {
	case model.DiscountPercent:
		amount := decimal.NewFromInt(itemsSubtotal).
			Mul(coupon.Value).
			Div(decimal.NewFromInt(100)).
			Round(0).IntPart()
		if coupon.MaxDiscountAmount != nil && amount > *coupon.MaxDiscountAmount {
			amount = *coupon.MaxDiscountAmount
		}
		if amount > itemsSubtotal {
			amount = itemsSubtotal
		}
		return amount

	case model.DiscountFixed:
		amount := coupon.Value.Round(0).IntPart()
		if amount > itemsSubtotal {
			amount = itemsSubtotal
		}
		return amount

	default:
		return 0
	}
}
