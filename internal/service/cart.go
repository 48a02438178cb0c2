package service

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/model"
	"checkout-core/internal/repository"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartService interface {
	// GetCart returns the buyer's active cart, or an empty unsaved cart if
	// they have none yet.
	GetCart(ctx context.Context, storeID, userID string) (*model.Cart, error)
	AddItem(ctx context.Context, storeID, userID, itemID string, quantity int32) (*model.Cart, error)
	// UpdateItem sets a line's quantity; zero or negative removes the line.
	UpdateItem(ctx context.Context, storeID, userID, cartItemID string, quantity int32) (*model.Cart, error)
	RemoveItem(ctx context.Context, storeID, userID, cartItemID string) (*model.Cart, error)
}

type cartServiceImpl struct {
	db       *gorm.DB
	cartRepo repository.CartRepository
	itemRepo repository.CatalogItemRepository
}

func NewCartService(db *gorm.DB, cartRepo repository.CartRepository, itemRepo repository.CatalogItemRepository) CartService {
	return &cartServiceImpl{
		db:       db,
		cartRepo: cartRepo,
		itemRepo: itemRepo,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, storeID, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.FindActive(ctx, storeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.Cart{
				StoreID: storeID,
				UserID:  userID,
				Status:  model.CartActive,
				Items:   []model.CartItem{},
			}, nil
		}
		return nil, fmt.Errorf("load active cart: %w", err)
	}

	return cart, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, storeID, userID, itemID string, quantity int32) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	item, err := s.itemRepo.FindByID(ctx, storeID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeItemNotFound, "item not found")
		}
		return nil, fmt.Errorf("load catalog item: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.lockOrCreateCart(ctx, tx, storeID, userID)
		if err != nil {
			return err
		}

		line := &model.CartItem{
			ID:         uuid.NewString(),
			CartID:     cart.ID,
			ItemID:     item.ID,
			UnitPrice:  item.Price,
			CurrencyID: item.CurrencyID,
			WeightKg:   item.WeightKg,
			Quantity:   quantity,
		}
		if err := s.cartRepo.UpsertItem(ctx, tx, line); err != nil {
			return fmt.Errorf("upsert cart line: %w", err)
		}

		return s.recalcTotal(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, storeID, userID)
}

func (s *cartServiceImpl) UpdateItem(ctx context.Context, storeID, userID, cartItemID string, quantity int32) (*model.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, storeID, userID, cartItemID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.FindActiveForUpdate(ctx, tx, storeID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeItemNotFound, "cart item not found")
			}
			return fmt.Errorf("lock cart: %w", err)
		}

		if err := s.cartRepo.SetItemQuantity(ctx, tx, cart.ID, cartItemID, quantity); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeItemNotFound, "cart item not found")
			}
			return fmt.Errorf("update cart line: %w", err)
		}

		return s.recalcTotal(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, storeID, userID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, storeID, userID, cartItemID string) (*model.Cart, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.FindActiveForUpdate(ctx, tx, storeID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeItemNotFound, "cart item not found")
			}
			return fmt.Errorf("lock cart: %w", err)
		}

		if err := s.cartRepo.DeleteItem(ctx, tx, cart.ID, cartItemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeItemNotFound, "cart item not found")
			}
			return fmt.Errorf("delete cart line: %w", err)
		}

		return s.recalcTotal(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, storeID, userID)
}

func (s *cartServiceImpl) lockOrCreateCart(ctx context.Context, tx *gorm.DB, storeID, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.FindActiveForUpdate(ctx, tx, storeID, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lock cart: %w", err)
	}

	cart = &model.Cart{
		ID:          uuid.NewString(),
		StoreID:     storeID,
		UserID:      userID,
		Status:      model.CartActive,
		ActiveOwner: &userID,
	}
	if err := s.cartRepo.Create(ctx, tx, cart); err != nil {
		// The unique index on the active owner means a concurrent first
		// add-to-cart beat us; theirs is the cart.
		if existing, findErr := s.cartRepo.FindActiveForUpdate(ctx, tx, storeID, userID); findErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create cart: %w", err)
	}

	return cart, nil
}

func (s *cartServiceImpl) recalcTotal(ctx context.Context, tx *gorm.DB, cartID string) error {
	lines, err := s.cartRepo.GetItems(ctx, tx, cartID)
	if err != nil {
		return fmt.Errorf("load cart lines: %w", err)
	}

	return s.cartRepo.UpdateTotal(ctx, tx, cartID, linesSubtotal(lines))
}
