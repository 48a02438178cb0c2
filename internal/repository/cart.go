package repository

import (
	"checkout-core/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	FindActive(ctx context.Context, storeID, userID string) (*model.Cart, error)
	// FindActiveForUpdate loads the active cart under a row lock so a buyer's
	// concurrent mutations against their own cart are serialized.
	FindActiveForUpdate(ctx context.Context, tx *gorm.DB, storeID, userID string) (*model.Cart, error)
	Create(ctx context.Context, tx *gorm.DB, cart *model.Cart) error
	GetItems(ctx context.Context, tx *gorm.DB, cartID string) ([]*model.CartItem, error)
	UpsertItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	FindItem(ctx context.Context, tx *gorm.DB, cartID, cartItemID string) (*model.CartItem, error)
	SetItemQuantity(ctx context.Context, tx *gorm.DB, cartID, cartItemID string, quantity int32) error
	DeleteItem(ctx context.Context, tx *gorm.DB, cartID, cartItemID string) error
	UpdateTotal(ctx context.Context, tx *gorm.DB, cartID string, total int64) error
	// MarkConverted flips ACTIVE to CONVERTED and reports whether the row was
	// still active. A cart converts exactly once.
	MarkConverted(ctx context.Context, tx *gorm.DB, cartID string) (bool, error)
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) FindActive(ctx context.Context, storeID, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND user_id = ? AND status = ?", storeID, userID, model.CartActive).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) FindActiveForUpdate(ctx context.Context, tx *gorm.DB, storeID, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND user_id = ? AND status = ?", storeID, userID, model.CartActive).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) Create(ctx context.Context, tx *gorm.DB, cart *model.Cart) error {
	return tx.WithContext(ctx).Create(cart).Error
}

func (r *cartRepoImpl) GetItems(ctx context.Context, tx *gorm.DB, cartID string) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

// Adding an item the cart already holds bumps its quantity; the price and
// weight snapshots from the first add stay untouched.
func (r *cartRepoImpl) UpsertItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
}

func (r *cartRepoImpl) FindItem(ctx context.Context, tx *gorm.DB, cartID, cartItemID string) (*model.CartItem, error) {
	var item model.CartItem
	err := tx.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, cartItemID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) SetItemQuantity(ctx context.Context, tx *gorm.DB, cartID, cartItemID string, quantity int32) error {
	result := tx.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_id = ? AND id = ?", cartID, cartItemID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cartRepoImpl) DeleteItem(ctx context.Context, tx *gorm.DB, cartID, cartItemID string) error {
	result := tx.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, cartItemID).
		Delete(&model.CartItem{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cartRepoImpl) UpdateTotal(ctx context.Context, tx *gorm.DB, cartID string, total int64) error {
	return tx.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total":      total,
			"updated_at": time.Now(),
		}).Error
}

func (r *cartRepoImpl) MarkConverted(ctx context.Context, tx *gorm.DB, cartID string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ? AND status = ?", cartID, model.CartActive).
		Updates(map[string]interface{}{
			"status":       model.CartConverted,
			"active_owner": nil,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
