package repository

import (
	"checkout-core/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, transaction *model.PaymentTransaction) error
	FindByID(ctx context.Context, transactionID string) (*model.PaymentTransaction, error)
	FindByProviderPayment(ctx context.Context, providerCode, providerPaymentID string) (*model.PaymentTransaction, error)
	FindOfflinePending(ctx context.Context, orderID string) (*model.PaymentTransaction, error)
	// Transition moves a transaction from one status to another and reports
	// whether the row was still in the expected source status. Concurrent
	// reconcilers race through this single conditional UPDATE.
	Transition(ctx context.Context, tx *gorm.DB, transactionID, fromStatus, toStatus string, actorID *string) (bool, error)
	SumPaid(ctx context.Context, orderID string) (int64, error)
}

type transactionRepoImpl struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepoImpl{
		db: db,
	}
}

func (r *transactionRepoImpl) Create(ctx context.Context, tx *gorm.DB, transaction *model.PaymentTransaction) error {
	return tx.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepoImpl) FindByID(ctx context.Context, transactionID string) (*model.PaymentTransaction, error) {
	var transaction model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("id = ?", transactionID).
		First(&transaction).Error

	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *transactionRepoImpl) FindByProviderPayment(ctx context.Context, providerCode, providerPaymentID string) (*model.PaymentTransaction, error) {
	var transaction model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("provider_code = ? AND provider_payment_id = ?", providerCode, providerPaymentID).
		First(&transaction).Error

	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *transactionRepoImpl) FindOfflinePending(ctx context.Context, orderID string) (*model.PaymentTransaction, error) {
	var transaction model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, model.TxOfflinePending).
		First(&transaction).Error

	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *transactionRepoImpl) Transition(ctx context.Context, tx *gorm.DB, transactionID, fromStatus, toStatus string, actorID *string) (bool, error) {
	updates := map[string]interface{}{
		"status":     toStatus,
		"updated_at": time.Now(),
	}
	if actorID != nil {
		updates["manual_actor_id"] = *actorID
	}

	result := tx.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("id = ? AND status = ?", transactionID, fromStatus).
		Updates(updates)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *transactionRepoImpl) SumPaid(ctx context.Context, orderID string) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("order_id = ? AND status = ?", orderID, model.TxPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error

	return sum, err
}
