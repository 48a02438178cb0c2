package service

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/model"
	"checkout-core/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// legalTransitions is the payment transaction state machine. OFFLINE_PENDING
// moves to PAID only through MarkPaidManually, never through reconciliation.
var legalTransitions = map[string][]string{
	model.TxCreated:        {model.TxRequiresAction, model.TxPaid, model.TxFailed},
	model.TxRequiresAction: {model.TxPaid, model.TxFailed},
	model.TxPaid:           {model.TxRefunded},
}

type PaymentService interface {
	// RecordAttempt appends a ledger row inside the caller's transaction.
	RecordAttempt(ctx context.Context, tx *gorm.DB, transaction *model.PaymentTransaction) error
	// Reconcile applies a provider-reported status change. Returns whether a
	// transition was applied; a repeat of the current status is a successful
	// no-op.
	Reconcile(ctx context.Context, providerCode, providerPaymentID, newStatus string) (bool, error)
	SumPaid(ctx context.Context, orderID string) (int64, error)
	MarkPaidManually(ctx context.Context, storeID, orderID, actorID string) error
}

type paymentServiceImpl struct {
	db              *gorm.DB
	transactionRepo repository.TransactionRepository
	orderRepo       repository.OrderRepository
}

func NewPaymentService(db *gorm.DB, transactionRepo repository.TransactionRepository, orderRepo repository.OrderRepository) PaymentService {
	return &paymentServiceImpl{
		db:              db,
		transactionRepo: transactionRepo,
		orderRepo:       orderRepo,
	}
}

func NewPaymentTransaction(orderID, providerCode string, providerPaymentID *string, amount int64, status string) *model.PaymentTransaction {
	return &model.PaymentTransaction{
		ID:                uuid.NewString(),
		OrderID:           orderID,
		ProviderCode:      providerCode,
		ProviderPaymentID: providerPaymentID,
		Amount:            amount,
		Status:            status,
	}
}

func (s *paymentServiceImpl) RecordAttempt(ctx context.Context, tx *gorm.DB, transaction *model.PaymentTransaction) error {
	return s.transactionRepo.Create(ctx, tx, transaction)
}

func (s *paymentServiceImpl) Reconcile(ctx context.Context, providerCode, providerPaymentID, newStatus string) (bool, error) {
	transaction, err := s.transactionRepo.FindByProviderPayment(ctx, providerCode, providerPaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.NotFound(apperr.CodeTransactionNotFound, "unknown provider payment")
		}
		return false, fmt.Errorf("load transaction: %w", err)
	}

	return s.transition(ctx, transaction, newStatus, nil)
}

func (s *paymentServiceImpl) transition(ctx context.Context, transaction *model.PaymentTransaction, newStatus string, actorID *string) (bool, error) {
	// Re-delivered event carrying the status we already hold: no-op success.
	if transaction.Status == newStatus {
		return false, nil
	}

	if !transitionAllowed(transaction.Status, newStatus) {
		log.Printf("anomaly: illegal payment transition %s -> %s (transaction %s)",
			transaction.Status, newStatus, transaction.ID)
		return false, apperr.BusinessRule(apperr.CodeIllegalTransition,
			fmt.Sprintf("cannot move payment from %s to %s", transaction.Status, newStatus))
	}

	applied, err := s.transactionRepo.Transition(ctx, s.db, transaction.ID, transaction.Status, newStatus, actorID)
	if err != nil {
		return false, fmt.Errorf("transition transaction: %w", err)
	}
	if !applied {
		// Lost a race with another reconciler; re-read and treat a matching
		// status as the idempotent case.
		current, err := s.transactionRepo.FindByID(ctx, transaction.ID)
		if err != nil {
			return false, fmt.Errorf("reload transaction: %w", err)
		}
		if current.Status == newStatus {
			return false, nil
		}
		return false, apperr.BusinessRule(apperr.CodeIllegalTransition,
			fmt.Sprintf("cannot move payment from %s to %s", current.Status, newStatus))
	}

	if newStatus == model.TxPaid {
		if err := s.settleOrder(ctx, transaction.OrderID); err != nil {
			return true, err
		}
	}

	return true, nil
}

// settleOrder marks the order PAID once the PAID transaction sum covers its
// total.
func (s *paymentServiceImpl) settleOrder(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}

	paid, err := s.transactionRepo.SumPaid(ctx, orderID)
	if err != nil {
		return fmt.Errorf("sum paid: %w", err)
	}
	if paid < order.Total {
		return nil
	}

	return s.orderRepo.MarkPaid(ctx, s.db, orderID)
}

func (s *paymentServiceImpl) SumPaid(ctx context.Context, orderID string) (int64, error) {
	return s.transactionRepo.SumPaid(ctx, orderID)
}

func (s *paymentServiceImpl) MarkPaidManually(ctx context.Context, storeID, orderID, actorID string) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(apperr.CodeOrderNotFound, "order not found")
		}
		return fmt.Errorf("load order: %w", err)
	}
	if order.StoreID != storeID {
		return apperr.NotFound(apperr.CodeOrderNotFound, "order not found")
	}

	transaction, err := s.transactionRepo.FindOfflinePending(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.BusinessRule(apperr.CodeIllegalTransition, "order has no offline payment awaiting collection")
		}
		return fmt.Errorf("load offline transaction: %w", err)
	}

	applied, err := s.transactionRepo.Transition(ctx, s.db, transaction.ID, model.TxOfflinePending, model.TxPaid, &actorID)
	if err != nil {
		return fmt.Errorf("transition transaction: %w", err)
	}
	if !applied {
		// Someone else marked it in the meantime.
		return nil
	}

	return s.settleOrder(ctx, orderID)
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
