package repository

import (
	"checkout-core/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// ProviderEventRepository tracks processed webhook event ids so a provider
// re-delivering the same event is a no-op.
type ProviderEventRepository interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID, providerCode, eventType string) error
}

type providerEventRepoImpl struct {
	db *gorm.DB
}

func NewProviderEventRepository(db *gorm.DB) ProviderEventRepository {
	return &providerEventRepoImpl{db: db}
}

func (r *providerEventRepoImpl) Exists(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProviderEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error

	return count > 0, err
}

func (r *providerEventRepoImpl) MarkProcessed(ctx context.Context, eventID, providerCode, eventType string) error {
	return r.db.WithContext(ctx).Create(&model.ProviderEvent{
		EventID:      eventID,
		ProviderCode: providerCode,
		EventType:    eventType,
		ProcessedAt:  time.Now(),
	}).Error
}
