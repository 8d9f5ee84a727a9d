package repository

import (
	"context"

	"pacificpro/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Create(ctx context.Context, tx *gorm.DB, msg *model.SyncMessage) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(msg).Error
}

func (r *OutboxRepository) GetPendingMessages(ctx context.Context, limit int) ([]*model.SyncMessage, error) {
	var messages []*model.SyncMessage
	err := r.db.WithContext(ctx).
		Where("status = ?", model.SyncStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *OutboxRepository) GetFailedMessages(ctx context.Context, limit int) ([]*model.SyncMessage, error) {
	var messages []*model.SyncMessage
	err := r.db.WithContext(ctx).
		Where("status = ?", model.SyncStatusFailed).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.SyncMessage{}).
		Where("id = ?", id).
		Update("status", model.SyncStatusSent).Error
}

func (r *OutboxRepository) IncrementRetryCount(ctx context.Context, id int64, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&model.SyncMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  lastError,
		}).Error
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id int64, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&model.SyncMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      model.SyncStatusFailed,
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  lastError,
		}).Error
}

// Requeue mengembalikan pesan gagal ke antrean PENDING dengan hitungan
// retry direset. Dipakai job rekonsiliasi.
func (r *OutboxRepository) Requeue(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.SyncMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      model.SyncStatusPending,
			"retry_count": 0,
		}).Error
}
