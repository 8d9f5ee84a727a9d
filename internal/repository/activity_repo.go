package repository

import (
	"context"

	"pacificpro/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append mencatat satu entri dan membuang entri tertua pada kategori yang
// sama begitu jumlahnya melewati cap. cap <= 0 berarti tanpa batas.
func (r *ActivityRepository) Append(ctx context.Context, entry *model.Activity, cap int) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}
	if cap <= 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("category = ?", entry.Category).
		Count(&count).Error; err != nil {
		return err
	}

	excess := count - int64(cap)
	if excess <= 0 {
		return nil
	}

	// MySQL tidak mengizinkan LIMIT dalam subquery IN, jadi id korban
	// diambil dulu lalu dihapus per batch.
	var victims []int64
	if err := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("category = ?", entry.Category).
		Order("id ASC").
		Limit(int(excess)).
		Pluck("id", &victims).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&model.Activity{}, victims).Error
}

func (r *ActivityRepository) List(ctx context.Context, category string, limit int) ([]*model.Activity, error) {
	query := r.db.WithContext(ctx).Model(&model.Activity{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var activities []*model.Activity
	err := query.Order("id DESC").Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("category = ?", category).
		Count(&count).Error
	return count, err
}
