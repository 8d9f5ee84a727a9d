package repository

import (
	"context"
	"errors"
	"time"

	"pacificpro/internal/model"

	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaksi tidak ditemukan")

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *gorm.DB, trans *model.Transaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(trans).Error
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	var trans model.Transaction
	err := r.db.WithContext(ctx).First(&trans, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &trans, nil
}

func (r *TransactionRepository) List(ctx context.Context, page, limit int) ([]*model.Transaction, int64, error) {
	var transactions []*model.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Transaction{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&transactions).Error

	return transactions, total, err
}

// Search memfilter transaksi untuk laporan: rentang tanggal plus pencarian
// bebas pada deskripsi/debit/kredit.
func (r *TransactionRepository) Search(ctx context.Context, start, end time.Time, cari string) ([]*model.Transaction, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("transaction_date >= ? AND transaction_date <= ?", start, end)

	if cari != "" {
		like := "%" + cari + "%"
		query = query.Where("description LIKE ? OR debit LIKE ? OR credit LIKE ?", like, like, like)
	}

	var transactions []*model.Transaction
	err := query.Order("transaction_date DESC, id DESC").Find(&transactions).Error
	return transactions, err
}
