package repository

import (
	"context"

	"pacificpro/internal/model"

	"gorm.io/gorm"
)

type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Create(ctx context.Context, tx *gorm.DB, entries []*model.JournalEntry) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(entries).Error
}

// DeleteByInvoice menghapus semua entri jurnal milik satu invoice.
// Pencocokan nomor invoice diperketat dengan id record bila entri
// menyimpannya, supaya entri lama tanpa id yang kebetulan senomor tidak
// ikut terbawa invoice lain.
func (r *JournalRepository) DeleteByInvoice(ctx context.Context, tx *gorm.DB, noInvoice string, invoiceID int64) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Where("no_invoice = ? AND (invoice_id = 0 OR invoice_id = ?)", noInvoice, invoiceID).
		Delete(&model.JournalEntry{})
	return result.RowsAffected, result.Error
}

func (r *JournalRepository) ListByInvoice(ctx context.Context, noInvoice string) ([]*model.JournalEntry, error) {
	var entries []*model.JournalEntry
	err := r.db.WithContext(ctx).
		Where("no_invoice = ?", noInvoice).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

// List mengembalikan entri jurnal, opsional difilter asal penjualan
// (nil = semua, true = hanya proyeksi penjualan, false = hanya manual).
func (r *JournalRepository) List(ctx context.Context, fromPenjualan *bool) ([]*model.JournalEntry, error) {
	query := r.db.WithContext(ctx).Model(&model.JournalEntry{})
	if fromPenjualan != nil {
		query = query.Where("from_penjualan = ?", *fromPenjualan)
	}

	var entries []*model.JournalEntry
	err := query.Order("tanggal DESC, id DESC").Find(&entries).Error
	return entries, err
}
