package repository

import (
	"context"
	"errors"
	"time"

	"pacificpro/internal/model"

	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound    = errors.New("invoice tidak ditemukan")
	ErrDuplicateNoInvoice = errors.New("nomor invoice sudah dipakai")
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create menyimpan invoice beserta item dan referensi pelunasannya.
func (r *InvoiceRepository) Create(ctx context.Context, tx *gorm.DB, invoice *model.Invoice) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Create(invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateNoInvoice
		}
		return err
	}
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("PelunasanRefs").
		First(&invoice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) GetByNoInvoice(ctx context.Context, noInvoice string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("PelunasanRefs").
		Where("no_invoice = ?", noInvoice).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) List(ctx context.Context, page, limit int) ([]*model.Invoice, int64, error) {
	var invoices []*model.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Invoice{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&invoices).Error

	return invoices, total, err
}

// CountByJenisInMonth menghitung invoice sejenis yang bertanggal dalam
// bulan kalender tertentu. Dipakai penomoran invoice.
func (r *InvoiceRepository) CountByJenisInMonth(ctx context.Context, jenis string, year int, month time.Month) (int64, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("jenis = ? AND tanggal >= ? AND tanggal < ?", jenis, start, end).
		Count(&count).Error
	return count, err
}

// UpdateStatus mengubah status dan tanggal pelunasan sebuah invoice.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, noInvoice, status, tanggalPelunasan string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("no_invoice = ?", noInvoice).
		Updates(map[string]interface{}{
			"status":            status,
			"tanggal_pelunasan": tanggalPelunasan,
		}).Error
}

// Delete menghapus invoice berikut item dan referensi pelunasannya.
// Entri jurnal dihapus terpisah oleh JournalRepository.
func (r *InvoiceRepository) Delete(ctx context.Context, tx *gorm.DB, invoiceID int64) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&model.PelunasanRef{}).Error; err != nil {
		return err
	}
	result := tx.WithContext(ctx).Delete(&model.Invoice{}, invoiceID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}
