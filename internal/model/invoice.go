package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusBelumLunas = "Belum Lunas"
	StatusLunas      = "Lunas"
)

// Jenis invoice. Nilai di database memakai ejaan "reguler" (ENUM lama),
// input "regular" dinormalisasi di boundary.
const (
	JenisReguler   = "reguler"
	JenisDP        = "dp"
	JenisPelunasan = "pelunasan"
)

// NormalizeJenis maps the client-side spelling "regular" onto the stored
// enum value and returns false for anything outside the enum.
func NormalizeJenis(jenis string) (string, bool) {
	switch jenis {
	case "regular", JenisReguler, "":
		return JenisReguler, true
	case JenisDP, JenisPelunasan:
		return jenis, true
	}
	return "", false
}

// InvoicePrefix returns the invoice-number prefix for a jenis.
func InvoicePrefix(jenis string) string {
	switch jenis {
	case JenisDP:
		return "INV-DP"
	case JenisPelunasan:
		return "INV-PEL"
	default:
		return "INV"
	}
}

// Invoice adalah satu tagihan penjualan.
//
// Invarian: Total = jumlah item untuk reguler/dp; untuk pelunasan Total =
// jumlah yang benar-benar dibayar. Sisa = Total - DP (jenis dp saja).
// Status Lunas jika dan hanya jika TanggalPelunasan terisi.
type Invoice struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	NoInvoice        string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"no_invoice"`
	Tanggal          time.Time       `gorm:"index;not null" json:"tanggal"`
	CustomerID       *int64          `gorm:"index" json:"customer_id"`
	Customer         string          `gorm:"type:varchar(128)" json:"customer"`
	Jenis            string          `gorm:"type:varchar(20);index;not null" json:"jenis"`
	Total            decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total"`
	DP               decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"dp"`
	Sisa             decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"sisa"`
	TotalTagihan     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_tagihan"`
	TotalDP          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_dp"`
	Status           string          `gorm:"type:varchar(20);index;not null" json:"status"`
	TanggalPelunasan string          `gorm:"type:varchar(64)" json:"tanggal_pelunasan"`
	CreatedBy        string          `gorm:"type:varchar(64)" json:"created_by"`
	CreatedByRole    string          `gorm:"type:varchar(20)" json:"created_by_role"`
	CreatedAt        time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Items         []InvoiceItem  `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	PelunasanRefs []PelunasanRef `gorm:"foreignKey:InvoiceID" json:"pelunasan_invoices,omitempty"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem adalah satu baris item pada invoice.
type InvoiceItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID   int64           `gorm:"index;not null" json:"invoice_id"`
	Description string          `gorm:"type:text" json:"description"`
	Qty         int             `gorm:"not null;default:1" json:"qty"`
	Price       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price"`
	Total       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// PelunasanRef merekam invoice yang ditutup oleh sebuah invoice pelunasan,
// berikut nilai asli untuk audit.
type PelunasanRef struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID int64           `gorm:"index;not null" json:"invoice_id"`
	NoInvoice string          `gorm:"type:varchar(64);not null" json:"no_invoice"`
	Jenis     string          `gorm:"type:varchar(20);not null" json:"jenis"`
	Customer  string          `gorm:"type:varchar(128)" json:"customer"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	DPAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"dp_amount"`
}

func (PelunasanRef) TableName() string {
	return "pelunasan_refs"
}
