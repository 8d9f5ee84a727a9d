package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Nama akun yang dipakai proyeksi jurnal penjualan.
const (
	AkunPiutangUsaha      = "Piutang Usaha"
	AkunPendapatanJasa    = "Pendapatan Jasa"
	AkunKas               = "Kas"
	AkunUangMukaPelanggan = "Uang Muka Pelanggan"
)

// JournalEntry adalah satu posting debit/kredit pada jurnal.
//
// Setiap penyimpanan invoice menghasilkan sepasang entri berimbang
// (dua pasang untuk invoice DP): tepat satu dari Debit/Kredit bernilai
// bukan nol per entri. Entri hanya dihapus bersama invoice-nya, tidak
// pernah dibalik oleh perubahan status.
type JournalEntry struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Tanggal        time.Time       `gorm:"index;not null" json:"tanggal"`
	Akun           string          `gorm:"type:varchar(64);not null" json:"akun"`
	Keterangan     string          `gorm:"type:varchar(256)" json:"keterangan"`
	Debit          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"debit"`
	Kredit         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"kredit"`
	NoInvoice      string          `gorm:"type:varchar(64);index" json:"no_invoice"`
	InvoiceID      int64           `gorm:"index" json:"invoice_id"`
	JenisTransaksi string          `gorm:"type:varchar(20)" json:"jenis_transaksi"`
	FromPenjualan  bool            `gorm:"not null;default:false" json:"from_penjualan"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (JournalEntry) TableName() string {
	return "journal"
}
