package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction adalah entri buku besar yang diinput manual, terpisah dari
// jurnal penjualan. Minimal salah satu dari Debit/Credit harus > 0.
type Transaction struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionNo   string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_no"`
	UserID          *int64          `gorm:"index" json:"user_id"`
	TransactionDate time.Time       `gorm:"index;not null" json:"transaction_date"`
	Description     string          `gorm:"type:varchar(256);not null" json:"description"`
	Debit           decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"debit"`
	Credit          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"credit"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
