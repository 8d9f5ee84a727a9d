package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account adalah akun pada bagan akun. Ikut serta dalam backup/restore.
type Account struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Type      string    `gorm:"type:varchar(32)" json:"type"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// Salary adalah catatan gaji karyawan. Ikut serta dalam backup/restore.
type Salary struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *int64          `gorm:"index" json:"user_id"`
	Period    string          `gorm:"type:varchar(16);not null" json:"period"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Salary) TableName() string {
	return "salary"
}
