package model

import (
	"time"
)

// Customer adalah pelanggan yang ditagih.
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Nama      string    `gorm:"type:varchar(128);not null" json:"nama"`
	Alamat    string    `gorm:"type:varchar(256)" json:"alamat"`
	Telp      string    `gorm:"type:varchar(32)" json:"telp"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
