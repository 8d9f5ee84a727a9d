package model

import (
	"time"
)

// Kategori log aktivitas. Tiap kategori punya batas jumlah entri sendiri.
const (
	ActivityCategoryGeneral = "general"
	ActivityCategorySession = "session"
)

// Activity adalah satu entri jejak audit append-only. Koleksi dibatasi:
// entri tertua dibuang begitu jumlah per kategori melewati batas.
type Activity struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	Username  string    `gorm:"type:varchar(64);not null" json:"username"`
	Role      string    `gorm:"type:varchar(20)" json:"role"`
	Category  string    `gorm:"type:varchar(20);index;not null;default:general" json:"category"`
	Activity  string    `gorm:"type:varchar(256);not null" json:"activity"`
}

func (Activity) TableName() string {
	return "activities"
}
