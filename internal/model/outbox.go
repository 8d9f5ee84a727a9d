package model

import (
	"time"
)

const (
	SyncStatusPending = "PENDING"
	SyncStatusSent    = "SENT"
	SyncStatusFailed  = "FAILED"
)

// SyncMessage adalah pesan outbox untuk sinkronisasi ke backend eksternal.
// Ditulis dalam transaksi yang sama dengan penyimpanan invoice, dikirim
// asinkron oleh job pengirim. Kegagalan tidak pernah menggagalkan atau
// muncul di operasi penyimpanan asalnya.
type SyncMessage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageKey string    `gorm:"type:varchar(64);not null" json:"message_key"`
	Topic      string    `gorm:"type:varchar(64);not null" json:"topic"`
	Payload    string    `gorm:"type:text;not null" json:"payload"`
	Status     string    `gorm:"type:varchar(20);index;not null;default:PENDING" json:"status"`
	RetryCount int       `gorm:"not null;default:0" json:"retry_count"`
	LastError  string    `gorm:"type:varchar(256)" json:"last_error"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SyncMessage) TableName() string {
	return "sync_outbox"
}
