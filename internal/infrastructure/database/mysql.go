package database

import (
	"fmt"
	"time"

	"pacificpro/internal/config"
	"pacificpro/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitMySQL membuka koneksi pool dan menjalankan auto-migrate untuk
// seluruh tabel aplikasi.
func InitMySQL(cfg *config.MySQLConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gagal koneksi mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("gagal migrasi: %w", err)
	}

	DB = db
	log.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("koneksi mysql siap")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Account{},
		&model.Transaction{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.PelunasanRef{},
		&model.JournalEntry{},
		&model.Salary{},
		&model.Activity{},
		&model.SyncMessage{},
	)
}
