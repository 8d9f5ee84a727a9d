package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// backupTables adalah daftar tetap tabel yang ikut backup/restore.
// Tabel di luar daftar (log aktivitas, outbox) sengaja tidak dibawa.
var backupTables = []string{
	"users",
	"customers",
	"accounts",
	"transactions",
	"invoices",
	"invoice_items",
	"journal",
	"salary",
}

var (
	ErrTableMissing    = errors.New("tabel tidak ditemukan di database")
	ErrUnknownTable    = errors.New("tabel tidak dikenal dalam berkas restore")
	ErrEmptyBackupFile = errors.New("berkas restore kosong")
)

// BackupService membuang dan memulihkan isi database sebagai JSON per
// tabel.
type BackupService struct {
	db *gorm.DB
}

func NewBackupService(db *gorm.DB) *BackupService {
	return &BackupService{db: db}
}

// Backup membuang seluruh isi tabel dalam daftar sebagai peta
// nama-tabel -> baris. Gagal bila ada tabel daftar yang tidak ada.
func (s *BackupService) Backup(ctx context.Context) (map[string][]map[string]interface{}, error) {
	dump := make(map[string][]map[string]interface{}, len(backupTables))
	for _, table := range backupTables {
		if !s.db.WithContext(ctx).Migrator().HasTable(table) {
			return nil, fmt.Errorf("%w: %s", ErrTableMissing, table)
		}

		var rows []map[string]interface{}
		if err := s.db.WithContext(ctx).Table(table).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("gagal membaca tabel %s: %w", table, err)
		}
		if rows == nil {
			rows = []map[string]interface{}{}
		}
		dump[table] = rows
	}
	return dump, nil
}

// Restore mengganti isi tabel yang disebut dalam dump. Kunci harus
// subset daftar tabel backup. Seluruh pemulihan berjalan dalam satu
// transaksi: gagal di tengah berarti tidak ada yang berubah.
func (s *BackupService) Restore(ctx context.Context, dump map[string][]map[string]interface{}) error {
	if len(dump) == 0 {
		return ErrEmptyBackupFile
	}
	for table := range dump {
		if !isBackupTable(table) {
			return fmt.Errorf("%w: %s", ErrUnknownTable, table)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Urutan daftar dipertahankan supaya tabel induk diisi lebih
		// dulu daripada tabel anaknya.
		for _, table := range backupTables {
			rows, ok := dump[table]
			if !ok {
				continue
			}
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("gagal mengosongkan tabel %s: %w", table, err)
			}
			if len(rows) == 0 {
				continue
			}
			if err := tx.Table(table).Create(rows).Error; err != nil {
				return fmt.Errorf("gagal mengisi tabel %s: %w", table, err)
			}
		}
		return nil
	})
}

func isBackupTable(name string) bool {
	for _, t := range backupTables {
		if t == name {
			return true
		}
	}
	return false
}
