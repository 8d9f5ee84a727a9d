package service

import (
	"testing"

	"pacificpro/internal/infrastructure/database"
	"pacificpro/internal/model"
	"pacificpro/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestInvoiceService(db *gorm.DB) *InvoiceService {
	return NewInvoiceService(
		db,
		repository.NewInvoiceRepository(db),
		repository.NewJournalRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewOutboxRepository(db),
		repository.NewActivityRepository(db),
		nil, // tanpa redis: lock dilewati, index unik tetap menjaga
		"test.invoice.sync",
		1000,
	)
}

func newTestTransactionService(db *gorm.DB) *TransactionService {
	return NewTransactionService(
		db,
		repository.NewTransactionRepository(db),
		repository.NewJournalRepository(db),
		repository.NewActivityRepository(db),
		1000,
	)
}

func adminUser() *model.User {
	return &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin}
}

func staffUser() *model.User {
	return &model.User{ID: 2, Username: "staff", Role: model.RoleStaff}
}

func viewerUser() *model.User {
	return &model.User{ID: 3, Username: "viewer", Role: model.RoleViewer}
}
