package service

import (
	"context"
	"fmt"
	"time"

	"pacificpro/internal/auth"
	"pacificpro/internal/model"
	"pacificpro/internal/repository"
	"pacificpro/pkg/idgen"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaveTransactionInput adalah masukan entri buku besar manual.
type SaveTransactionInput struct {
	Tanggal     time.Time
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// LaporanResult adalah hasil laporan transaksi terfilter beserta
// totalnya. Total dihitung di aplikasi, bukan SQL, supaya presisi
// decimal tidak bergantung pada driver.
type LaporanResult struct {
	Transactions []*model.Transaction `json:"transactions"`
	TotalDebit   decimal.Decimal      `json:"total_debit"`
	TotalCredit  decimal.Decimal      `json:"total_credit"`
}

// TransactionService menangani buku besar manual, laporan, dan daftar
// jurnal.
type TransactionService struct {
	db              *gorm.DB
	transactionRepo *repository.TransactionRepository
	journalRepo     *repository.JournalRepository
	activityRepo    *repository.ActivityRepository
	activityCap     int
}

func NewTransactionService(
	db *gorm.DB,
	transactionRepo *repository.TransactionRepository,
	journalRepo *repository.JournalRepository,
	activityRepo *repository.ActivityRepository,
	activityCap int,
) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		journalRepo:     journalRepo,
		activityRepo:    activityRepo,
		activityCap:     activityCap,
	}
}

// Save memvalidasi dan menyimpan satu entri manual. Nomor transaksi
// dibangkitkan otomatis.
func (s *TransactionService) Save(ctx context.Context, user *model.User, input SaveTransactionInput) (*model.Transaction, error) {
	if !auth.UserCan(user, auth.OpCreate) {
		return nil, ErrPermissionDenied
	}
	if input.Tanggal.IsZero() {
		return nil, fmt.Errorf("%w: tanggal wajib diisi", ErrInvalidInput)
	}
	if input.Description == "" {
		return nil, fmt.Errorf("%w: deskripsi wajib diisi", ErrInvalidInput)
	}
	if input.Debit.Sign() < 0 || input.Credit.Sign() < 0 {
		return nil, fmt.Errorf("%w: debit dan kredit tidak boleh negatif", ErrInvalidInput)
	}
	if input.Debit.Sign() <= 0 && input.Credit.Sign() <= 0 {
		return nil, fmt.Errorf("%w: minimal salah satu dari debit atau kredit harus lebih dari nol", ErrInvalidInput)
	}

	trans := &model.Transaction{
		TransactionNo:   idgen.GenerateTransactionNo(),
		UserID:          &user.ID,
		TransactionDate: input.Tanggal,
		Description:     input.Description,
		Debit:           input.Debit,
		Credit:          input.Credit,
	}
	if err := s.transactionRepo.Create(ctx, nil, trans); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, user, fmt.Sprintf("Mencatat transaksi %s: %s",
		trans.TransactionNo, input.Description))
	return trans, nil
}

func (s *TransactionService) List(ctx context.Context, user *model.User, page, limit int) ([]*model.Transaction, int64, error) {
	if !auth.UserCan(user, auth.OpView) {
		return nil, 0, ErrPermissionDenied
	}
	return s.transactionRepo.List(ctx, page, limit)
}

// Laporan menyusun laporan transaksi dalam rentang tanggal, dengan
// pencarian bebas opsional, plus total debit/kredit.
func (s *TransactionService) Laporan(ctx context.Context, user *model.User, start, end time.Time, cari string) (*LaporanResult, error) {
	if !auth.UserCan(user, auth.OpView) {
		return nil, ErrPermissionDenied
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: rentang tanggal laporan wajib diisi", ErrInvalidInput)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: tanggal akhir mendahului tanggal awal", ErrInvalidInput)
	}

	transactions, err := s.transactionRepo.Search(ctx, start, end, cari)
	if err != nil {
		return nil, err
	}

	result := &LaporanResult{
		Transactions: transactions,
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
	}
	for _, t := range transactions {
		result.TotalDebit = result.TotalDebit.Add(t.Debit)
		result.TotalCredit = result.TotalCredit.Add(t.Credit)
	}
	return result, nil
}

// ListJurnal mengembalikan entri jurnal, opsional hanya yang berasal dari
// penjualan atau hanya yang manual.
func (s *TransactionService) ListJurnal(ctx context.Context, user *model.User, fromPenjualan *bool) ([]*model.JournalEntry, error) {
	if !auth.UserCan(user, auth.OpView) {
		return nil, ErrPermissionDenied
	}
	return s.journalRepo.List(ctx, fromPenjualan)
}

func (s *TransactionService) recordActivity(ctx context.Context, user *model.User, activity string) {
	entry := &model.Activity{
		Username: user.Username,
		Role:     string(user.Role),
		Category: model.ActivityCategoryGeneral,
		Activity: activity,
	}
	if err := s.activityRepo.Append(ctx, entry, s.activityCap); err != nil {
		log.Warn().Err(err).Str("activity", activity).Msg("gagal mencatat aktivitas")
	}
}
