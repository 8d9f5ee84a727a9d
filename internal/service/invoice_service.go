package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pacificpro/internal/auth"
	"pacificpro/internal/infrastructure/lock"
	"pacificpro/internal/model"
	"pacificpro/internal/repository"
	"pacificpro/pkg/format"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrPermissionDenied = errors.New("anda tidak memiliki izin untuk operasi ini")
	ErrInvalidInput     = errors.New("input tidak valid")
	ErrLockBusy         = errors.New("sistem sedang sibuk, silakan coba lagi")
)

// InvoiceItemInput adalah satu baris item dari klien.
type InvoiceItemInput struct {
	Description string
	Qty         int
	Price       decimal.Decimal
}

// SaveInvoiceInput adalah masukan penyimpanan invoice untuk semua jenis.
// Field Amount dan RefNoInvoices hanya berlaku untuk jenis pelunasan,
// DP hanya untuk jenis dp.
type SaveInvoiceInput struct {
	NoInvoice     string
	Tanggal       time.Time
	CustomerID    *int64
	Customer      string
	Jenis         string
	DP            decimal.Decimal
	Amount        decimal.Decimal
	Items         []InvoiceItemInput
	RefNoInvoices []string
}

// InvoiceService adalah mesin siklus hidup invoice. Semua operasi lewat
// gerbang izin dulu, lalu validasi, lalu satu transaksi database yang
// mencakup invoice, proyeksi jurnal, dan pesan outbox sinkronisasi.
type InvoiceService struct {
	db           *gorm.DB
	invoiceRepo  *repository.InvoiceRepository
	journalRepo  *repository.JournalRepository
	customerRepo *repository.CustomerRepository
	outboxRepo   *repository.OutboxRepository
	activityRepo *repository.ActivityRepository
	redisClient  *redis.Client // nil berarti tanpa lock terdistribusi
	syncTopic    string
	activityCap  int
}

func NewInvoiceService(
	db *gorm.DB,
	invoiceRepo *repository.InvoiceRepository,
	journalRepo *repository.JournalRepository,
	customerRepo *repository.CustomerRepository,
	outboxRepo *repository.OutboxRepository,
	activityRepo *repository.ActivityRepository,
	redisClient *redis.Client,
	syncTopic string,
	activityCap int,
) *InvoiceService {
	return &InvoiceService{
		db:           db,
		invoiceRepo:  invoiceRepo,
		journalRepo:  journalRepo,
		customerRepo: customerRepo,
		outboxRepo:   outboxRepo,
		activityRepo: activityRepo,
		redisClient:  redisClient,
		syncTopic:    syncTopic,
		activityCap:  activityCap,
	}
}

// Save menormalkan jenis lalu meneruskan ke operasi pembuatan yang sesuai.
func (s *InvoiceService) Save(ctx context.Context, user *model.User, input SaveInvoiceInput) (*model.Invoice, error) {
	jenis, ok := model.NormalizeJenis(input.Jenis)
	if !ok {
		return nil, fmt.Errorf("%w: jenis invoice %q tidak dikenal", ErrInvalidInput, input.Jenis)
	}
	input.Jenis = jenis

	// Customer terdaftar dipakai sebagai sumber nama bila nama bebas kosong.
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				return nil, fmt.Errorf("%w: customer id %d tidak ditemukan", ErrInvalidInput, *input.CustomerID)
			}
			return nil, err
		}
		if input.Customer == "" {
			input.Customer = customer.Nama
		}
	}

	switch jenis {
	case model.JenisDP:
		return s.CreateDP(ctx, user, input)
	case model.JenisPelunasan:
		return s.CreatePelunasan(ctx, user, input)
	default:
		return s.CreateRegular(ctx, user, input)
	}
}

// CreateRegular membuat invoice reguler: total = jumlah qty x harga item,
// status awal Belum Lunas, satu pasang jurnal Piutang Usaha / Pendapatan
// Jasa sebesar total.
func (s *InvoiceService) CreateRegular(ctx context.Context, user *model.User, input SaveInvoiceInput) (*model.Invoice, error) {
	if !auth.UserCan(user, auth.OpCreate) {
		return nil, ErrPermissionDenied
	}
	if err := validateCommon(input); err != nil {
		return nil, err
	}

	items, total, err := buildItems(input.Items)
	if err != nil {
		return nil, err
	}
	if total.Sign() <= 0 {
		return nil, fmt.Errorf("%w: total harus lebih dari nol", ErrInvalidInput)
	}

	invoice := &model.Invoice{
		NoInvoice:     input.NoInvoice,
		Tanggal:       input.Tanggal,
		CustomerID:    input.CustomerID,
		Customer:      input.Customer,
		Jenis:         model.JenisReguler,
		Total:         total,
		Status:        model.StatusBelumLunas,
		CreatedBy:     user.Username,
		CreatedByRole: string(user.Role),
		Items:         items,
	}

	entries := salesJournalPair(invoice, total,
		fmt.Sprintf("Penjualan kepada %s", input.Customer))

	if err := s.persist(ctx, user, invoice, entries); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, user, fmt.Sprintf("Membuat invoice %s sebesar %s",
		invoice.NoInvoice, format.Rupiah(total)))
	return invoice, nil
}

// CreateDP membuat invoice uang muka. Selain aturan reguler, dp harus
// lebih dari nol dan tidak melebihi total; sisa = total - dp. Jurnal
// mendapat pasangan kedua Kas / Uang Muka Pelanggan sebesar dp.
func (s *InvoiceService) CreateDP(ctx context.Context, user *model.User, input SaveInvoiceInput) (*model.Invoice, error) {
	if !auth.UserCan(user, auth.OpCreate) {
		return nil, ErrPermissionDenied
	}
	if err := validateCommon(input); err != nil {
		return nil, err
	}

	items, total, err := buildItems(input.Items)
	if err != nil {
		return nil, err
	}
	if total.Sign() <= 0 {
		return nil, fmt.Errorf("%w: total harus lebih dari nol", ErrInvalidInput)
	}
	if input.DP.Sign() <= 0 {
		return nil, fmt.Errorf("%w: uang muka harus lebih dari nol", ErrInvalidInput)
	}
	if input.DP.GreaterThan(total) {
		return nil, fmt.Errorf("%w: uang muka tidak boleh melebihi total", ErrInvalidInput)
	}

	invoice := &model.Invoice{
		NoInvoice:     input.NoInvoice,
		Tanggal:       input.Tanggal,
		CustomerID:    input.CustomerID,
		Customer:      input.Customer,
		Jenis:         model.JenisDP,
		Total:         total,
		DP:            input.DP,
		Sisa:          total.Sub(input.DP),
		Status:        model.StatusBelumLunas,
		CreatedBy:     user.Username,
		CreatedByRole: string(user.Role),
		Items:         items,
	}

	entries := salesJournalPair(invoice, total,
		fmt.Sprintf("Penjualan kepada %s", input.Customer))
	entries = append(entries, dpJournalPair(invoice, input.DP,
		fmt.Sprintf("Penerimaan uang muka dari %s", input.Customer))...)

	if err := s.persist(ctx, user, invoice, entries); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, user, fmt.Sprintf("Membuat invoice DP %s sebesar %s (DP %s)",
		invoice.NoInvoice, format.Rupiah(total), format.Rupiah(input.DP)))
	return invoice, nil
}

// CreatePelunasan membuat invoice pelunasan: total = jumlah yang dibayar,
// status langsung Lunas dengan tanggal panjang terlokalkan, dan status
// Lunas dirambatkan ke semua invoice yang dirujuk.
func (s *InvoiceService) CreatePelunasan(ctx context.Context, user *model.User, input SaveInvoiceInput) (*model.Invoice, error) {
	if !auth.UserCan(user, auth.OpCreate) {
		return nil, ErrPermissionDenied
	}
	if err := validateCommon(input); err != nil {
		return nil, err
	}
	if input.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: jumlah pelunasan harus lebih dari nol", ErrInvalidInput)
	}
	if len(input.RefNoInvoices) == 0 {
		return nil, fmt.Errorf("%w: pilih minimal satu invoice yang dilunasi", ErrInvalidInput)
	}

	refs := make([]model.PelunasanRef, 0, len(input.RefNoInvoices))
	refInvoices := make([]*model.Invoice, 0, len(input.RefNoInvoices))
	totalTagihan := decimal.Zero
	totalDP := decimal.Zero
	for _, no := range input.RefNoInvoices {
		ref, err := s.invoiceRepo.GetByNoInvoice(ctx, no)
		if err != nil {
			if errors.Is(err, repository.ErrInvoiceNotFound) {
				return nil, fmt.Errorf("%w: invoice rujukan %s tidak ditemukan", ErrInvalidInput, no)
			}
			return nil, err
		}
		totalTagihan = totalTagihan.Add(ref.Total)
		totalDP = totalDP.Add(ref.DP)
		refInvoices = append(refInvoices, ref)
		refs = append(refs, model.PelunasanRef{
			NoInvoice: ref.NoInvoice,
			Jenis:     ref.Jenis,
			Customer:  ref.Customer,
			Amount:    ref.Total,
			DPAmount:  ref.DP,
		})
	}

	tanggalPelunasan := format.TanggalIndonesia(time.Now())
	invoice := &model.Invoice{
		NoInvoice:        input.NoInvoice,
		Tanggal:          input.Tanggal,
		CustomerID:       input.CustomerID,
		Customer:         input.Customer,
		Jenis:            model.JenisPelunasan,
		Total:            input.Amount,
		TotalTagihan:     totalTagihan,
		TotalDP:          totalDP,
		Status:           model.StatusLunas,
		TanggalPelunasan: tanggalPelunasan,
		CreatedBy:        user.Username,
		CreatedByRole:    string(user.Role),
		PelunasanRefs:    refs,
	}

	entries := salesJournalPair(invoice, input.Amount,
		fmt.Sprintf("Pelunasan dari %s", input.Customer))

	err := s.withInvoiceLock(ctx, invoice, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.invoiceRepo.Create(ctx, tx, invoice); err != nil {
				return err
			}
			bindEntries(entries, invoice)
			if err := s.journalRepo.Create(ctx, tx, entries); err != nil {
				return err
			}
			for _, ref := range refInvoices {
				settledAt := ref.TanggalPelunasan
				if settledAt == "" {
					settledAt = tanggalPelunasan
				}
				if err := s.invoiceRepo.UpdateStatus(ctx, tx, ref.NoInvoice, model.StatusLunas, settledAt); err != nil {
					return err
				}
			}
			return s.enqueueSync(ctx, tx, invoice)
		})
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, user, fmt.Sprintf("Membuat invoice pelunasan %s sebesar %s",
		invoice.NoInvoice, format.Rupiah(input.Amount)))
	return invoice, nil
}

// UpdateStatus mengubah status invoice. Ke Lunas, tanggal pelunasan diisi
// hanya bila masih kosong; ke Belum Lunas, tanggal pelunasan dikosongkan.
func (s *InvoiceService) UpdateStatus(ctx context.Context, user *model.User, noInvoice, status string) (*model.Invoice, error) {
	if !auth.UserCan(user, auth.OpEdit) {
		return nil, ErrPermissionDenied
	}
	if status != model.StatusLunas && status != model.StatusBelumLunas {
		return nil, fmt.Errorf("%w: status %q tidak dikenal", ErrInvalidInput, status)
	}

	invoice, err := s.invoiceRepo.GetByNoInvoice(ctx, noInvoice)
	if err != nil {
		return nil, err
	}

	tanggalPelunasan := ""
	if status == model.StatusLunas {
		tanggalPelunasan = invoice.TanggalPelunasan
		if tanggalPelunasan == "" {
			tanggalPelunasan = time.Now().Format("2006-01-02")
		}
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, nil, noInvoice, status, tanggalPelunasan); err != nil {
		return nil, err
	}
	invoice.Status = status
	invoice.TanggalPelunasan = tanggalPelunasan

	s.recordActivity(ctx, user, fmt.Sprintf("Mengubah status invoice %s menjadi %s", noInvoice, status))
	return invoice, nil
}

// Delete menghapus invoice berikut item, rujukan pelunasan, dan semua
// entri jurnalnya. Status Lunas yang sudah dirambatkan ke invoice lain
// tidak dibatalkan.
func (s *InvoiceService) Delete(ctx context.Context, user *model.User, noInvoice string) error {
	if !auth.UserCan(user, auth.OpDelete) {
		return ErrPermissionDenied
	}

	invoice, err := s.invoiceRepo.GetByNoInvoice(ctx, noInvoice)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.journalRepo.DeleteByInvoice(ctx, tx, invoice.NoInvoice, invoice.ID); err != nil {
			return err
		}
		return s.invoiceRepo.Delete(ctx, tx, invoice.ID)
	})
	if err != nil {
		return err
	}

	s.recordActivity(ctx, user, fmt.Sprintf("Menghapus invoice %s", noInvoice))
	return nil
}

// GenerateInvoiceNumber menyusun nomor kandidat PREFIX/YYYY/MM/NNN dengan
// NNN = jumlah invoice sejenis pada bulan berjalan + 1. Keunikan akhir
// tetap dijaga index unik saat penyimpanan.
func (s *InvoiceService) GenerateInvoiceNumber(ctx context.Context, jenis string) (string, error) {
	normalized, ok := model.NormalizeJenis(jenis)
	if !ok {
		return "", fmt.Errorf("%w: jenis invoice %q tidak dikenal", ErrInvalidInput, jenis)
	}

	now := time.Now()
	count, err := s.invoiceRepo.CountByJenisInMonth(ctx, normalized, now.Year(), now.Month())
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%04d/%02d/%03d",
		model.InvoicePrefix(normalized), now.Year(), int(now.Month()), count+1), nil
}

func (s *InvoiceService) Get(ctx context.Context, user *model.User, id int64) (*model.Invoice, error) {
	if !auth.UserCan(user, auth.OpView) {
		return nil, ErrPermissionDenied
	}
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *InvoiceService) List(ctx context.Context, user *model.User, page, limit int) ([]*model.Invoice, int64, error) {
	if !auth.UserCan(user, auth.OpView) {
		return nil, 0, ErrPermissionDenied
	}
	return s.invoiceRepo.List(ctx, page, limit)
}

func (s *InvoiceService) ListCustomers(ctx context.Context, user *model.User) ([]*model.Customer, error) {
	if !auth.UserCan(user, auth.OpView) {
		return nil, ErrPermissionDenied
	}
	return s.customerRepo.List(ctx)
}

// SaveCustomer mendaftarkan pelanggan baru untuk dipilih saat membuat
// invoice.
func (s *InvoiceService) SaveCustomer(ctx context.Context, user *model.User, customer *model.Customer) error {
	if !auth.UserCan(user, auth.OpCreate) {
		return ErrPermissionDenied
	}
	if customer.Nama == "" {
		return fmt.Errorf("%w: nama customer wajib diisi", ErrInvalidInput)
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return err
	}
	s.recordActivity(ctx, user, fmt.Sprintf("Menambah customer %s", customer.Nama))
	return nil
}

// persist adalah jalur simpan bersama reguler/dp: satu transaksi berisi
// invoice + item, entri jurnal, dan pesan outbox.
func (s *InvoiceService) persist(ctx context.Context, user *model.User, invoice *model.Invoice, entries []*model.JournalEntry) error {
	return s.withInvoiceLock(ctx, invoice, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.invoiceRepo.Create(ctx, tx, invoice); err != nil {
				return err
			}
			bindEntries(entries, invoice)
			if err := s.journalRepo.Create(ctx, tx, entries); err != nil {
				return err
			}
			return s.enqueueSync(ctx, tx, invoice)
		})
	})
}

// withInvoiceLock menserialkan penyimpanan invoice sejenis pada periode
// penomoran yang sama. Tanpa Redis (mode proses tunggal atau test) fn
// langsung dijalankan; index unik no_invoice tetap jadi penjaga terakhir.
func (s *InvoiceService) withInvoiceLock(ctx context.Context, invoice *model.Invoice, fn func() error) error {
	if s.redisClient == nil {
		return fn()
	}

	l := lock.NewInvoiceLock(s.redisClient, invoice.Jenis, invoice.Tanggal.Year(), invoice.Tanggal.Month())
	ok, err := l.TryLock(ctx, 2*time.Second)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLockBusy
	}
	defer func() {
		if err := l.Unlock(context.Background()); err != nil {
			log.Warn().Err(err).Str("no_invoice", invoice.NoInvoice).Msg("gagal melepas lock invoice")
		}
	}()

	return fn()
}

// enqueueSync menulis pesan sinkronisasi ke outbox dalam transaksi yang
// sama dengan invoice. Pengiriman sesungguhnya dilakukan job asinkron,
// jadi kegagalan backend tidak pernah menggagalkan penyimpanan.
func (s *InvoiceService) enqueueSync(ctx context.Context, tx *gorm.DB, invoice *model.Invoice) error {
	payload, err := json.Marshal(map[string]interface{}{
		"event":      "invoice_saved",
		"no_invoice": invoice.NoInvoice,
		"jenis":      invoice.Jenis,
		"customer":   invoice.Customer,
		"total":      invoice.Total,
		"status":     invoice.Status,
	})
	if err != nil {
		return err
	}

	return s.outboxRepo.Create(ctx, tx, &model.SyncMessage{
		MessageKey: invoice.NoInvoice,
		Topic:      s.syncTopic,
		Payload:    string(payload),
		Status:     model.SyncStatusPending,
	})
}

// recordActivity mencatat jejak audit di luar transaksi utama; kegagalan
// hanya dicatat di log operasional.
func (s *InvoiceService) recordActivity(ctx context.Context, user *model.User, activity string) {
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

func validateCommon(input SaveInvoiceInput) error {
	if input.NoInvoice == "" {
		return fmt.Errorf("%w: nomor invoice wajib diisi", ErrInvalidInput)
	}
	if input.Tanggal.IsZero() {
		return fmt.Errorf("%w: tanggal wajib diisi", ErrInvalidInput)
	}
	if input.Jenis != model.JenisPelunasan && len(input.Items) == 0 {
		return fmt.Errorf("%w: invoice harus punya minimal satu item", ErrInvalidInput)
	}
	return nil
}

// buildItems menghitung total per baris dan total keseluruhan.
func buildItems(inputs []InvoiceItemInput) ([]model.InvoiceItem, decimal.Decimal, error) {
	items := make([]model.InvoiceItem, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		if in.Qty <= 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: qty item harus lebih dari nol", ErrInvalidInput)
		}
		if in.Price.Sign() < 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: harga item tidak boleh negatif", ErrInvalidInput)
		}
		lineTotal := in.Price.Mul(decimal.NewFromInt(int64(in.Qty)))
		total = total.Add(lineTotal)
		items = append(items, model.InvoiceItem{
			Description: in.Description,
			Qty:         in.Qty,
			Price:       in.Price,
			Total:       lineTotal,
		})
	}
	return items, total, nil
}

// salesJournalPair membentuk pasangan jurnal penjualan standar
// (debit Piutang Usaha, kredit Pendapatan Jasa) sebesar amount.
func salesJournalPair(invoice *model.Invoice, amount decimal.Decimal, keterangan string) []*model.JournalEntry {
	return []*model.JournalEntry{
		{
			Tanggal:        invoice.Tanggal,
			Akun:           model.AkunPiutangUsaha,
			Keterangan:     keterangan,
			Debit:          amount,
			NoInvoice:      invoice.NoInvoice,
			JenisTransaksi: invoice.Jenis,
			FromPenjualan:  true,
		},
		{
			Tanggal:        invoice.Tanggal,
			Akun:           model.AkunPendapatanJasa,
			Keterangan:     keterangan,
			Kredit:         amount,
			NoInvoice:      invoice.NoInvoice,
			JenisTransaksi: invoice.Jenis,
			FromPenjualan:  true,
		},
	}
}

// dpJournalPair membentuk pasangan penerimaan uang muka
// (debit Kas, kredit Uang Muka Pelanggan) sebesar dp.
func dpJournalPair(invoice *model.Invoice, dp decimal.Decimal, keterangan string) []*model.JournalEntry {
	return []*model.JournalEntry{
		{
			Tanggal:        invoice.Tanggal,
			Akun:           model.AkunKas,
			Keterangan:     keterangan,
			Debit:          dp,
			NoInvoice:      invoice.NoInvoice,
			JenisTransaksi: invoice.Jenis,
			FromPenjualan:  true,
		},
		{
			Tanggal:        invoice.Tanggal,
			Akun:           model.AkunUangMukaPelanggan,
			Keterangan:     keterangan,
			Kredit:         dp,
			NoInvoice:      invoice.NoInvoice,
			JenisTransaksi: invoice.Jenis,
			FromPenjualan:  true,
		},
	}
}

// bindEntries mengisi id record invoice setelah insert, supaya penghapusan
// bisa mencocokkan lebih ketat dari sekadar nomor invoice.
func bindEntries(entries []*model.JournalEntry, invoice *model.Invoice) {
	for _, e := range entries {
		e.InvoiceID = invoice.ID
	}
}
