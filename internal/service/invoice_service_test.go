package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pacificpro/internal/model"
	"pacificpro/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regularInput(noInvoice string) SaveInvoiceInput {
	return SaveInvoiceInput{
		NoInvoice: noInvoice,
		Tanggal:   time.Now(),
		Customer:  "PT Samudra Jaya",
		Jenis:     "regular",
		Items: []InvoiceItemInput{
			{Description: "Jasa pengiriman", Qty: 2, Price: decimal.NewFromInt(10000)},
			{Description: "Asuransi", Qty: 1, Price: decimal.NewFromInt(5000)},
		},
	}
}

func TestCreateRegular(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	invoice, err := svc.Save(ctx, adminUser(), regularInput("INV/2026/09/001"))
	require.NoError(t, err)

	assert.Equal(t, model.JenisReguler, invoice.Jenis)
	assert.Equal(t, model.StatusBelumLunas, invoice.Status)
	assert.Empty(t, invoice.TanggalPelunasan)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(25000)), "total = %s", invoice.Total)

	// Satu pasang jurnal berimbang sebesar total.
	var entries []*model.JournalEntry
	require.NoError(t, db.Where("no_invoice = ?", invoice.NoInvoice).Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, model.AkunPiutangUsaha, entries[0].Akun)
	assert.True(t, entries[0].Debit.Equal(invoice.Total))
	assert.Equal(t, model.AkunPendapatanJasa, entries[1].Akun)
	assert.True(t, entries[1].Kredit.Equal(invoice.Total))
	for _, e := range entries {
		assert.True(t, e.FromPenjualan)
		assert.Equal(t, invoice.ID, e.InvoiceID)
	}

	// Pesan outbox ikut transaksi simpan.
	var messages []*model.SyncMessage
	require.NoError(t, db.Find(&messages).Error)
	require.Len(t, messages, 1)
	assert.Equal(t, invoice.NoInvoice, messages[0].MessageKey)
	assert.Equal(t, model.SyncStatusPending, messages[0].Status)

	// Aktivitas tercatat.
	var activities []*model.Activity
	require.NoError(t, db.Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, "admin", activities[0].Username)
	assert.Contains(t, activities[0].Activity, invoice.NoInvoice)
}

func TestCreateRegularValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	input := regularInput("INV/2026/09/001")
	input.NoInvoice = ""
	_, err := svc.Save(ctx, adminUser(), input)
	assert.ErrorIs(t, err, ErrInvalidInput)

	input = regularInput("INV/2026/09/001")
	input.Items = nil
	_, err = svc.Save(ctx, adminUser(), input)
	assert.ErrorIs(t, err, ErrInvalidInput)

	input = regularInput("INV/2026/09/001")
	input.Items[0].Price = decimal.NewFromInt(-100)
	_, err = svc.Save(ctx, adminUser(), input)
	assert.ErrorIs(t, err, ErrInvalidInput)

	input = regularInput("INV/2026/09/001")
	input.Jenis = "cicilan"
	_, err = svc.Save(ctx, adminUser(), input)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateDP(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	input := regularInput("INV-DP/2026/09/001")
	input.Jenis = model.JenisDP
	input.DP = decimal.NewFromInt(10000)

	invoice, err := svc.Save(ctx, adminUser(), input)
	require.NoError(t, err)

	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(25000)))
	assert.True(t, invoice.DP.Equal(decimal.NewFromInt(10000)))
	assert.True(t, invoice.Sisa.Equal(decimal.NewFromInt(15000)), "sisa = %s", invoice.Sisa)

	// Dua pasang: penjualan sebesar total, penerimaan uang muka sebesar dp.
	entries, err := repository.NewJournalRepository(db).ListByInvoice(ctx, invoice.NoInvoice)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.True(t, entries[0].Debit.Equal(decimal.NewFromInt(25000)))
	assert.True(t, entries[1].Kredit.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, model.AkunKas, entries[2].Akun)
	assert.True(t, entries[2].Debit.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, model.AkunUangMukaPelanggan, entries[3].Akun)
	assert.True(t, entries[3].Kredit.Equal(decimal.NewFromInt(10000)))
}

func TestCreateDPValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	input := regularInput("INV-DP/2026/09/001")
	input.Jenis = model.JenisDP
	_, err := svc.Save(ctx, adminUser(), input)
	assert.ErrorIs(t, err, ErrInvalidInput, "dp nol harus ditolak")

	input.DP = decimal.NewFromInt(30000)
	_, err = svc.Save(ctx, adminUser(), input)
	assert.ErrorIs(t, err, ErrInvalidInput, "dp melebihi total harus ditolak")
}

func TestCreatePelunasan(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	dpInput := regularInput("INV-DP/2026/09/001")
	dpInput.Jenis = model.JenisDP
	dpInput.DP = decimal.NewFromInt(10000)
	_, err := svc.Save(ctx, adminUser(), dpInput)
	require.NoError(t, err)

	_, err = svc.Save(ctx, adminUser(), regularInput("INV/2026/09/001"))
	require.NoError(t, err)

	invoice, err := svc.Save(ctx, adminUser(), SaveInvoiceInput{
		NoInvoice:     "INV-PEL/2026/09/001",
		Tanggal:       time.Now(),
		Customer:      "PT Samudra Jaya",
		Jenis:         model.JenisPelunasan,
		Amount:        decimal.NewFromInt(40000),
		RefNoInvoices: []string{"INV-DP/2026/09/001", "INV/2026/09/001"},
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusLunas, invoice.Status)
	assert.NotEmpty(t, invoice.TanggalPelunasan)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(40000)))
	// totalTagihan = jumlah total rujukan, totalDP = jumlah dp rujukan.
	assert.True(t, invoice.TotalTagihan.Equal(decimal.NewFromInt(50000)), "total tagihan = %s", invoice.TotalTagihan)
	assert.True(t, invoice.TotalDP.Equal(decimal.NewFromInt(10000)))
	require.Len(t, invoice.PelunasanRefs, 2)

	// Status Lunas dirambatkan ke kedua invoice rujukan.
	for _, no := range []string{"INV-DP/2026/09/001", "INV/2026/09/001"} {
		var ref model.Invoice
		require.NoError(t, db.Where("no_invoice = ?", no).First(&ref).Error)
		assert.Equal(t, model.StatusLunas, ref.Status, no)
		assert.NotEmpty(t, ref.TanggalPelunasan, no)
	}
}

func TestCreatePelunasanValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	_, err := svc.Save(ctx, adminUser(), SaveInvoiceInput{
		NoInvoice:     "INV-PEL/2026/09/001",
		Tanggal:       time.Now(),
		Jenis:         model.JenisPelunasan,
		Amount:        decimal.Zero,
		RefNoInvoices: []string{"INV/2026/09/001"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "jumlah nol harus ditolak")

	_, err = svc.Save(ctx, adminUser(), SaveInvoiceInput{
		NoInvoice: "INV-PEL/2026/09/001",
		Tanggal:   time.Now(),
		Jenis:     model.JenisPelunasan,
		Amount:    decimal.NewFromInt(1000),
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "tanpa rujukan harus ditolak")

	_, err = svc.Save(ctx, adminUser(), SaveInvoiceInput{
		NoInvoice:     "INV-PEL/2026/09/001",
		Tanggal:       time.Now(),
		Jenis:         model.JenisPelunasan,
		Amount:        decimal.NewFromInt(1000),
		RefNoInvoices: []string{"INV/1999/01/999"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "rujukan tak dikenal harus ditolak")
}

func TestSaveResolvesRegisteredCustomer(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	customer := &model.Customer{Nama: "CV Bahari"}
	require.NoError(t, db.Create(customer).Error)

	input := regularInput("INV/2026/09/001")
	input.Customer = ""
	input.CustomerID = &customer.ID

	invoice, err := svc.Save(ctx, adminUser(), input)
	require.NoError(t, err)
	assert.Equal(t, "CV Bahari", invoice.Customer)

	// Customer id yang tidak terdaftar ditolak.
	unknown := int64(999)
	input = regularInput("INV/2026/09/002")
	input.CustomerID = &unknown
	_, err = svc.Save(ctx, adminUser(), input)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSaveCustomer(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	err := svc.SaveCustomer(ctx, staffUser(), &model.Customer{Nama: "CV Bahari", Telp: "0811"})
	require.NoError(t, err)

	err = svc.SaveCustomer(ctx, staffUser(), &model.Customer{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.SaveCustomer(ctx, viewerUser(), &model.Customer{Nama: "Tidak Boleh"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	customers, err := svc.ListCustomers(ctx, viewerUser())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "CV Bahari", customers[0].Nama)
}

func TestViewerCannotCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	_, err := svc.Save(ctx, viewerUser(), regularInput("INV/2026/09/001"))
	assert.ErrorIs(t, err, ErrPermissionDenied)

	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Zero(t, count, "penolakan izin tidak boleh menyisakan data")

	_, err = svc.Save(ctx, nil, regularInput("INV/2026/09/001"))
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	invoice, err := svc.Save(ctx, adminUser(), regularInput("INV/2026/09/001"))
	require.NoError(t, err)

	// Ke Lunas: tanggal pelunasan terisi.
	updated, err := svc.UpdateStatus(ctx, staffUser(), invoice.NoInvoice, model.StatusLunas)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLunas, updated.Status)
	assert.NotEmpty(t, updated.TanggalPelunasan)
	firstDate := updated.TanggalPelunasan

	// Lunas lagi: tanggal yang sudah ada tidak ditimpa.
	updated, err = svc.UpdateStatus(ctx, staffUser(), invoice.NoInvoice, model.StatusLunas)
	require.NoError(t, err)
	assert.Equal(t, firstDate, updated.TanggalPelunasan)

	// Kembali ke Belum Lunas: tanggal dikosongkan.
	updated, err = svc.UpdateStatus(ctx, staffUser(), invoice.NoInvoice, model.StatusBelumLunas)
	require.NoError(t, err)
	assert.Empty(t, updated.TanggalPelunasan)

	// Viewer tidak boleh mengubah status.
	_, err = svc.UpdateStatus(ctx, viewerUser(), invoice.NoInvoice, model.StatusLunas)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Status di luar enum ditolak.
	_, err = svc.UpdateStatus(ctx, staffUser(), invoice.NoInvoice, "Dibatalkan")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	invoice, err := svc.Save(ctx, adminUser(), regularInput("INV/2026/09/001"))
	require.NoError(t, err)
	other, err := svc.Save(ctx, adminUser(), regularInput("INV/2026/09/002"))
	require.NoError(t, err)

	// Staff tidak punya izin hapus.
	err = svc.Delete(ctx, staffUser(), invoice.NoInvoice)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, svc.Delete(ctx, adminUser(), invoice.NoInvoice))

	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Jurnal invoice terhapus ikut hilang, milik invoice lain utuh.
	var journalCount int64
	require.NoError(t, db.Model(&model.JournalEntry{}).Where("no_invoice = ?", invoice.NoInvoice).Count(&journalCount).Error)
	assert.Zero(t, journalCount)
	require.NoError(t, db.Model(&model.JournalEntry{}).Where("no_invoice = ?", other.NoInvoice).Count(&journalCount).Error)
	assert.Equal(t, int64(2), journalCount)

	var itemCount int64
	require.NoError(t, db.Model(&model.InvoiceItem{}).Where("invoice_id = ?", invoice.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	err = svc.Delete(ctx, adminUser(), invoice.NoInvoice)
	assert.ErrorIs(t, err, repository.ErrInvoiceNotFound)
}

func TestGenerateInvoiceNumber(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	now := time.Now()
	expectFirst := fmt.Sprintf("INV/%04d/%02d/001", now.Year(), int(now.Month()))

	no, err := svc.GenerateInvoiceNumber(ctx, "regular")
	require.NoError(t, err)
	assert.Equal(t, expectFirst, no)

	_, err = svc.Save(ctx, adminUser(), regularInput(no))
	require.NoError(t, err)

	no, err = svc.GenerateInvoiceNumber(ctx, "reguler")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV/%04d/%02d/002", now.Year(), int(now.Month())), no)

	// Penomoran dp berjalan sendiri dengan prefix sendiri.
	no, err = svc.GenerateInvoiceNumber(ctx, model.JenisDP)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-DP/%04d/%02d/001", now.Year(), int(now.Month())), no)

	_, err = svc.GenerateInvoiceNumber(ctx, "cicilan")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDuplicateNoInvoice(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	_, err := svc.Save(ctx, adminUser(), regularInput("INV/2026/09/001"))
	require.NoError(t, err)

	_, err = svc.Save(ctx, adminUser(), regularInput("INV/2026/09/001"))
	assert.ErrorIs(t, err, repository.ErrDuplicateNoInvoice)

	// Transaksi gagal tidak boleh menyisakan jurnal maupun outbox baru.
	var journalCount, outboxCount int64
	require.NoError(t, db.Model(&model.JournalEntry{}).Count(&journalCount).Error)
	require.NoError(t, db.Model(&model.SyncMessage{}).Count(&outboxCount).Error)
	assert.Equal(t, int64(2), journalCount)
	assert.Equal(t, int64(1), outboxCount)
}

func TestListAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestInvoiceService(db)
	ctx := context.Background()

	created, err := svc.Save(ctx, adminUser(), regularInput("INV/2026/09/001"))
	require.NoError(t, err)

	invoices, total, err := svc.List(ctx, viewerUser(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, invoices, 1)

	got, err := svc.Get(ctx, viewerUser(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.NoInvoice, got.NoInvoice)
	assert.Len(t, got.Items, 2)

	_, err = svc.Get(ctx, viewerUser(), 99999)
	assert.ErrorIs(t, err, repository.ErrInvoiceNotFound)
}
