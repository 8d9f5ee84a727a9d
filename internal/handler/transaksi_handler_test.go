package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pacificpro/internal/infrastructure/database"
	"pacificpro/internal/model"
	"pacificpro/internal/repository"
	"pacificpro/internal/service"
	"pacificpro/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T, user *model.User) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	invoiceService := service.NewInvoiceService(
		db,
		repository.NewInvoiceRepository(db),
		repository.NewJournalRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewOutboxRepository(db),
		repository.NewActivityRepository(db),
		nil, "test.invoice.sync", 1000)
	transactionService := service.NewTransactionService(
		db,
		repository.NewTransactionRepository(db),
		repository.NewJournalRepository(db),
		repository.NewActivityRepository(db),
		1000)

	h := NewTransaksiHandler(invoiceService, transactionService)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ctxUserKey, user)
		c.Next()
	})
	r.Any("/api/transaksi", h.Handle)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, url string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func TestHandleUnknownAction(t *testing.T) {
	r, _ := setupRouter(t, &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin})

	w, envelope := doJSON(t, r, http.MethodGet, "/api/transaksi?action=tidak_ada", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, envelope.Success)
}

func TestSimpanInvoiceEndpoint(t *testing.T) {
	r, db := setupRouter(t, &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin})

	body := gin.H{
		"no_invoice": "INV/2026/09/001",
		"tanggal":    "2026-09-01",
		"customer":   "PT Samudra Jaya",
		"jenis":      "regular",
		"items": []gin.H{
			{"description": "Jasa pengiriman", "qty": 2, "price": 10000},
		},
	}

	w, envelope := doJSON(t, r, http.MethodPost, "/api/transaksi?action=simpan_invoice", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, envelope.Success)

	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Nomor yang sama ditolak dengan 409.
	w, _ = doJSON(t, r, http.MethodPost, "/api/transaksi?action=simpan_invoice", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSimpanInvoiceForbiddenForViewer(t *testing.T) {
	r, db := setupRouter(t, &model.User{ID: 3, Username: "viewer", Role: model.RoleViewer})

	body := gin.H{
		"no_invoice": "INV/2026/09/001",
		"tanggal":    "2026-09-01",
		"jenis":      "regular",
		"items":      []gin.H{{"description": "x", "qty": 1, "price": 1000}},
	}

	w, _ := doJSON(t, r, http.MethodPost, "/api/transaksi?action=simpan_invoice", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetInvoicesPagination(t *testing.T) {
	r, _ := setupRouter(t, &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin})

	for _, no := range []string{"INV/2026/09/001", "INV/2026/09/002", "INV/2026/09/003"} {
		body := gin.H{
			"no_invoice": no,
			"tanggal":    "2026-09-01",
			"jenis":      "regular",
			"items":      []gin.H{{"description": "x", "qty": 1, "price": 1000}},
		}
		w, _ := doJSON(t, r, http.MethodPost, "/api/transaksi?action=simpan_invoice", body)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, envelope := doJSON(t, r, http.MethodGet, "/api/transaksi?action=get_invoices&page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, int64(3), envelope.Pagination.Total)
	assert.Equal(t, int64(2), envelope.Pagination.TotalPages)
	assert.Equal(t, 2, envelope.Pagination.Limit)
}

func TestGenerateNoInvoiceEndpoint(t *testing.T) {
	r, _ := setupRouter(t, &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin})

	w, envelope := doJSON(t, r, http.MethodGet, "/api/transaksi?action=generate_no_invoice&jenis=dp", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	no, _ := data["no_invoice"].(string)
	assert.Contains(t, no, "INV-DP/")
	assert.Contains(t, no, "/001")
}

func TestSimpanTransaksiEndpoint(t *testing.T) {
	r, db := setupRouter(t, &model.User{ID: 2, Username: "staff", Role: model.RoleStaff})

	w, envelope := doJSON(t, r, http.MethodPost, "/api/transaksi?action=simpan_transaksi", gin.H{
		"tanggal":     "2026-09-01",
		"description": "Pembelian ATK",
		"debit":       150000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, envelope.Success)

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Tanpa debit dan kredit ditolak.
	w, _ = doJSON(t, r, http.MethodPost, "/api/transaksi?action=simpan_transaksi", gin.H{
		"tanggal":     "2026-09-01",
		"description": "kosong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
