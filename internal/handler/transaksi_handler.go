package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pacificpro/internal/model"
	"pacificpro/internal/repository"
	"pacificpro/internal/service"
	"pacificpro/pkg/format"
	"pacificpro/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransaksiHandler melayani endpoint /api/transaksi yang dirutekan lewat
// parameter aksi, mengikuti kontrak klien lama.
type TransaksiHandler struct {
	invoiceService     *service.InvoiceService
	transactionService *service.TransactionService
}

func NewTransaksiHandler(invoiceService *service.InvoiceService, transactionService *service.TransactionService) *TransaksiHandler {
	return &TransaksiHandler{
		invoiceService:     invoiceService,
		transactionService: transactionService,
	}
}

// Handle mendistribusikan request berdasarkan parameter `action`.
func (h *TransaksiHandler) Handle(c *gin.Context) {
	action := c.Query("action")
	if action == "" {
		action = c.PostForm("action")
	}

	switch action {
	case "simpan_invoice":
		h.simpanInvoice(c)
	case "get_invoices":
		h.getInvoices(c)
	case "get_invoice":
		h.getInvoice(c)
	case "update_status_invoice":
		h.updateStatusInvoice(c)
	case "hapus_invoice":
		h.hapusInvoice(c)
	case "generate_no_invoice":
		h.generateNoInvoice(c)
	case "simpan_customer":
		h.simpanCustomer(c)
	case "get_customers":
		h.getCustomers(c)
	case "simpan_transaksi":
		h.simpanTransaksi(c)
	case "get_transaksi":
		h.getTransaksi(c)
	case "get_jurnal":
		h.getJurnal(c)
	case "laporan":
		h.laporan(c)
	default:
		response.ParamError(c, "aksi tidak dikenal: "+action)
	}
}

type saveInvoiceItemRequest struct {
	Description string          `json:"description"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
}

type saveInvoiceRequest struct {
	NoInvoice     string                   `json:"no_invoice" binding:"required"`
	Tanggal       string                   `json:"tanggal" binding:"required"`
	CustomerID    *int64                   `json:"customer_id"`
	Customer      string                   `json:"customer"`
	Jenis         string                   `json:"jenis"`
	DP            decimal.Decimal          `json:"dp"`
	Amount        decimal.Decimal          `json:"amount"`
	Items         []saveInvoiceItemRequest `json:"items"`
	RefNoInvoices []string                 `json:"pelunasan_invoices"`
}

func (h *TransaksiHandler) simpanInvoice(c *gin.Context) {
	var req saveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "data invoice tidak lengkap: "+err.Error())
		return
	}

	tanggal, err := time.ParseInLocation("2006-01-02", req.Tanggal, time.Local)
	if err != nil {
		response.ParamError(c, "format tanggal harus YYYY-MM-DD")
		return
	}

	input := service.SaveInvoiceInput{
		NoInvoice:     req.NoInvoice,
		Tanggal:       tanggal,
		CustomerID:    req.CustomerID,
		Customer:      req.Customer,
		Jenis:         req.Jenis,
		DP:            req.DP,
		Amount:        req.Amount,
		RefNoInvoices: req.RefNoInvoices,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.InvoiceItemInput{
			Description: item.Description,
			Qty:         item.Qty,
			Price:       item.Price,
		})
	}

	invoice, err := h.invoiceService.Save(c.Request.Context(), CurrentUser(c), input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, "invoice berhasil disimpan", gin.H{"invoice_id": invoice.ID, "invoice": invoice})
}

func (h *TransaksiHandler) getInvoices(c *gin.Context) {
	page, limit := pagination(c)
	invoices, total, err := h.invoiceService.List(c.Request.Context(), CurrentUser(c), page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessPaginated(c, invoices, page, limit, total)
}

func (h *TransaksiHandler) getInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "id invoice tidak valid")
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), CurrentUser(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// Ejaan nominal disertakan untuk tampilan cetak invoice.
	totalTerbilang := ""
	if nominal := invoice.Total.IntPart(); nominal > 0 {
		if words, err := format.Terbilang(nominal); err == nil {
			totalTerbilang = strings.TrimSpace(words) + " rupiah"
		}
	}

	response.Success(c, "success", gin.H{
		"invoice":         invoice,
		"total_rupiah":    format.Rupiah(invoice.Total),
		"total_terbilang": totalTerbilang,
	})
}

type updateStatusRequest struct {
	NoInvoice string `json:"no_invoice" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

func (h *TransaksiHandler) updateStatusInvoice(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "nomor invoice dan status wajib diisi")
		return
	}

	invoice, err := h.invoiceService.UpdateStatus(c.Request.Context(), CurrentUser(c), req.NoInvoice, req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, "status invoice berhasil diubah", invoice)
}

func (h *TransaksiHandler) hapusInvoice(c *gin.Context) {
	noInvoice := c.Query("no_invoice")
	if noInvoice == "" {
		response.ParamError(c, "nomor invoice wajib diisi")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), CurrentUser(c), noInvoice); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, "invoice berhasil dihapus", nil)
}

func (h *TransaksiHandler) generateNoInvoice(c *gin.Context) {
	noInvoice, err := h.invoiceService.GenerateInvoiceNumber(c.Request.Context(), c.Query("jenis"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, "success", gin.H{"no_invoice": noInvoice})
}

type saveCustomerRequest struct {
	Nama   string `json:"nama" binding:"required"`
	Alamat string `json:"alamat"`
	Telp   string `json:"telp"`
}

func (h *TransaksiHandler) simpanCustomer(c *gin.Context) {
	var req saveCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "nama customer wajib diisi")
		return
	}

	customer := &model.Customer{Nama: req.Nama, Alamat: req.Alamat, Telp: req.Telp}
	if err := h.invoiceService.SaveCustomer(c.Request.Context(), CurrentUser(c), customer); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, "customer berhasil disimpan", customer)
}

func (h *TransaksiHandler) getCustomers(c *gin.Context) {
	customers, err := h.invoiceService.ListCustomers(c.Request.Context(), CurrentUser(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, "success", customers)
}

type saveTransactionRequest struct {
	Tanggal     string          `json:"tanggal" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

func (h *TransaksiHandler) simpanTransaksi(c *gin.Context) {
	var req saveTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "tanggal dan deskripsi transaksi wajib diisi")
		return
	}

	tanggal, err := time.ParseInLocation("2006-01-02", req.Tanggal, time.Local)
	if err != nil {
		response.ParamError(c, "format tanggal harus YYYY-MM-DD")
		return
	}

	trans, err := h.transactionService.Save(c.Request.Context(), CurrentUser(c), service.SaveTransactionInput{
		Tanggal:     tanggal,
		Description: req.Description,
		Debit:       req.Debit,
		Credit:      req.Credit,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, "transaksi berhasil disimpan", trans)
}

func (h *TransaksiHandler) getTransaksi(c *gin.Context) {
	page, limit := pagination(c)
	transactions, total, err := h.transactionService.List(c.Request.Context(), CurrentUser(c), page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessPaginated(c, transactions, page, limit, total)
}

func (h *TransaksiHandler) getJurnal(c *gin.Context) {
	var fromPenjualan *bool
	if raw := c.Query("from_penjualan"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.ParamError(c, "from_penjualan harus true atau false")
			return
		}
		fromPenjualan = &v
	}

	entries, err := h.transactionService.ListJurnal(c.Request.Context(), CurrentUser(c), fromPenjualan)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, "success", entries)
}

func (h *TransaksiHandler) laporan(c *gin.Context) {
	start, err := time.ParseInLocation("2006-01-02", c.Query("start"), time.Local)
	if err != nil {
		response.ParamError(c, "tanggal awal laporan harus YYYY-MM-DD")
		return
	}
	end, err := time.ParseInLocation("2006-01-02", c.Query("end"), time.Local)
	if err != nil {
		response.ParamError(c, "tanggal akhir laporan harus YYYY-MM-DD")
		return
	}
	// Tanggal akhir inklusif sampai akhir hari.
	end = end.Add(24*time.Hour - time.Nanosecond)

	result, err := h.transactionService.Laporan(c.Request.Context(), CurrentUser(c), start, end, c.Query("cari"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, "success", result)
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// writeServiceError memetakan error service ke status HTTP yang sesuai.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		response.ParamError(c, err.Error())
	case errors.Is(err, repository.ErrInvoiceNotFound),
		errors.Is(err, repository.ErrTransactionNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, repository.ErrDuplicateNoInvoice):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrLockBusy):
		response.Error(c, http.StatusTooManyRequests, err.Error())
	default:
		response.ServerError(c, "terjadi kesalahan internal")
	}
}
