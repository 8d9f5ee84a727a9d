package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRupiah(t *testing.T) {
	assert.Equal(t, "Rp 0", Rupiah(decimal.Zero))
	assert.Equal(t, "Rp 500", Rupiah(decimal.NewFromInt(500)))
	assert.Equal(t, "Rp 25.000", Rupiah(decimal.NewFromInt(25000)))
	assert.Equal(t, "Rp 1.500.000", Rupiah(decimal.NewFromInt(1500000)))
	// Sen dibuang dari tampilan.
	assert.Equal(t, "Rp 25.000", Rupiah(decimal.NewFromFloat(25000.75)))
}

func TestTanggalIndonesia(t *testing.T) {
	assert.Equal(t, "2 Januari 2026",
		TanggalIndonesia(time.Date(2026, time.January, 2, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "17 Agustus 2025",
		TanggalIndonesia(time.Date(2025, time.August, 17, 10, 30, 0, 0, time.Local)))
	assert.Equal(t, "31 Desember 2024",
		TanggalIndonesia(time.Date(2024, time.December, 31, 23, 59, 0, 0, time.Local)))
}
