package format

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

var namaBulan = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Rupiah memformat nominal menjadi "Rp 25.000" dengan pemisah ribuan
// gaya Indonesia. Sen dibuang; rupiah tidak memakai pecahan di tampilan.
func Rupiah(nominal decimal.Decimal) string {
	return idPrinter.Sprintf("Rp %d", nominal.IntPart())
}

// TanggalIndonesia memformat tanggal ke bentuk panjang, "2 Januari 2006".
func TanggalIndonesia(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), namaBulan[t.Month()-1], t.Year())
}
