package format

import (
	"errors"
)

var (
	// ErrTerbilangInvalid dikembalikan untuk nol dan angka negatif.
	ErrTerbilangInvalid = errors.New("terbilang: angka harus lebih dari 0")
	// ErrTerbilangTooLarge dikembalikan untuk angka >= 10^15.
	ErrTerbilangTooLarge = errors.New("terbilang: angka terlalu besar")
)

var bilne = []string{
	"", "satu", "dua", "tiga", "empat", "lima", "enam",
	"tujuh", "delapan", "sembilan", "sepuluh", "sebelas",
}

// Terbilang mengubah nominal menjadi ejaan bahasa Indonesia
// ("dua puluh lima ribu "). Spasi penggabungan mengikuti aturan ejaan
// rekursif lama apa adanya, termasuk spasi ekor pada hasil antara.
// Nol dan angka negatif ditolak, bukan ditebak.
func Terbilang(angka int64) (string, error) {
	if angka <= 0 {
		return "", ErrTerbilangInvalid
	}
	if angka >= 1_000_000_000_000_000 {
		return "", ErrTerbilangTooLarge
	}
	return terbilang(angka), nil
}

func terbilang(angka int64) string {
	switch {
	case angka < 12:
		return bilne[angka]
	case angka < 20:
		return terbilang(angka-10) + " belas"
	case angka < 100:
		return terbilang(angka/10) + " puluh " + terbilang(angka%10)
	case angka < 200:
		return "seratus " + terbilang(angka-100)
	case angka < 1000:
		return terbilang(angka/100) + " ratus " + terbilang(angka%100)
	case angka < 2000:
		return "seribu " + terbilang(angka-1000)
	case angka < 1_000_000:
		return terbilang(angka/1000) + " ribu " + terbilang(angka%1000)
	case angka < 1_000_000_000:
		return terbilang(angka/1_000_000) + " juta " + terbilang(angka%1_000_000)
	case angka < 1_000_000_000_000:
		return terbilang(angka/1_000_000_000) + " miliar " + terbilang(angka%1_000_000_000)
	default:
		return terbilang(angka/1_000_000_000_000) + " triliun " + terbilang(angka%1_000_000_000_000)
	}
}
