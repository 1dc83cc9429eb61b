package models

import "time"

// BillStatus adalah enumerasi tertutup status tagihan SPP.
type BillStatus string

const (
	BillUnpaid  BillStatus = "unpaid"
	BillPending BillStatus = "pending"
	BillPartial BillStatus = "partial"
	BillPaid    BillStatus = "paid"
	BillFailed  BillStatus = "failed"
)

func (s BillStatus) Valid() bool {
	switch s {
	case BillUnpaid, BillPending, BillPartial, BillPaid, BillFailed:
		return true
	}
	return false
}

// DeriveStatus menghitung status tagihan murni dari (terbayar, jumlah).
// Status pending adalah overlay transisi milik alur verifikasi, bukan hasil
// fungsi ini.
func DeriveStatus(terbayar, jumlah int64) BillStatus {
	switch {
	case terbayar <= 0:
		return BillUnpaid
	case terbayar < jumlah:
		return BillPartial
	default:
		return BillPaid
	}
}

// Tagihan mewakili satu tagihan SPP bulanan milik satu siswa.
type Tagihan struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	NomorTagihan string     `json:"nomor_tagihan"`
	Bulan        int        `json:"bulan"`
	Tahun        int        `json:"tahun"`
	Jumlah       int64      `json:"jumlah"`
	Terbayar     int64      `json:"terbayar"`
	Status       BillStatus `json:"status"`
	JatuhTempo   time.Time  `json:"jatuh_tempo"`
	TanggalBayar *time.Time `json:"tanggal_bayar,omitempty"`
	MetodeBayar  string     `json:"metode_bayar,omitempty"`
	Denda        int64      `json:"denda"`
	Catatan      string     `json:"catatan,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Sisa mengembalikan sisa tagihan yang belum dibayar, minimum 0.
// Hanya untuk tampilan, tidak pernah disimpan.
func (t *Tagihan) Sisa() int64 {
	sisa := t.Jumlah - t.Terbayar
	if sisa < 0 || t.Status == BillPaid {
		return 0
	}
	return sisa
}

var namaBulan = [13]string{"",
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// NamaBulan mengembalikan nama bulan Indonesia untuk angka 1-12.
func NamaBulan(bulan int) string {
	if bulan < 1 || bulan > 12 {
		return ""
	}
	return namaBulan[bulan]
}

// NamaBulanTagihan nama bulan tagihan ini.
func (t *Tagihan) NamaBulan() string {
	return NamaBulan(t.Bulan)
}
