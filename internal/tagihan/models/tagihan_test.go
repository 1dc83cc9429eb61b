package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		terbayar int64
		jumlah   int64
		want     BillStatus
	}{
		{"belum bayar sama sekali", 0, 500000, BillUnpaid},
		{"terbayar negatif dianggap unpaid", -100, 500000, BillUnpaid},
		{"cicilan sebagian", 200000, 500000, BillPartial},
		{"kurang seribu", 499000, 500000, BillPartial},
		{"lunas persis", 500000, 500000, BillPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.terbayar, tt.jumlah))
		})
	}
}

func TestBillStatusValid(t *testing.T) {
	for _, s := range []BillStatus{BillUnpaid, BillPending, BillPartial, BillPaid, BillFailed} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, BillStatus("lunas").Valid())
	assert.False(t, BillStatus("").Valid())
}

func TestSisa(t *testing.T) {
	bill := Tagihan{Jumlah: 500000, Terbayar: 200000}
	assert.Equal(t, int64(300000), bill.Sisa())

	lunas := Tagihan{Jumlah: 500000, Terbayar: 500000}
	assert.Equal(t, int64(0), lunas.Sisa())
}

func TestNamaBulan(t *testing.T) {
	assert.Equal(t, "Januari", NamaBulan(1))
	assert.Equal(t, "Agustus", NamaBulan(8))
	assert.Equal(t, "Desember", NamaBulan(12))
	assert.Equal(t, "", NamaBulan(0))
	assert.Equal(t, "", NamaBulan(13))
}
