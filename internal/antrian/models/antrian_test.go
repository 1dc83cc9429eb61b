package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to QueueStatus
		want     bool
	}{
		{StatusMenunggu, StatusDipanggil, true},
		{StatusDipanggil, StatusDilayani, true},
		{StatusDilayani, StatusSelesai, true},
		{StatusMenunggu, StatusDilayani, false},
		{StatusMenunggu, StatusSelesai, false},
		{StatusDipanggil, StatusSelesai, false},
		// Pembatalan boleh dari semua status non-terminal.
		{StatusMenunggu, StatusDibatalkan, true},
		{StatusDipanggil, StatusDibatalkan, true},
		{StatusDilayani, StatusDibatalkan, true},
		// Status terminal menyerap: tidak ada jalan keluar.
		{StatusSelesai, StatusDipanggil, false},
		{StatusSelesai, StatusDibatalkan, false},
		{StatusDibatalkan, StatusMenunggu, false},
		{StatusDibatalkan, StatusSelesai, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusSelesai.Terminal())
	assert.True(t, StatusDibatalkan.Terminal())
	assert.False(t, StatusMenunggu.Terminal())
	assert.False(t, StatusDipanggil.Terminal())
	assert.False(t, StatusDilayani.Terminal())
}

func TestQueueStatusValid(t *testing.T) {
	for _, s := range []QueueStatus{StatusMenunggu, StatusDipanggil, StatusDilayani, StatusSelesai, StatusDibatalkan} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, QueueStatus("waiting").Valid())
}

func TestDaftarLayanan(t *testing.T) {
	assert.Len(t, DaftarLayanan, 3)
	assert.Equal(t, "Pembayaran SPP", DaftarLayanan[1].Nama)
	assert.Equal(t, "Loket 1", DaftarLayanan[1].Lokasi)
	assert.Equal(t, "Ruang BK", DaftarLayanan[3].Lokasi)
}
