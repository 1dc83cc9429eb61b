package models

import "time"

// Jenis notifikasi.
const (
	TipePayment = "payment"
	TipeQueue   = "queue"
	TipeEvent   = "event"
	TipeGeneral = "general"
)

// Notifikasi adalah satu pesan di kotak masuk pengguna. Data menyimpan
// payload JSON bebas milik jenisnya (id pembayaran, id antrian, dsb).
type Notifikasi struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Tipe      string    `json:"tipe"`
	Judul     string    `json:"judul"`
	Pesan     string    `json:"pesan"`
	Data      string    `json:"data,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// TipeValid memeriksa jenis notifikasi yang dikenal.
func TipeValid(tipe string) bool {
	switch tipe {
	case TipePayment, TipeQueue, TipeEvent, TipeGeneral:
		return true
	}
	return false
}
