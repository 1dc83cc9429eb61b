package models

import "time"

// Pengumuman adalah pengumuman sekolah dengan jendela tayang opsional.
type Pengumuman struct {
	ID          int64      `json:"id"`
	Judul       string     `json:"judul"`
	Isi         string     `json:"isi"`
	Kategori    string     `json:"kategori,omitempty"`
	Gambar      string     `json:"gambar,omitempty"`
	TayangMulai *time.Time `json:"tayang_mulai,omitempty"`
	TayangAkhir *time.Time `json:"tayang_akhir,omitempty"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Event adalah agenda kegiatan sekolah.
type Event struct {
	ID           int64     `json:"id"`
	Judul        string    `json:"judul"`
	Deskripsi    string    `json:"deskripsi"`
	Kategori     string    `json:"kategori,omitempty"`
	Lokasi       string    `json:"lokasi,omitempty"`
	Gambar       string    `json:"gambar,omitempty"`
	TanggalMulai time.Time `json:"tanggal_mulai"`
	TanggalAkhir time.Time `json:"tanggal_akhir"`
	CreatedBy    int64     `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Banner adalah gambar carousel beranda dengan jendela tayang.
type Banner struct {
	ID          int64      `json:"id"`
	Judul       string     `json:"judul"`
	Gambar      string     `json:"gambar"`
	LinkURL     string     `json:"link_url,omitempty"`
	Urutan      int        `json:"urutan"`
	IsActive    bool       `json:"is_active"`
	TayangMulai *time.Time `json:"tayang_mulai,omitempty"`
	TayangAkhir *time.Time `json:"tayang_akhir,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EventReminder adalah permintaan pengingat satu siswa untuk satu event.
type EventReminder struct {
	ID         int64      `json:"id"`
	EventID    int64      `json:"event_id"`
	UserID     int64      `json:"user_id"`
	RemindAt   time.Time  `json:"remind_at"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
