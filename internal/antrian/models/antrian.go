package models

import "time"

// QueueStatus adalah enumerasi tertutup status antrian loket.
type QueueStatus string

const (
	StatusMenunggu   QueueStatus = "menunggu"
	StatusDipanggil  QueueStatus = "dipanggil"
	StatusDilayani   QueueStatus = "dilayani"
	StatusSelesai    QueueStatus = "selesai"
	StatusDibatalkan QueueStatus = "dibatalkan"
)

func (s QueueStatus) Valid() bool {
	switch s {
	case StatusMenunggu, StatusDipanggil, StatusDilayani, StatusSelesai, StatusDibatalkan:
		return true
	}
	return false
}

// Terminal melaporkan apakah status ini adalah status akhir.
func (s QueueStatus) Terminal() bool {
	return s == StatusSelesai || s == StatusDibatalkan
}

// transisi maju yang diizinkan; dibatalkan boleh dari semua status non-terminal.
var transitions = map[QueueStatus]QueueStatus{
	StatusMenunggu:  StatusDipanggil,
	StatusDipanggil: StatusDilayani,
	StatusDilayani:  StatusSelesai,
}

// CanTransition memeriksa apakah perpindahan from -> to diizinkan.
func CanTransition(from, to QueueStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == StatusDibatalkan {
		return true
	}
	return transitions[from] == to
}

// Antrian mewakili satu nomor antrian layanan loket.
type Antrian struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	ServiceID      int         `json:"service_id"`
	NomorAntrian   string      `json:"nomor_antrian"`
	NomorUrut      int         `json:"nomor_urut"`
	QRCode         string      `json:"qr_code"`
	TanggalAntrian time.Time   `json:"tanggal_antrian"`
	Status         QueueStatus `json:"status"`
	DipanggilOleh  *int64      `json:"dipanggil_oleh,omitempty"`
	WaktuDipanggil *time.Time  `json:"waktu_dipanggil,omitempty"`
	WaktuDilayani  *time.Time  `json:"waktu_dilayani,omitempty"`
	WaktuSelesai   *time.Time  `json:"waktu_selesai,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// LayananInfo adalah metadata layanan loket untuk tampilan mobile.
type LayananInfo struct {
	ID       int    `json:"id"`
	Nama     string `json:"nama"`
	Warna    string `json:"warna"`
	Lokasi   string `json:"lokasi"`
}

// DaftarLayanan memetakan service_id ke metadata loketnya.
var DaftarLayanan = map[int]LayananInfo{
	1: {ID: 1, Nama: "Pembayaran SPP", Warna: "#16A085", Lokasi: "Loket 1"},
	2: {ID: 2, Nama: "Pengambilan Dokumen", Warna: "#3498DB", Lokasi: "Loket 2"},
	3: {ID: 3, Nama: "Konsultasi Akademik", Warna: "#E67E22", Lokasi: "Ruang BK"},
}

// StatistikLayanan ringkasan antrian satu layanan pada hari berjalan.
type StatistikLayanan struct {
	Current int `json:"current"`
	Waiting int `json:"waiting"`
	Serving int `json:"serving"`
	Served  int `json:"served"`
	Total   int `json:"total"`
}
