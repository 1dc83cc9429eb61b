package models

import "time"

// Role pengguna aplikasi.
const (
	RoleSiswa   = "siswa"
	RolePetugas = "petugas"
	RoleAdmin   = "admin"
)

// User adalah akun aplikasi (siswa, petugas loket, atau admin).
type User struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Password   string     `json:"-"`
	Role       string     `json:"role"`
	NISN       string     `json:"nisn,omitempty"`
	NIS        string     `json:"nis,omitempty"`
	Kelas      string     `json:"kelas,omitempty"`
	Jurusan    string     `json:"jurusan,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Alamat     string     `json:"alamat,omitempty"`
	TahunMasuk int        `json:"tahun_masuk,omitempty"`
	FCMToken   string     `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

// Status siswa pada roster NISN.
const (
	RosterAktif  = "aktif"
	RosterLulus  = "lulus"
	RosterPindah = "pindah"
	RosterKeluar = "keluar"
)

// ValidStudent adalah satu baris roster NISN yang boleh mendaftar.
// DataPembayaran menyimpan riwayat pembayaran bawaan (JSON) yang dipakai
// untuk membuat tagihan lunas saat registrasi.
type ValidStudent struct {
	ID             int64  `json:"id"`
	NISN           string `json:"nisn"`
	Name           string `json:"name"`
	Kelas          string `json:"kelas"`
	Jurusan        string `json:"jurusan"`
	TahunMasuk     int    `json:"tahun_masuk"`
	Status         string `json:"status"`
	IsRegistered   bool   `json:"is_registered"`
	DataPembayaran string `json:"-"`
}

// BolehDaftar menentukan apakah baris roster masih bisa dipakai mendaftar.
func (v *ValidStudent) BolehDaftar() bool {
	return v.Status == RosterAktif && !v.IsRegistered
}
