package services

import (
	"database/sql"
	"time"

	antrianmodels "github.com/sekolahapp/spp-backend/internal/antrian/models"
	antrianservices "github.com/sekolahapp/spp-backend/internal/antrian/services"
	tagihanmodels "github.com/sekolahapp/spp-backend/internal/tagihan/models"
)

type DashboardService struct {
	DB      *sql.DB
	Antrian *antrianservices.AntrianService
}

func NewDashboardService(db *sql.DB, antrian *antrianservices.AntrianService) *DashboardService {
	return &DashboardService{DB: db, Antrian: antrian}
}

// SiswaDashboard adalah ringkasan beranda aplikasi siswa.
type SiswaDashboard struct {
	TotalTunggakan  int64                               `json:"total_tunggakan"`
	JumlahTagihan   int                                 `json:"jumlah_tagihan_belum_lunas"`
	StatusBulanIni  string                              `json:"status_bulan_ini"`
	AntrianAktif    []antrianservices.AntrianAktifSaya  `json:"antrian_aktif"`
	NotifBelumBaca  int                                 `json:"notifikasi_belum_dibaca"`
}

// SiswaStats menghitung ringkasan beranda untuk satu siswa.
func (s *DashboardService) SiswaStats(userID int64) (*SiswaDashboard, error) {
	d := &SiswaDashboard{}

	err := s.DB.QueryRow(
		`SELECT COALESCE(SUM(jumlah - terbayar), 0), COUNT(*)
		 FROM tagihan
		 WHERE user_id = ? AND status IN ('unpaid', 'pending', 'partial', 'failed')`,
		userID,
	).Scan(&d.TotalTunggakan, &d.JumlahTagihan)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var statusBulanIni sql.NullString
	err = s.DB.QueryRow(
		"SELECT status FROM tagihan WHERE user_id = ? AND tahun = ? AND bulan = ?",
		userID, now.Year(), int(now.Month()),
	).Scan(&statusBulanIni)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if statusBulanIni.Valid {
		d.StatusBulanIni = statusBulanIni.String
	} else {
		d.StatusBulanIni = string(tagihanmodels.BillUnpaid)
	}

	aktif, err := s.Antrian.MyActiveQueue(userID)
	if err != nil {
		return nil, err
	}
	d.AntrianAktif = aktif

	err = s.DB.QueryRow("SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0", userID).Scan(&d.NotifBelumBaca)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// AdminDashboard adalah ringkasan beranda panel petugas/admin.
type AdminDashboard struct {
	PemasukanHariIni    int64 `json:"pemasukan_hari_ini"`
	PemasukanBulanIni   int64 `json:"pemasukan_bulan_ini"`
	MenungguVerifikasi  int   `json:"menunggu_verifikasi"`
	AntrianMenunggu     int   `json:"antrian_menunggu"`
	AntrianDilayani     int   `json:"antrian_dilayani"`
	AntrianSelesai      int   `json:"antrian_selesai_hari_ini"`
	TotalSiswa          int   `json:"total_siswa"`
	TagihanBelumLunas   int   `json:"tagihan_belum_lunas"`
}

// AdminStats menghitung ringkasan beranda panel admin. Pemasukan dihitung
// dari pembayaran terverifikasi.
func (s *DashboardService) AdminStats() (*AdminDashboard, error) {
	d := &AdminDashboard{}
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	err := s.DB.QueryRow(
		"SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'verified' AND verified_at >= ?",
		startOfDay,
	).Scan(&d.PemasukanHariIni)
	if err != nil {
		return nil, err
	}

	err = s.DB.QueryRow(
		"SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'verified' AND verified_at >= ?",
		startOfMonth,
	).Scan(&d.PemasukanBulanIni)
	if err != nil {
		return nil, err
	}

	if err := s.DB.QueryRow("SELECT COUNT(*) FROM payments WHERE status = 'pending'").Scan(&d.MenungguVerifikasi); err != nil {
		return nil, err
	}

	tanggal := now.Format("2006-01-02")
	err = s.DB.QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		 FROM antrian WHERE tanggal_antrian = ?`,
		string(antrianmodels.StatusMenunggu), string(antrianmodels.StatusDilayani), string(antrianmodels.StatusSelesai), tanggal,
	).Scan(&d.AntrianMenunggu, &d.AntrianDilayani, &d.AntrianSelesai)
	if err != nil {
		return nil, err
	}

	if err := s.DB.QueryRow("SELECT COUNT(*) FROM users WHERE role = 'siswa'").Scan(&d.TotalSiswa); err != nil {
		return nil, err
	}

	err = s.DB.QueryRow(
		"SELECT COUNT(*) FROM tagihan WHERE status IN ('unpaid', 'pending', 'partial', 'failed')",
	).Scan(&d.TagihanBelumLunas)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SearchResult adalah satu hasil pencarian lintas konten.
type SearchResult struct {
	Tipe      string    `json:"tipe"`
	ID        int64     `json:"id"`
	Judul     string    `json:"judul"`
	Ringkasan string    `json:"ringkasan"`
	CreatedAt time.Time `json:"created_at"`
}

// Search mencari pengumuman dan event berdasarkan judul.
func (s *DashboardService) Search(keyword string) ([]SearchResult, error) {
	like := "%" + keyword + "%"
	var result []SearchResult

	rows, err := s.DB.Query(
		"SELECT id, judul, isi, created_at FROM announcements WHERE judul LIKE ? ORDER BY created_at DESC LIMIT 20",
		like,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		r := SearchResult{Tipe: "pengumuman"}
		if err := rows.Scan(&r.ID, &r.Judul, &r.Ringkasan, &r.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows2, err := s.DB.Query(
		"SELECT id, judul, deskripsi, created_at FROM events WHERE judul LIKE ? ORDER BY tanggal_mulai ASC LIMIT 20",
		like,
	)
	if err != nil {
		return nil, err
	}
	defer rows2.Close()
	for rows2.Next() {
		r := SearchResult{Tipe: "event"}
		if err := rows2.Scan(&r.ID, &r.Judul, &r.Ringkasan, &r.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows2.Err()
}
