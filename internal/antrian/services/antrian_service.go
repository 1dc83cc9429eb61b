package services

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sekolahapp/spp-backend/internal/antrian/models"
)

var (
	// ErrDuplicateActiveTicket dikembalikan jika siswa masih punya antrian aktif
	// untuk layanan yang sama hari ini.
	ErrDuplicateActiveTicket = errors.New("anda sudah memiliki antrian aktif untuk layanan ini")
	// ErrNoWaitingTicket dikembalikan callNext jika tidak ada antrian menunggu.
	ErrNoWaitingTicket = errors.New("tidak ada antrian yang menunggu")
	// ErrInvalidTransition dikembalikan untuk perpindahan status yang tidak diizinkan.
	ErrInvalidTransition = errors.New("perpindahan status antrian tidak diizinkan")
	// ErrAntrianNotFound dikembalikan jika antrian tidak ditemukan.
	ErrAntrianNotFound = errors.New("antrian tidak ditemukan")
	// ErrUnknownService dikembalikan untuk service_id di luar daftar layanan.
	ErrUnknownService = errors.New("layanan tidak dikenal")
)

// MenitPerAntrian adalah konstanta estimasi waktu layanan per antrian.
const MenitPerAntrian = 3

type AntrianService struct {
	DB *sql.DB
}

func NewAntrianService(db *sql.DB) *AntrianService {
	return &AntrianService{DB: db}
}

const antrianColumns = `id, user_id, service_id, nomor_antrian, nomor_urut, qr_code, tanggal_antrian, status, dipanggil_oleh, waktu_dipanggil, waktu_dilayani, waktu_selesai, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAntrian(row rowScanner) (*models.Antrian, error) {
	var a models.Antrian
	var status string
	var dipanggilOleh sql.NullInt64
	var waktuDipanggil, waktuDilayani, waktuSelesai sql.NullTime

	err := row.Scan(
		&a.ID, &a.UserID, &a.ServiceID, &a.NomorAntrian, &a.NomorUrut,
		&a.QRCode, &a.TanggalAntrian, &status,
		&dipanggilOleh, &waktuDipanggil, &waktuDilayani, &waktuSelesai,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = models.QueueStatus(status)
	if dipanggilOleh.Valid {
		a.DipanggilOleh = &dipanggilOleh.Int64
	}
	if waktuDipanggil.Valid {
		a.WaktuDipanggil = &waktuDipanggil.Time
	}
	if waktuDilayani.Valid {
		a.WaktuDilayani = &waktuDilayani.Time
	}
	if waktuSelesai.Valid {
		a.WaktuSelesai = &waktuSelesai.Time
	}
	return &a, nil
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// generateQRCode membangun kode scan unik:
// SHA-256(uuid + nanotime + service + user + 16 byte acak).
func generateQRCode(userID int64, serviceID int) string {
	salt := make([]byte, 16)
	rand.Read(salt)
	raw := fmt.Sprintf("%s%d%d%d%s",
		uuid.NewString(), time.Now().UnixNano(), serviceID, userID, hex.EncodeToString(salt))
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Create mengambil nomor antrian baru untuk siswa. Nomor urut per
// (layanan, hari) dialokasikan MAX+1 di bawah kunci FOR UPDATE; QR code
// diundi ulang selama masih bentrok (praktis tidak pernah terjadi, loop ini
// hanya jaring pengaman kebenaran).
func (s *AntrianService) Create(userID int64, serviceID int) (*models.Antrian, error) {
	if _, ok := models.DaftarLayanan[serviceID]; !ok {
		return nil, ErrUnknownService
	}

	tanggal := today()

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	var active int
	err = tx.QueryRow(
		"SELECT COUNT(*) FROM antrian WHERE user_id = ? AND service_id = ? AND tanggal_antrian = ? AND status IN ('menunggu', 'dipanggil', 'dilayani')",
		userID, serviceID, tanggal,
	).Scan(&active)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if active > 0 {
		tx.Rollback()
		return nil, ErrDuplicateActiveTicket
	}

	var lastUrut int
	err = tx.QueryRow(
		"SELECT COALESCE(MAX(nomor_urut), 0) FROM antrian WHERE service_id = ? AND tanggal_antrian = ? FOR UPDATE",
		serviceID, tanggal,
	).Scan(&lastUrut)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now()
	urut := lastUrut + 1
	nomor := fmt.Sprintf("Q%s%03d", now.Format("20060102"), urut)

	var qrCode string
	for {
		qrCode = generateQRCode(userID, serviceID)
		var exists int
		if err := tx.QueryRow("SELECT COUNT(*) FROM antrian WHERE qr_code = ?", qrCode).Scan(&exists); err != nil {
			tx.Rollback()
			return nil, err
		}
		if exists == 0 {
			break
		}
	}

	res, err := tx.Exec(
		`INSERT INTO antrian (user_id, service_id, nomor_antrian, nomor_urut, qr_code, tanggal_antrian, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 'menunggu', ?, ?)`,
		userID, serviceID, nomor, urut, qrCode, tanggal, now, now,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Antrian{
		ID:             id,
		UserID:         userID,
		ServiceID:      serviceID,
		NomorAntrian:   nomor,
		NomorUrut:      urut,
		QRCode:         qrCode,
		TanggalAntrian: now,
		Status:         models.StatusMenunggu,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// CallNext memanggil antrian menunggu paling lama hari ini (FIFO lintas
// layanan) dan mencatat petugas pemanggil.
func (s *AntrianService) CallNext(officerID int64) (*models.Antrian, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(
		"SELECT "+antrianColumns+" FROM antrian WHERE tanggal_antrian = ? AND status = 'menunggu' ORDER BY id ASC LIMIT 1 FOR UPDATE",
		today(),
	)
	a, err := scanAntrian(row)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrNoWaitingTicket
		}
		return nil, err
	}

	now := time.Now()
	_, err = tx.Exec(
		"UPDATE antrian SET status = 'dipanggil', dipanggil_oleh = ?, waktu_dipanggil = ?, updated_at = ? WHERE id = ?",
		officerID, now, now, a.ID,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	a.Status = models.StatusDipanggil
	a.DipanggilOleh = &officerID
	a.WaktuDipanggil = &now
	return a, nil
}

// transition memindahkan antrian ke status tujuan sesuai tabel transisi.
func (s *AntrianService) transition(queueID int64, to models.QueueStatus, timestampColumn string) (*models.Antrian, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow("SELECT "+antrianColumns+" FROM antrian WHERE id = ? FOR UPDATE", queueID)
	a, err := scanAntrian(row)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrAntrianNotFound
		}
		return nil, err
	}

	if !models.CanTransition(a.Status, to) {
		tx.Rollback()
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	query := "UPDATE antrian SET status = ?, updated_at = ?"
	args := []interface{}{string(to), now}
	if timestampColumn != "" {
		query += ", " + timestampColumn + " = ?"
		args = append(args, now)
	}
	query += " WHERE id = ?"
	args = append(args, queueID)

	if _, err := tx.Exec(query, args...); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	a.Status = to
	switch to {
	case models.StatusDilayani:
		a.WaktuDilayani = &now
	case models.StatusSelesai:
		a.WaktuSelesai = &now
	}
	a.UpdatedAt = now
	return a, nil
}

// Serve menandai antrian sedang dilayani.
func (s *AntrianService) Serve(queueID int64) (*models.Antrian, error) {
	return s.transition(queueID, models.StatusDilayani, "waktu_dilayani")
}

// Complete menandai antrian selesai.
func (s *AntrianService) Complete(queueID int64) (*models.Antrian, error) {
	return s.transition(queueID, models.StatusSelesai, "waktu_selesai")
}

// Cancel membatalkan antrian dari status non-terminal mana pun.
func (s *AntrianService) Cancel(queueID int64) (*models.Antrian, error) {
	return s.transition(queueID, models.StatusDibatalkan, "")
}

// Get mengambil satu antrian berdasarkan id.
func (s *AntrianService) Get(queueID int64) (*models.Antrian, error) {
	row := s.DB.QueryRow("SELECT "+antrianColumns+" FROM antrian WHERE id = ?", queueID)
	a, err := scanAntrian(row)
	if err == sql.ErrNoRows {
		return nil, ErrAntrianNotFound
	}
	return a, err
}

// ScanQR mencari antrian hari ini berdasarkan kode QR.
func (s *AntrianService) ScanQR(qrCode string) (*models.Antrian, error) {
	row := s.DB.QueryRow(
		"SELECT "+antrianColumns+" FROM antrian WHERE qr_code = ? AND tanggal_antrian = ?",
		qrCode, today(),
	)
	a, err := scanAntrian(row)
	if err == sql.ErrNoRows {
		return nil, ErrAntrianNotFound
	}
	return a, err
}

// AntrianAktif adalah baris antrian beserta identitas siswanya untuk papan petugas.
type AntrianAktif struct {
	models.Antrian
	NamaSiswa string `json:"nama_siswa"`
	NIS       string `json:"nis,omitempty"`
	Kelas     string `json:"kelas,omitempty"`
}

// ActiveQueues mengambil semua antrian aktif hari ini beserta nama siswa.
func (s *AntrianService) ActiveQueues() ([]AntrianAktif, error) {
	rows, err := s.DB.Query(
		`SELECT a.id, a.user_id, a.service_id, a.nomor_antrian, a.nomor_urut, a.qr_code, a.tanggal_antrian, a.status, a.dipanggil_oleh, a.waktu_dipanggil, a.waktu_dilayani, a.waktu_selesai, a.created_at, a.updated_at, u.name, u.nis, u.kelas
		 FROM antrian a
		 JOIN users u ON a.user_id = u.id
		 WHERE a.tanggal_antrian = ? AND a.status IN ('menunggu', 'dipanggil', 'dilayani')
		 ORDER BY a.id ASC`,
		today(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AntrianAktif
	for rows.Next() {
		var a AntrianAktif
		var status string
		var dipanggilOleh sql.NullInt64
		var waktuDipanggil, waktuDilayani, waktuSelesai sql.NullTime
		var nis, kelas sql.NullString

		err := rows.Scan(
			&a.ID, &a.UserID, &a.ServiceID, &a.NomorAntrian, &a.NomorUrut,
			&a.QRCode, &a.TanggalAntrian, &status,
			&dipanggilOleh, &waktuDipanggil, &waktuDilayani, &waktuSelesai,
			&a.CreatedAt, &a.UpdatedAt, &a.NamaSiswa, &nis, &kelas,
		)
		if err != nil {
			return nil, err
		}
		a.Status = models.QueueStatus(status)
		if dipanggilOleh.Valid {
			a.DipanggilOleh = &dipanggilOleh.Int64
		}
		if waktuDipanggil.Valid {
			a.WaktuDipanggil = &waktuDipanggil.Time
		}
		if waktuDilayani.Valid {
			a.WaktuDilayani = &waktuDilayani.Time
		}
		if waktuSelesai.Valid {
			a.WaktuSelesai = &waktuSelesai.Time
		}
		a.NIS = nis.String
		a.Kelas = kelas.String
		result = append(result, a)
	}
	return result, rows.Err()
}

// MyQueues mengambil riwayat antrian seorang siswa.
func (s *AntrianService) MyQueues(userID int64) ([]models.Antrian, error) {
	rows, err := s.DB.Query(
		"SELECT "+antrianColumns+" FROM antrian WHERE user_id = ? ORDER BY tanggal_antrian DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Antrian
	for rows.Next() {
		a, err := scanAntrian(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// AntrianAktifSaya adalah antrian aktif siswa lengkap dengan posisi dan estimasi.
type AntrianAktifSaya struct {
	models.Antrian
	Layanan          models.LayananInfo      `json:"layanan"`
	AntrianDiDepan   int                     `json:"antrian_di_depan"`
	NomorSaatIni     int                     `json:"nomor_saat_ini"`
	EstimasiMenit    int                     `json:"estimasi_menit"`
	EstimasiTeks     string                  `json:"estimasi_teks"`
	Statistik        models.StatistikLayanan `json:"statistik"`
}

// MyActiveQueue mengambil antrian aktif siswa hari ini lengkap dengan jumlah
// antrian di depannya dan estimasi menunggu (jumlah di depan x 3 menit).
func (s *AntrianService) MyActiveQueue(userID int64) ([]AntrianAktifSaya, error) {
	tanggal := today()

	rows, err := s.DB.Query(
		"SELECT "+antrianColumns+" FROM antrian WHERE user_id = ? AND tanggal_antrian = ? AND status IN ('menunggu', 'dipanggil', 'dilayani') ORDER BY service_id ASC",
		userID, tanggal,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var active []models.Antrian
	for rows.Next() {
		a, err := scanAntrian(rows)
		if err != nil {
			return nil, err
		}
		active = append(active, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var result []AntrianAktifSaya
	for _, a := range active {
		var ahead int
		err := s.DB.QueryRow(
			"SELECT COUNT(*) FROM antrian WHERE service_id = ? AND tanggal_antrian = ? AND status IN ('menunggu', 'dipanggil') AND id < ?",
			a.ServiceID, tanggal, a.ID,
		).Scan(&ahead)
		if err != nil {
			return nil, err
		}

		var current sql.NullInt64
		err = s.DB.QueryRow(
			"SELECT nomor_urut FROM antrian WHERE service_id = ? AND tanggal_antrian = ? AND status = 'dilayani' ORDER BY id ASC LIMIT 1",
			a.ServiceID, tanggal,
		).Scan(&current)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}

		stats, err := s.serviceStats(a.ServiceID, tanggal)
		if err != nil {
			return nil, err
		}

		estimasi := ahead * MenitPerAntrian
		result = append(result, AntrianAktifSaya{
			Antrian:        a,
			Layanan:        models.DaftarLayanan[a.ServiceID],
			AntrianDiDepan: ahead,
			NomorSaatIni:   int(current.Int64),
			EstimasiMenit:  estimasi,
			EstimasiTeks:   FormatEstimasi(estimasi),
			Statistik:      *stats,
		})
	}
	return result, nil
}

func (s *AntrianService) serviceStats(serviceID int, tanggal string) (*models.StatistikLayanan, error) {
	var stats models.StatistikLayanan
	err := s.DB.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'menunggu' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'dilayani' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status IN ('dilayani', 'selesai') THEN 1 ELSE 0 END), 0)
		 FROM antrian WHERE service_id = ? AND tanggal_antrian = ?`,
		serviceID, tanggal,
	).Scan(&stats.Total, &stats.Waiting, &stats.Serving, &stats.Served)
	if err != nil {
		return nil, err
	}

	var current sql.NullInt64
	err = s.DB.QueryRow(
		"SELECT nomor_urut FROM antrian WHERE service_id = ? AND tanggal_antrian = ? AND status = 'dipanggil' ORDER BY id DESC LIMIT 1",
		serviceID, tanggal,
	).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	stats.Current = int(current.Int64)
	return &stats, nil
}

// LayananStatistik adalah statistik publik satu layanan loket.
type LayananStatistik struct {
	models.LayananInfo
	Statistik models.StatistikLayanan `json:"statistik"`
}

// Services mengembalikan daftar layanan beserta statistik antrian hari ini.
func (s *AntrianService) Services() ([]LayananStatistik, error) {
	tanggal := today()
	var result []LayananStatistik
	for serviceID := 1; serviceID <= len(models.DaftarLayanan); serviceID++ {
		stats, err := s.serviceStats(serviceID, tanggal)
		if err != nil {
			return nil, err
		}
		result = append(result, LayananStatistik{
			LayananInfo: models.DaftarLayanan[serviceID],
			Statistik:   *stats,
		})
	}
	return result, nil
}

// FormatEstimasi memformat estimasi menunggu dalam teks Indonesia.
func FormatEstimasi(menit int) string {
	switch {
	case menit == 0:
		return "Siap dilayani"
	case menit < 60:
		return fmt.Sprintf("%d menit", menit)
	default:
		jam := menit / 60
		sisa := menit % 60
		if sisa == 0 {
			return fmt.Sprintf("%d jam", jam)
		}
		return fmt.Sprintf("%d jam %d menit", jam, sisa)
	}
}
