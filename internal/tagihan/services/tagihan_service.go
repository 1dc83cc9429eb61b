package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sekolahapp/spp-backend/internal/tagihan/models"
)

var (
	// ErrInvalidAmount dikembalikan jika jumlah pembayaran <= 0 atau melebihi sisa tagihan.
	ErrInvalidAmount = errors.New("jumlah pembayaran tidak valid")
	// ErrTagihanNotFound dikembalikan jika tagihan tidak ditemukan.
	ErrTagihanNotFound = errors.New("tagihan tidak ditemukan")
)

// DefaultJumlahSPP adalah nominal SPP bulanan default (Rp 500.000).
const DefaultJumlahSPP int64 = 500000

// RiwayatPembayaran adalah satu entri histori pembayaran dari data roster
// (valid_students.data_pembayaran), dipakai hanya saat registrasi awal.
type RiwayatPembayaran struct {
	Bulan        int    `json:"bulan"`
	Status       string `json:"status"`
	TanggalBayar string `json:"tanggal_bayar"`
	Jumlah       int64  `json:"jumlah"`
}

type TagihanService struct {
	DB *sql.DB
}

func NewTagihanService(db *sql.DB) *TagihanService {
	return &TagihanService{DB: db}
}

const tagihanColumns = `id, user_id, nomor_tagihan, bulan, tahun, jumlah, terbayar, status, jatuh_tempo, tanggal_bayar, metode_bayar, denda, catatan, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTagihan(row rowScanner) (*models.Tagihan, error) {
	var t models.Tagihan
	var status string
	var tanggalBayar sql.NullTime
	var metodeBayar, catatan sql.NullString

	err := row.Scan(
		&t.ID, &t.UserID, &t.NomorTagihan, &t.Bulan, &t.Tahun,
		&t.Jumlah, &t.Terbayar, &status, &t.JatuhTempo,
		&tanggalBayar, &metodeBayar, &t.Denda, &catatan,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = models.BillStatus(status)
	if tanggalBayar.Valid {
		t.TanggalBayar = &tanggalBayar.Time
	}
	t.MetodeBayar = metodeBayar.String
	t.Catatan = catatan.String
	return &t, nil
}

// GenerateYearlyBillsTx membuat tepat 12 tagihan (Januari-Desember) untuk
// (userID, tahun) di dalam transaksi yang diberikan. Idempoten: jika sudah ada
// tagihan untuk tahun tersebut, tidak melakukan apa-apa. Histori pembayaran
// dari roster (jika ada) membuat bulan terkait langsung tercatat lunas.
func (s *TagihanService) GenerateYearlyBillsTx(tx *sql.Tx, userID int64, tahun int, riwayat []RiwayatPembayaran) error {
	var count int
	err := tx.QueryRow(
		"SELECT COUNT(*) FROM tagihan WHERE user_id = ? AND tahun = ?",
		userID, tahun,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		// Sudah pernah digenerate, jangan duplikasi.
		return nil
	}

	now := time.Now()
	for bulan := 1; bulan <= 12; bulan++ {
		entry := cariRiwayat(riwayat, bulan)

		jumlah := DefaultJumlahSPP
		var terbayar int64
		status := models.BillUnpaid
		var tanggalBayar interface{}
		var metodeBayar interface{}

		if entry != nil {
			if entry.Jumlah > 0 {
				jumlah = entry.Jumlah
			}
			if entry.Status == "lunas" || entry.Status == "paid" {
				terbayar = jumlah
				status = models.BillPaid
				metodeBayar = "import"
				if parsed, perr := time.Parse("2006-01-02", entry.TanggalBayar); perr == nil {
					tanggalBayar = parsed
				} else {
					tanggalBayar = now
				}
			}
		}

		jatuhTempo := time.Date(tahun, time.Month(bulan), 10, 0, 0, 0, 0, now.Location())
		nomor := fmt.Sprintf("SPP-%d-%d-%02d", userID, tahun, bulan)

		_, err := tx.Exec(
			`INSERT INTO tagihan (user_id, nomor_tagihan, bulan, tahun, jumlah, terbayar, status, jatuh_tempo, tanggal_bayar, metode_bayar, denda, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
			userID, nomor, bulan, tahun, jumlah, terbayar, string(status), jatuhTempo, tanggalBayar, metodeBayar, now, now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func cariRiwayat(riwayat []RiwayatPembayaran, bulan int) *RiwayatPembayaran {
	for i := range riwayat {
		if riwayat[i].Bulan == bulan {
			return &riwayat[i]
		}
	}
	return nil
}

// EnsureBillsForYear memastikan tagihan tahun berjalan sudah tergenerate,
// dipanggil saat siswa login pertama kali di tahun baru.
func (s *TagihanService) EnsureBillsForYear(userID int64, tahun int) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	if err := s.GenerateYearlyBillsTx(tx, userID, tahun, nil); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// RecordPaymentTx mencatat satu pembayaran (cicilan maupun hasil verifikasi)
// ke ledger tagihan di dalam transaksi yang diberikan. Baris tagihan dikunci
// dengan SELECT ... FOR UPDATE agar dua petugas yang mencatat bersamaan tidak
// menghitung ganda. Pelanggaran invariant terbayar <= jumlah ditolak dengan
// ErrInvalidAmount tanpa mutasi apa pun.
func (s *TagihanService) RecordPaymentTx(tx *sql.Tx, billID int64, amount int64, metode string) (*models.Tagihan, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	row := tx.QueryRow(
		"SELECT "+tagihanColumns+" FROM tagihan WHERE id = ? FOR UPDATE",
		billID,
	)
	t, err := scanTagihan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTagihanNotFound
		}
		return nil, err
	}

	if amount > t.Jumlah-t.Terbayar {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	t.Terbayar += amount
	t.Status = models.DeriveStatus(t.Terbayar, t.Jumlah)
	t.MetodeBayar = metode
	t.TanggalBayar = &now

	_, err = tx.Exec(
		`UPDATE tagihan SET terbayar = ?, status = ?, metode_bayar = ?, tanggal_bayar = ?, updated_at = ? WHERE id = ?`,
		t.Terbayar, string(t.Status), metode, now, now, billID,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// RecordPayment adalah varian RecordPaymentTx dengan transaksi sendiri.
func (s *TagihanService) RecordPayment(billID int64, amount int64, metode string) (*models.Tagihan, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	t, err := s.RecordPaymentTx(tx, billID, amount, metode)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// SetStatusTx menimpa status tagihan (dipakai alur verifikasi untuk overlay
// pending dan pengembaliannya). Status di luar enumerasi ditolak.
func (s *TagihanService) SetStatusTx(tx *sql.Tx, billID int64, status models.BillStatus) error {
	if !status.Valid() {
		return fmt.Errorf("status tagihan tidak dikenal: %s", status)
	}
	res, err := tx.Exec(
		"UPDATE tagihan SET status = ?, updated_at = ? WHERE id = ?",
		string(status), time.Now(), billID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTagihanNotFound
	}
	return nil
}

// GetBillByID mengambil satu tagihan.
func (s *TagihanService) GetBillByID(billID int64) (*models.Tagihan, error) {
	row := s.DB.QueryRow("SELECT "+tagihanColumns+" FROM tagihan WHERE id = ?", billID)
	t, err := scanTagihan(row)
	if err == sql.ErrNoRows {
		return nil, ErrTagihanNotFound
	}
	return t, err
}

// GetUserBills mengambil semua tagihan milik siswa, terbaru lebih dulu.
func (s *TagihanService) GetUserBills(userID int64) ([]models.Tagihan, error) {
	rows, err := s.DB.Query(
		"SELECT "+tagihanColumns+" FROM tagihan WHERE user_id = ? ORDER BY tahun DESC, bulan DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTagihan(rows)
}

// GetOpenBills mengambil tagihan yang belum lunas (unpaid/pending/partial/failed),
// diurutkan dari jatuh tempo terdekat.
func (s *TagihanService) GetOpenBills(userID int64) ([]models.Tagihan, error) {
	rows, err := s.DB.Query(
		"SELECT "+tagihanColumns+" FROM tagihan WHERE user_id = ? AND status IN ('unpaid', 'pending', 'partial', 'failed') ORDER BY jatuh_tempo ASC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTagihan(rows)
}

func collectTagihan(rows *sql.Rows) ([]models.Tagihan, error) {
	var result []models.Tagihan
	for rows.Next() {
		t, err := scanTagihan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}
