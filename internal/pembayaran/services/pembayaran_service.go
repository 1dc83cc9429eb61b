package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sekolahapp/spp-backend/internal/pembayaran/models"
	tagihanModels "github.com/sekolahapp/spp-backend/internal/tagihan/models"
	tagihanServices "github.com/sekolahapp/spp-backend/internal/tagihan/services"
)

var (
	// ErrBillAlreadyPaid dikembalikan jika tagihan sudah lunas saat submit pembayaran.
	ErrBillAlreadyPaid = errors.New("tagihan ini sudah dibayar")
	// ErrAlreadyVerified dikembalikan jika pembayaran sudah pernah diverifikasi/ditolak.
	ErrAlreadyVerified = errors.New("pembayaran ini sudah diverifikasi")
	// ErrPaymentNotFound dikembalikan jika pembayaran tidak ditemukan.
	ErrPaymentNotFound = errors.New("pembayaran tidak ditemukan")
	// ErrInvalidDecision dikembalikan jika keputusan verifikasi bukan verified/rejected.
	ErrInvalidDecision = errors.New("keputusan verifikasi harus verified atau rejected")
)

// Notifier mengirim notifikasi ke siswa setelah keputusan verifikasi.
// Kegagalan pengiriman tidak pernah menggagalkan operasi pemicunya.
type Notifier interface {
	NotifyPayment(userID int64, title, message string, paymentID int64, data map[string]interface{})
}

type PembayaranService struct {
	DB      *sql.DB
	Tagihan *tagihanServices.TagihanService
	Notif   Notifier
}

func NewPembayaranService(db *sql.DB, tagihan *tagihanServices.TagihanService, notif Notifier) *PembayaranService {
	return &PembayaranService{DB: db, Tagihan: tagihan, Notif: notif}
}

const paymentColumns = `id, tagihan_id, user_id, payment_number, amount, metode, proof_image, status, notes, verified_by, verified_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPembayaran(row rowScanner) (*models.Pembayaran, error) {
	var p models.Pembayaran
	var status string
	var proofImage, notes sql.NullString
	var verifiedBy sql.NullInt64
	var verifiedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.TagihanID, &p.UserID, &p.PaymentNumber, &p.Amount,
		&p.Metode, &proofImage, &status, &notes,
		&verifiedBy, &verifiedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = models.PaymentStatus(status)
	p.ProofImage = proofImage.String
	p.Notes = notes.String
	if verifiedBy.Valid {
		p.VerifiedBy = &verifiedBy.Int64
	}
	if verifiedAt.Valid {
		p.VerifiedAt = &verifiedAt.Time
	}
	return &p, nil
}

// nextPaymentNumber mengalokasikan nomor pembayaran PAY<yyyymmdd><seq 4 digit>
// untuk hari ini. Harus dipanggil di dalam transaksi; MAX di-lock FOR UPDATE
// supaya dua submit bersamaan tidak mendapat nomor yang sama.
func nextPaymentNumber(tx *sql.Tx, now time.Time) (string, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var lastSeq int64
	err := tx.QueryRow(
		"SELECT COALESCE(MAX(CAST(SUBSTRING(payment_number, -4) AS UNSIGNED)), 0) FROM payments WHERE created_at >= ? AND created_at < ? FOR UPDATE",
		startOfDay, endOfDay,
	).Scan(&lastSeq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY%s%04d", now.Format("20060102"), lastSeq+1), nil
}

// Submit membuat percobaan pembayaran berstatus pending terhadap sebuah
// tagihan dan menandai tagihan sebagai menunggu verifikasi.
func (s *PembayaranService) Submit(billID, userID, amount int64, metode, proofImage, notes string) (*models.Pembayaran, error) {
	if amount <= 0 {
		return nil, tagihanServices.ErrInvalidAmount
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	var jumlah, terbayar int64
	var status string
	err = tx.QueryRow(
		"SELECT jumlah, terbayar, status FROM tagihan WHERE id = ? FOR UPDATE",
		billID,
	).Scan(&jumlah, &terbayar, &status)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, tagihanServices.ErrTagihanNotFound
		}
		return nil, err
	}

	if tagihanModels.BillStatus(status) == tagihanModels.BillPaid {
		tx.Rollback()
		return nil, ErrBillAlreadyPaid
	}
	if amount > jumlah-terbayar {
		tx.Rollback()
		return nil, tagihanServices.ErrInvalidAmount
	}

	now := time.Now()
	nomor, err := nextPaymentNumber(tx, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	res, err := tx.Exec(
		`INSERT INTO payments (tagihan_id, user_id, payment_number, amount, metode, proof_image, status, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 'pending', ?, ?, ?)`,
		billID, userID, nomor, amount, metode, nullString(proofImage), nullString(notes), now, now,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	paymentID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Tandai tagihan menunggu verifikasi.
	if err := s.Tagihan.SetStatusTx(tx, billID, tagihanModels.BillPending); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Pembayaran{
		ID:            paymentID,
		TagihanID:     billID,
		UserID:        userID,
		PaymentNumber: nomor,
		Amount:        amount,
		Metode:        metode,
		ProofImage:    proofImage,
		Status:        models.PaymentPending,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Verify memutuskan sebuah pembayaran pending. Pada keputusan verified,
// nominal pembayaran dicatat ke ledger tagihan dalam transaksi yang sama;
// pada rejected, status tagihan dikembalikan ke status turunannya. Pembayaran
// yang sudah final tidak bisa diputuskan ulang.
func (s *PembayaranService) Verify(paymentID, officerID int64, decision models.PaymentStatus, notes string) (*models.Pembayaran, error) {
	if decision != models.PaymentVerified && decision != models.PaymentRejected {
		return nil, ErrInvalidDecision
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow("SELECT "+paymentColumns+" FROM payments WHERE id = ? FOR UPDATE", paymentID)
	p, err := scanPembayaran(row)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.Status != models.PaymentPending {
		tx.Rollback()
		return nil, ErrAlreadyVerified
	}

	now := time.Now()
	_, err = tx.Exec(
		"UPDATE payments SET status = ?, verified_by = ?, verified_at = ?, notes = ?, updated_at = ? WHERE id = ?",
		string(decision), officerID, now, nullString(notes), now, paymentID,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if decision == models.PaymentVerified {
		// Model ledger terpadu: verifikasi hanyalah salah satu jalan
		// mencatat nominal ke ledger tagihan.
		if _, err := s.Tagihan.RecordPaymentTx(tx, p.TagihanID, p.Amount, p.Metode); err != nil {
			tx.Rollback()
			return nil, err
		}
	} else {
		// Kembalikan tagihan dari overlay pending ke status turunannya.
		var jumlah, terbayar int64
		err = tx.QueryRow(
			"SELECT jumlah, terbayar FROM tagihan WHERE id = ? FOR UPDATE",
			p.TagihanID,
		).Scan(&jumlah, &terbayar)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := s.Tagihan.SetStatusTx(tx, p.TagihanID, tagihanModels.DeriveStatus(terbayar, jumlah)); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	p.Status = decision
	p.VerifiedBy = &officerID
	p.VerifiedAt = &now
	p.Notes = notes
	p.UpdatedAt = now

	s.notifyDecision(p)
	return p, nil
}

func (s *PembayaranService) notifyDecision(p *models.Pembayaran) {
	if s.Notif == nil {
		return
	}
	bill, err := s.Tagihan.GetBillByID(p.TagihanID)
	if err != nil {
		log.Printf("pembayaran: gagal mengambil tagihan %d untuk notifikasi: %v", p.TagihanID, err)
		return
	}
	if p.Status == models.PaymentVerified {
		s.Notif.NotifyPayment(p.UserID,
			"Pembayaran Diverifikasi",
			fmt.Sprintf("Pembayaran SPP bulan %s %d sebesar Rp %d telah diverifikasi.", bill.NamaBulan(), bill.Tahun, p.Amount),
			p.ID,
			map[string]interface{}{"status": string(models.PaymentVerified)},
		)
	} else {
		s.Notif.NotifyPayment(p.UserID,
			"Pembayaran Ditolak",
			fmt.Sprintf("Pembayaran SPP bulan %s %d ditolak. Silakan upload ulang bukti pembayaran yang valid.", bill.NamaBulan(), bill.Tahun),
			p.ID,
			map[string]interface{}{"status": string(models.PaymentRejected), "notes": p.Notes},
		)
	}
}

// ManualPayment mencatat cicilan/pembayaran tunai oleh petugas loket:
// nominal langsung masuk ledger dan baris pembayaran dibuat sudah verified.
func (s *PembayaranService) ManualPayment(billID, officerID, amount int64, metode string) (*models.Pembayaran, *tagihanModels.Tagihan, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, nil, err
	}

	bill, err := s.Tagihan.RecordPaymentTx(tx, billID, amount, metode)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	now := time.Now()
	nomor, err := nextPaymentNumber(tx, now)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	res, err := tx.Exec(
		`INSERT INTO payments (tagihan_id, user_id, payment_number, amount, metode, status, verified_by, verified_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 'verified', ?, ?, ?, ?)`,
		billID, bill.UserID, nomor, amount, metode, officerID, now, now, now,
	)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	paymentID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	p := &models.Pembayaran{
		ID:            paymentID,
		TagihanID:     billID,
		UserID:        bill.UserID,
		PaymentNumber: nomor,
		Amount:        amount,
		Metode:        metode,
		Status:        models.PaymentVerified,
		VerifiedBy:    &officerID,
		VerifiedAt:    &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if s.Notif != nil {
		s.Notif.NotifyPayment(bill.UserID,
			"Pembayaran Dicatat",
			fmt.Sprintf("Pembayaran SPP bulan %s %d sebesar Rp %d telah dicatat petugas.", bill.NamaBulan(), bill.Tahun, amount),
			paymentID,
			map[string]interface{}{"status": string(models.PaymentVerified)},
		)
	}
	return p, bill, nil
}

// ListPayments mengambil semua pembayaran, dengan filter status opsional.
func (s *PembayaranService) ListPayments(status string) ([]models.Pembayaran, error) {
	query := "SELECT " + paymentColumns + " FROM payments"
	var rows *sql.Rows
	var err error
	if status != "" {
		if !models.PaymentStatus(status).Valid() {
			return nil, fmt.Errorf("status pembayaran tidak dikenal: %s", status)
		}
		rows, err = s.DB.Query(query+" WHERE status = ? ORDER BY created_at DESC", status)
	} else {
		rows, err = s.DB.Query(query + " ORDER BY created_at DESC")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPembayaran(rows)
}

// GetPayment mengambil detail satu pembayaran.
func (s *PembayaranService) GetPayment(paymentID int64) (*models.Pembayaran, error) {
	row := s.DB.QueryRow("SELECT "+paymentColumns+" FROM payments WHERE id = ?", paymentID)
	p, err := scanPembayaran(row)
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// GetUserPayments mengambil riwayat pembayaran seorang siswa.
func (s *PembayaranService) GetUserPayments(userID int64) ([]models.Pembayaran, error) {
	rows, err := s.DB.Query(
		"SELECT "+paymentColumns+" FROM payments WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPembayaran(rows)
}

// GetBillPayments mengambil riwayat cicilan untuk satu tagihan.
func (s *PembayaranService) GetBillPayments(billID int64) ([]models.Pembayaran, error) {
	rows, err := s.DB.Query(
		"SELECT "+paymentColumns+" FROM payments WHERE tagihan_id = ? ORDER BY created_at ASC",
		billID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPembayaran(rows)
}

func collectPembayaran(rows *sql.Rows) ([]models.Pembayaran, error) {
	var result []models.Pembayaran
	for rows.Next() {
		p, err := scanPembayaran(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
