package services

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahapp/spp-backend/internal/pembayaran/models"
	tagihanServices "github.com/sekolahapp/spp-backend/internal/tagihan/services"
)

var paymentTestColumns = []string{
	"id", "tagihan_id", "user_id", "payment_number", "amount", "metode",
	"proof_image", "status", "notes", "verified_by", "verified_at",
	"created_at", "updated_at",
}

func paymentRow(id, billID, userID, amount int64, status models.PaymentStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(paymentTestColumns).AddRow(
		id, billID, userID, "PAY202601050001", amount, "transfer",
		"uploads/bukti/a.jpg", string(status), nil, nil, nil, now, now,
	)
}

func TestSubmitTagihanSudahLunas(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT jumlah, terbayar, status FROM tagihan WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"jumlah", "terbayar", "status"}).AddRow(500000, 500000, "paid"))
	mock.ExpectRollback()

	svc := NewPembayaranService(db, tagihanServices.NewTagihanService(db), nil)
	_, err = svc.Submit(1, 7, 100000, "transfer", "uploads/bukti/a.jpg", "")
	assert.ErrorIs(t, err, ErrBillAlreadyPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitMelebihiSisaTagihan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT jumlah, terbayar, status FROM tagihan WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"jumlah", "terbayar", "status"}).AddRow(500000, 200000, "partial"))
	mock.ExpectRollback()

	svc := NewPembayaranService(db, tagihanServices.NewTagihanService(db), nil)
	_, err = svc.Submit(1, 7, 300001, "transfer", "uploads/bukti/a.jpg", "")
	assert.ErrorIs(t, err, tagihanServices.ErrInvalidAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitBerhasil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT jumlah, terbayar, status FROM tagihan WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"jumlah", "terbayar", "status"}).AddRow(500000, 0, "unpaid"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(CAST(SUBSTRING(payment_number, -4) AS UNSIGNED)), 0) FROM payments WHERE created_at >= ? AND created_at < ? FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tagihan SET status = ?, updated_at = ? WHERE id = ?")).
		WithArgs("pending", sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewPembayaranService(db, tagihanServices.NewTagihanService(db), nil)
	p, err := svc.Submit(1, 7, 200000, "transfer", "uploads/bukti/a.jpg", "cicilan pertama")
	require.NoError(t, err)

	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, models.PaymentPending, p.Status)
	wantNomor := fmt.Sprintf("PAY%s0004", time.Now().Format("20060102"))
	assert.Equal(t, wantNomor, p.PaymentNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyKeputusanTidakDikenal(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewPembayaranService(db, tagihanServices.NewTagihanService(db), nil)
	_, err = svc.Verify(1, 9, models.PaymentStatus("approved"), "")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestVerifySudahDiputuskan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE id = ? FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(paymentRow(5, 1, 7, 200000, models.PaymentVerified))
	mock.ExpectRollback()

	svc := NewPembayaranService(db, tagihanServices.NewTagihanService(db), nil)
	_, err = svc.Verify(5, 9, models.PaymentVerified, "")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyDiterimaMencatatKeLedger(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE id = ? FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(paymentRow(5, 1, 7, 200000, models.PaymentPending))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET status = ?, verified_by = ?, verified_at = ?, notes = ?, updated_at = ? WHERE id = ?")).
		WithArgs("verified", int64(9), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM tagihan WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "nomor_tagihan", "bulan", "tahun", "jumlah", "terbayar",
			"status", "jatuh_tempo", "tanggal_bayar", "metode_bayar", "denda", "catatan",
			"created_at", "updated_at",
		}).AddRow(1, 7, "SPP-7-2026-01", 1, 2026, 500000, 0, "pending", now, nil, nil, 0, nil, now, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tagihan SET terbayar = ?, status = ?, metode_bayar = ?, tanggal_bayar = ?, updated_at = ? WHERE id = ?")).
		WithArgs(int64(200000), "partial", "transfer", sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewPembayaranService(db, tagihanServices.NewTagihanService(db), nil)
	p, err := svc.Verify(5, 9, models.PaymentVerified, "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentVerified, p.Status)
	require.NotNil(t, p.VerifiedBy)
	assert.Equal(t, int64(9), *p.VerifiedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyDitolakMengembalikanStatusTurunan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE id = ? FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(paymentRow(5, 1, 7, 200000, models.PaymentPending))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET status = ?, verified_by = ?, verified_at = ?, notes = ?, updated_at = ? WHERE id = ?")).
		WithArgs("rejected", int64(9), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Tagihan belum pernah terbayar: overlay pending kembali ke unpaid.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT jumlah, terbayar FROM tagihan WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"jumlah", "terbayar"}).AddRow(500000, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tagihan SET status = ?, updated_at = ? WHERE id = ?")).
		WithArgs("unpaid", sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewPembayaranService(db, tagihanServices.NewTagihanService(db), nil)
	p, err := svc.Verify(5, 9, models.PaymentRejected, "bukti tidak terbaca")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRejected, p.Status)
	assert.Equal(t, "bukti tidak terbaca", p.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
