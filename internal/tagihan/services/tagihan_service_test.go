package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahapp/spp-backend/internal/tagihan/models"
)

var tagihanTestColumns = []string{
	"id", "user_id", "nomor_tagihan", "bulan", "tahun", "jumlah", "terbayar",
	"status", "jatuh_tempo", "tanggal_bayar", "metode_bayar", "denda", "catatan",
	"created_at", "updated_at",
}

func billRow(id, userID, jumlah, terbayar int64, status models.BillStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(tagihanTestColumns).AddRow(
		id, userID, "SPP-1-2026-01", 1, 2026, jumlah, terbayar, string(status),
		now, nil, nil, 0, nil, now, now,
	)
}

const selectForUpdate = "SELECT id, user_id, nomor_tagihan, bulan, tahun, jumlah, terbayar, status, jatuh_tempo, tanggal_bayar, metode_bayar, denda, catatan, created_at, updated_at FROM tagihan WHERE id = ? FOR UPDATE"

func TestRecordPaymentCicilanSebagian(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectForUpdate)).
		WithArgs(int64(1)).
		WillReturnRows(billRow(1, 7, 500000, 0, models.BillUnpaid))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tagihan SET terbayar = ?, status = ?, metode_bayar = ?, tanggal_bayar = ?, updated_at = ? WHERE id = ?")).
		WithArgs(int64(200000), "partial", "transfer", sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewTagihanService(db)
	bill, err := svc.RecordPayment(1, 200000, "transfer")
	require.NoError(t, err)
	assert.Equal(t, int64(200000), bill.Terbayar)
	assert.Equal(t, models.BillPartial, bill.Status)
	assert.Equal(t, int64(300000), bill.Sisa())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentPelunasan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectForUpdate)).
		WithArgs(int64(1)).
		WillReturnRows(billRow(1, 7, 500000, 200000, models.BillPartial))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tagihan")).
		WithArgs(int64(500000), "paid", "tunai", sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewTagihanService(db)
	bill, err := svc.RecordPayment(1, 300000, "tunai")
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, bill.Status)
	assert.Equal(t, int64(0), bill.Sisa())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentJumlahNol(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := NewTagihanService(db)
	_, err = svc.RecordPayment(1, 0, "tunai")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentMelebihiSisa(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Sisa 300000, bayar 300001 harus ditolak tanpa UPDATE apa pun.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectForUpdate)).
		WithArgs(int64(1)).
		WillReturnRows(billRow(1, 7, 500000, 200000, models.BillPartial))
	mock.ExpectRollback()

	svc := NewTagihanService(db)
	_, err = svc.RecordPayment(1, 300001, "tunai")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentTagihanTidakAda(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectForUpdate)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(tagihanTestColumns))
	mock.ExpectRollback()

	svc := NewTagihanService(db)
	_, err = svc.RecordPayment(99, 1000, "tunai")
	assert.ErrorIs(t, err, ErrTagihanNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateYearlyBillsIdempoten(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Tahun ini sudah tergenerate: tidak boleh ada INSERT.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tagihan WHERE user_id = ? AND tahun = ?")).
		WithArgs(int64(7), 2026).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectCommit()

	svc := NewTagihanService(db)
	err = svc.EnsureBillsForYear(7, 2026)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateYearlyBillsDuaBelasBulan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tagihan WHERE user_id = ? AND tahun = ?")).
		WithArgs(int64(7), 2026).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for bulan := 1; bulan <= 12; bulan++ {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tagihan")).
			WillReturnResult(sqlmock.NewResult(int64(bulan), 1))
	}
	mock.ExpectCommit()

	svc := NewTagihanService(db)
	err = svc.EnsureBillsForYear(7, 2026)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateYearlyBillsDenganRiwayatLunas(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tagihan WHERE user_id = ? AND tahun = ?")).
		WithArgs(int64(7), 2026).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// Januari dari riwayat roster: langsung lunas dengan metode import.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tagihan")).
		WithArgs(int64(7), "SPP-7-2026-01", 1, 2026, int64(500000), int64(500000), "paid",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "import", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	for bulan := 2; bulan <= 12; bulan++ {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tagihan")).
			WithArgs(int64(7), sqlmock.AnyArg(), bulan, 2026, int64(500000), int64(0), "unpaid",
				sqlmock.AnyArg(), nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(int64(bulan), 1))
	}
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	svc := NewTagihanService(db)
	riwayat := []RiwayatPembayaran{{Bulan: 1, Status: "lunas", TanggalBayar: "2026-01-05", Jumlah: 500000}}
	err = svc.GenerateYearlyBillsTx(tx, 7, 2026, riwayat)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusTxStatusTidakDikenal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	svc := NewTagihanService(db)
	err = svc.SetStatusTx(tx, 1, models.BillStatus("lunas"))
	assert.Error(t, err)
}
