package services

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahapp/spp-backend/internal/antrian/models"
)

var antrianTestColumns = []string{
	"id", "user_id", "service_id", "nomor_antrian", "nomor_urut", "qr_code",
	"tanggal_antrian", "status", "dipanggil_oleh", "waktu_dipanggil",
	"waktu_dilayani", "waktu_selesai", "created_at", "updated_at",
}

func antrianRow(id, userID int64, serviceID, urut int, status models.QueueStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(antrianTestColumns).AddRow(
		id, userID, serviceID, fmt.Sprintf("Q%s%03d", now.Format("20060102"), urut), urut,
		"abc123", now, string(status), nil, nil, nil, nil, now, now,
	)
}

func TestCreateAntrianBerhasil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM antrian WHERE user_id = ? AND service_id = ? AND tanggal_antrian = ? AND status IN ('menunggu', 'dipanggil', 'dilayani')")).
		WithArgs(int64(7), 1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(nomor_urut), 0) FROM antrian WHERE service_id = ? AND tanggal_antrian = ? FOR UPDATE")).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM antrian WHERE qr_code = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO antrian")).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	svc := NewAntrianService(db)
	a, err := svc.Create(7, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(11), a.ID)
	assert.Equal(t, 5, a.NomorUrut)
	assert.Equal(t, fmt.Sprintf("Q%s005", time.Now().Format("20060102")), a.NomorAntrian)
	assert.Equal(t, models.StatusMenunggu, a.Status)
	assert.Len(t, a.QRCode, 64)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAntrianMasihPunyaTiketAktif(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM antrian WHERE user_id = ?")).
		WithArgs(int64(7), 1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	svc := NewAntrianService(db)
	_, err = svc.Create(7, 1)
	assert.ErrorIs(t, err, ErrDuplicateActiveTicket)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAntrianLayananTidakDikenal(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewAntrianService(db)
	_, err = svc.Create(7, 99)
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestCreateAntrianQRBentrokDiundiUlang(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM antrian WHERE user_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(nomor_urut), 0)")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))
	// QR pertama bentrok, undian kedua lolos.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM antrian WHERE qr_code = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM antrian WHERE qr_code = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO antrian")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := NewAntrianService(db)
	a, err := svc.Create(7, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, a.NomorUrut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCallNextTidakAdaAntrian(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE tanggal_antrian = ? AND status = 'menunggu' ORDER BY id ASC LIMIT 1 FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(antrianTestColumns))
	mock.ExpectRollback()

	svc := NewAntrianService(db)
	_, err = svc.CallNext(9)
	assert.ErrorIs(t, err, ErrNoWaitingTicket)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCallNextMemanggilYangTerlama(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE tanggal_antrian = ? AND status = 'menunggu' ORDER BY id ASC LIMIT 1 FOR UPDATE")).
		WillReturnRows(antrianRow(3, 7, 1, 3, models.StatusMenunggu))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE antrian SET status = 'dipanggil', dipanggil_oleh = ?, waktu_dipanggil = ?, updated_at = ? WHERE id = ?")).
		WithArgs(int64(9), sqlmock.AnyArg(), sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewAntrianService(db)
	a, err := svc.CallNext(9)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDipanggil, a.Status)
	require.NotNil(t, a.DipanggilOleh)
	assert.Equal(t, int64(9), *a.DipanggilOleh)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServeDariMenungguDitolak(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Antrian harus dipanggil dulu sebelum dilayani.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM antrian WHERE id = ? FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(antrianRow(3, 7, 1, 3, models.StatusMenunggu))
	mock.ExpectRollback()

	svc := NewAntrianService(db)
	_, err = svc.Serve(3)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelDariStatusTerminalDitolak(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM antrian WHERE id = ? FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(antrianRow(3, 7, 1, 3, models.StatusSelesai))
	mock.ExpectRollback()

	svc := NewAntrianService(db)
	_, err = svc.Cancel(3)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteBerhasil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM antrian WHERE id = ? FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(antrianRow(3, 7, 1, 3, models.StatusDilayani))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE antrian SET status = ?, updated_at = ?, waktu_selesai = ? WHERE id = ?")).
		WithArgs("selesai", sqlmock.AnyArg(), sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewAntrianService(db)
	a, err := svc.Complete(3)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSelesai, a.Status)
	assert.NotNil(t, a.WaktuSelesai)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFormatEstimasi(t *testing.T) {
	assert.Equal(t, "Siap dilayani", FormatEstimasi(0))
	assert.Equal(t, "3 menit", FormatEstimasi(3))
	assert.Equal(t, "59 menit", FormatEstimasi(59))
	assert.Equal(t, "1 jam", FormatEstimasi(60))
	assert.Equal(t, "1 jam 12 menit", FormatEstimasi(72))
	assert.Equal(t, "2 jam", FormatEstimasi(120))
}

func TestGenerateQRCodeUnikPerUndian(t *testing.T) {
	a := generateQRCode(7, 1)
	b := generateQRCode(7, 1)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
