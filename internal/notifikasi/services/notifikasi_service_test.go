package services

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahapp/spp-backend/internal/notifikasi/models"
)

func TestCreateMenyimpanNotifikasi(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(int64(7), "payment", "Pembayaran Diverifikasi", "Pembayaran Anda telah diverifikasi.",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))

	svc := NewNotifikasiService(db, nil)
	n, err := svc.Create(7, models.TipePayment, "Pembayaran Diverifikasi", "Pembayaran Anda telah diverifikasi.",
		map[string]interface{}{"payment_id": 5})
	require.NoError(t, err)

	assert.Equal(t, int64(3), n.ID)
	assert.Equal(t, models.TipePayment, n.Tipe)
	assert.Contains(t, n.Data, "payment_id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTipeTidakDikenalJadiGeneral(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(int64(7), "general", "Info", "Pesan umum.", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	svc := NewNotifikasiService(db, nil)
	n, err := svc.Create(7, "broadcast", "Info", "Pesan umum.", nil)
	require.NoError(t, err)
	assert.Equal(t, models.TipeGeneral, n.Tipe)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReadBukanMilikPengguna(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?")).
		WithArgs(int64(99), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE id = ? AND user_id = ?")).
		WithArgs(int64(99), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	svc := NewNotifikasiService(db, nil)
	err = svc.MarkRead(7, 99)
	assert.ErrorIs(t, err, ErrNotifikasiNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnreadCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	svc := NewNotifikasiService(db, nil)
	count, err := svc.UnreadCount(7)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFCMSendNonSuksesJadiError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key=server-key", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewFCMClient("server-key", server.URL)
	err := client.Send("token-perangkat", "Judul", "Isi", nil)
	assert.Error(t, err)
}

func TestFCMSendSukses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewFCMClient("server-key", server.URL)
	err := client.Send("token-perangkat", "Judul", "Isi", map[string]interface{}{"x": 1})
	assert.NoError(t, err)
}

func TestFCMSendTanpaTokenDiabaikan(t *testing.T) {
	client := NewFCMClient("server-key", "http://localhost:0")
	assert.NoError(t, client.Send("", "Judul", "Isi", nil))

	var nilClient *FCMClient
	assert.NoError(t, nilClient.Send("token", "Judul", "Isi", nil))
}
