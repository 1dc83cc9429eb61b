package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	tagihanservices "github.com/sekolahapp/spp-backend/internal/tagihan/services"
)

var userTestColumns = []string{
	"id", "name", "email", "password", "role", "nisn", "nis", "kelas", "jurusan",
	"phone", "alamat", "tahun_masuk", "fcm_token", "created_at", "updated_at", "last_login",
}

var validStudentColumns = []string{
	"id", "nisn", "name", "kelas", "jurusan", "tahun_masuk", "status", "is_registered", "data_pembayaran",
}

func TestValidateNisnTidakTerdaftar(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM valid_students WHERE nisn = ?")).
		WithArgs("0012345678").
		WillReturnRows(sqlmock.NewRows(validStudentColumns))

	svc := NewAuthService(db, tagihanservices.NewTagihanService(db))
	_, err = svc.ValidateNisn("0012345678")
	assert.ErrorIs(t, err, ErrNisnNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateNisnSudahTerdaftar(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM valid_students WHERE nisn = ?")).
		WithArgs("0012345678").
		WillReturnRows(sqlmock.NewRows(validStudentColumns).
			AddRow(1, "0012345678", "Budi Santoso", "XII RPL 1", "RPL", 2023, "aktif", true, ""))

	svc := NewAuthService(db, tagihanservices.NewTagihanService(db))
	_, err = svc.ValidateNisn("0012345678")
	assert.ErrorIs(t, err, ErrNisnRegistered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateNisnSiswaTidakAktif(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM valid_students WHERE nisn = ?")).
		WithArgs("0012345678").
		WillReturnRows(sqlmock.NewRows(validStudentColumns).
			AddRow(1, "0012345678", "Budi Santoso", "XII RPL 1", "RPL", 2023, "lulus", false, ""))

	svc := NewAuthService(db, tagihanservices.NewTagihanService(db))
	_, err = svc.ValidateNisn("0012345678")
	assert.ErrorIs(t, err, ErrNisnInactive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateNisnBolehDaftar(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM valid_students WHERE nisn = ?")).
		WithArgs("0012345678").
		WillReturnRows(sqlmock.NewRows(validStudentColumns).
			AddRow(1, "0012345678", "Budi Santoso", "XII RPL 1", "RPL", 2023, "aktif", false, ""))

	svc := NewAuthService(db, tagihanservices.NewTagihanService(db))
	roster, err := svc.ValidateNisn("0012345678")
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", roster.Name)
	assert.Equal(t, "XII RPL 1", roster.Kelas)
	assert.True(t, roster.BolehDaftar())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginEmailTidakDitemukan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("tidakada@example.com").
		WillReturnRows(sqlmock.NewRows(userTestColumns))

	svc := NewAuthService(db, tagihanservices.NewTagihanService(db))
	_, err = svc.Login("tidakada@example.com", "apapun")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginPasswordSalah(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password-benar"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("budi@example.com").
		WillReturnRows(sqlmock.NewRows(userTestColumns).
			AddRow(7, "Budi", "budi@example.com", string(hashed), "siswa",
				"0012345678", nil, "XII RPL 1", "RPL", nil, nil, 2023, nil, now, now, nil))

	svc := NewAuthService(db, tagihanservices.NewTagihanService(db))
	_, err = svc.Login("budi@example.com", "password-salah")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginSiswaSudahLulusDitolak(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hashed, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("budi@example.com").
		WillReturnRows(sqlmock.NewRows(userTestColumns).
			AddRow(7, "Budi", "budi@example.com", string(hashed), "siswa",
				"0012345678", nil, "XII RPL 1", "RPL", nil, nil, 2023, nil, now, now, nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM valid_students WHERE nisn = ?")).
		WithArgs("0012345678").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("lulus"))

	svc := NewAuthService(db, tagihanservices.NewTagihanService(db))
	_, err = svc.Login("budi@example.com", "rahasia")
	assert.ErrorIs(t, err, ErrNisnInactive)
	assert.Contains(t, err.Error(), "sudah lulus")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginPetugasBerhasil(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "rahasia-test")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hashed, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("petugas@example.com").
		WillReturnRows(sqlmock.NewRows(userTestColumns).
			AddRow(2, "Petugas Loket", "petugas@example.com", string(hashed), "petugas",
				nil, nil, nil, nil, nil, nil, nil, nil, now, now, nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login = ? WHERE id = ?")).
		WithArgs(sqlmock.AnyArg(), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := NewAuthService(db, tagihanservices.NewTagihanService(db))
	result, err := svc.Login("petugas@example.com", "rahasia")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "petugas", result.User.Role)
	assert.Empty(t, result.User.Password)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusMessage(t *testing.T) {
	assert.Contains(t, StatusMessage("lulus"), "lulus")
	assert.Contains(t, StatusMessage("pindah"), "pindah")
	assert.Contains(t, StatusMessage("keluar"), "keluar")
	assert.Equal(t, "Akun siswa tidak aktif", StatusMessage("entah"))
}

func TestParseRiwayatPembayaran(t *testing.T) {
	riwayat := parseRiwayatPembayaran(`[{"bulan":1,"status":"lunas","tanggal_bayar":"2026-01-05","jumlah":500000}]`)
	require.Len(t, riwayat, 1)
	assert.Equal(t, 1, riwayat[0].Bulan)
	assert.Equal(t, "lunas", riwayat[0].Status)
	assert.Equal(t, int64(500000), riwayat[0].Jumlah)

	assert.Nil(t, parseRiwayatPembayaran(""))
	assert.Nil(t, parseRiwayatPembayaran("{rusak"))
}
