package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteKelasMasihDirujuk(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT nama FROM kelas WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"nama"}).AddRow("XII RPL 1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE kelas = ?")).
		WithArgs("XII RPL 1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(28))

	svc := NewKelasService(db)
	err = svc.DeleteKelas(3)
	assert.ErrorIs(t, err, ErrMasihDirujuk)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteKelasTidakAda(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT nama FROM kelas WHERE id = ?")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"nama"}))

	svc := NewKelasService(db)
	err = svc.DeleteKelas(99)
	assert.ErrorIs(t, err, ErrKelasNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteKelasBerhasil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT nama FROM kelas WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"nama"}).AddRow("X TKJ 2"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE kelas = ?")).
		WithArgs("X TKJ 2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kelas WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := NewKelasService(db)
	assert.NoError(t, svc.DeleteKelas(3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateJurusanKodeDipakai(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM jurusan WHERE kode = ? OR nama = ?")).
		WithArgs("RPL", "Rekayasa Perangkat Lunak").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	svc := NewKelasService(db)
	_, err = svc.CreateJurusan(JurusanInput{Kode: "RPL", Nama: "Rekayasa Perangkat Lunak"})
	assert.ErrorIs(t, err, ErrNamaDipakai)
	assert.NoError(t, mock.ExpectationsWereMet())
}
