package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sekolahapp/spp-backend/internal/siswa/models"
)

var (
	// ErrKelasNotFound dikembalikan jika kelas tidak ditemukan.
	ErrKelasNotFound = errors.New("kelas tidak ditemukan")
	// ErrJurusanNotFound dikembalikan jika jurusan tidak ditemukan.
	ErrJurusanNotFound = errors.New("jurusan tidak ditemukan")
	// ErrNamaDipakai dikembalikan jika nama/kode referensi sudah ada.
	ErrNamaDipakai = errors.New("nama sudah digunakan")
	// ErrMasihDirujuk dikembalikan jika referensi masih dipakai data siswa.
	ErrMasihDirujuk = errors.New("masih digunakan oleh data siswa")
)

type KelasService struct {
	DB *sql.DB
}

func NewKelasService(db *sql.DB) *KelasService {
	return &KelasService{DB: db}
}

// ListKelas mengambil daftar kelas. onlyActive untuk form publik.
func (s *KelasService) ListKelas(onlyActive bool) ([]models.Kelas, error) {
	query := "SELECT id, nama, COALESCE(tingkat, ''), is_active, created_at, updated_at FROM kelas"
	if onlyActive {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY nama ASC"

	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Kelas
	for rows.Next() {
		var k models.Kelas
		if err := rows.Scan(&k.ID, &k.Nama, &k.Tingkat, &k.IsActive, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, k)
	}
	return result, rows.Err()
}

// KelasInput adalah data buat/ubah kelas.
type KelasInput struct {
	Nama     string `json:"nama" validate:"required"`
	Tingkat  string `json:"tingkat"`
	IsActive *bool  `json:"is_active"`
}

func (s *KelasService) CreateKelas(in KelasInput) (*models.Kelas, error) {
	var count int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM kelas WHERE nama = ?", in.Nama).Scan(&count); err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNamaDipakai
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	res, err := s.DB.Exec(
		"INSERT INTO kelas (nama, tingkat, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		in.Nama, in.Tingkat, active, now, now,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Kelas{ID: id, Nama: in.Nama, Tingkat: in.Tingkat, IsActive: active, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *KelasService) UpdateKelas(id int64, in KelasInput) (*models.Kelas, error) {
	var count int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM kelas WHERE nama = ? AND id != ?", in.Nama, id).Scan(&count); err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNamaDipakai
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	res, err := s.DB.Exec(
		"UPDATE kelas SET nama = ?, tingkat = ?, is_active = ?, updated_at = ? WHERE id = ?",
		in.Nama, in.Tingkat, active, time.Now(), id,
	)
	if err != nil {
		return nil, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		var exists int
		if err := s.DB.QueryRow("SELECT COUNT(*) FROM kelas WHERE id = ?", id).Scan(&exists); err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, ErrKelasNotFound
		}
	}

	row := s.DB.QueryRow("SELECT id, nama, COALESCE(tingkat, ''), is_active, created_at, updated_at FROM kelas WHERE id = ?", id)
	var k models.Kelas
	if err := row.Scan(&k.ID, &k.Nama, &k.Tingkat, &k.IsActive, &k.CreatedAt, &k.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrKelasNotFound
		}
		return nil, err
	}
	return &k, nil
}

// DeleteKelas menghapus kelas; ditolak selama masih dirujuk data siswa.
func (s *KelasService) DeleteKelas(id int64) error {
	var nama string
	err := s.DB.QueryRow("SELECT nama FROM kelas WHERE id = ?", id).Scan(&nama)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrKelasNotFound
		}
		return err
	}

	var refs int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM users WHERE kelas = ?", nama).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrMasihDirujuk
	}

	_, err = s.DB.Exec("DELETE FROM kelas WHERE id = ?", id)
	return err
}

// ListJurusan mengambil daftar jurusan. onlyActive untuk form publik.
func (s *KelasService) ListJurusan(onlyActive bool) ([]models.Jurusan, error) {
	query := "SELECT id, kode, nama, is_active, created_at, updated_at FROM jurusan"
	if onlyActive {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY kode ASC"

	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Jurusan
	for rows.Next() {
		var j models.Jurusan
		if err := rows.Scan(&j.ID, &j.Kode, &j.Nama, &j.IsActive, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, j)
	}
	return result, rows.Err()
}

// JurusanInput adalah data buat/ubah jurusan.
type JurusanInput struct {
	Kode     string `json:"kode" validate:"required"`
	Nama     string `json:"nama" validate:"required"`
	IsActive *bool  `json:"is_active"`
}

func (s *KelasService) CreateJurusan(in JurusanInput) (*models.Jurusan, error) {
	var count int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM jurusan WHERE kode = ? OR nama = ?", in.Kode, in.Nama).Scan(&count); err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNamaDipakai
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	res, err := s.DB.Exec(
		"INSERT INTO jurusan (kode, nama, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		in.Kode, in.Nama, active, now, now,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Jurusan{ID: id, Kode: in.Kode, Nama: in.Nama, IsActive: active, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *KelasService) UpdateJurusan(id int64, in JurusanInput) (*models.Jurusan, error) {
	var count int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM jurusan WHERE (kode = ? OR nama = ?) AND id != ?", in.Kode, in.Nama, id).Scan(&count); err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNamaDipakai
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	_, err := s.DB.Exec(
		"UPDATE jurusan SET kode = ?, nama = ?, is_active = ?, updated_at = ? WHERE id = ?",
		in.Kode, in.Nama, active, time.Now(), id,
	)
	if err != nil {
		return nil, err
	}

	row := s.DB.QueryRow("SELECT id, kode, nama, is_active, created_at, updated_at FROM jurusan WHERE id = ?", id)
	var j models.Jurusan
	if err := row.Scan(&j.ID, &j.Kode, &j.Nama, &j.IsActive, &j.CreatedAt, &j.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrJurusanNotFound
		}
		return nil, err
	}
	return &j, nil
}

// DeleteJurusan menghapus jurusan; ditolak selama masih dirujuk data siswa.
func (s *KelasService) DeleteJurusan(id int64) error {
	var kode string
	err := s.DB.QueryRow("SELECT kode FROM jurusan WHERE id = ?", id).Scan(&kode)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrJurusanNotFound
		}
		return err
	}

	var refs int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM users WHERE jurusan = ?", kode).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrMasihDirujuk
	}

	_, err = s.DB.Exec("DELETE FROM jurusan WHERE id = ?", id)
	return err
}
