package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	authmodels "github.com/sekolahapp/spp-backend/internal/auth/models"
)

var (
	// ErrSiswaNotFound dikembalikan jika siswa tidak ditemukan.
	ErrSiswaNotFound = errors.New("siswa tidak ditemukan")
	// ErrEmailTaken dikembalikan jika email sudah dipakai akun lain.
	ErrEmailTaken = errors.New("email sudah digunakan")
)

type SiswaService struct {
	DB *sql.DB
}

func NewSiswaService(db *sql.DB) *SiswaService {
	return &SiswaService{DB: db}
}

// SiswaFilter adalah filter daftar siswa untuk admin.
type SiswaFilter struct {
	Search  string
	Kelas   string
	Jurusan string
	Status  string
}

const siswaColumns = `id, name, email, role, COALESCE(nisn, ''), COALESCE(nis, ''), COALESCE(kelas, ''), COALESCE(jurusan, ''), COALESCE(phone, ''), COALESCE(alamat, ''), COALESCE(tahun_masuk, 0), created_at, updated_at`

func scanSiswa(row interface{ Scan(...interface{}) error }) (*authmodels.User, error) {
	var u authmodels.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Role,
		&u.NISN, &u.NIS, &u.Kelas, &u.Jurusan,
		&u.Phone, &u.Alamat, &u.TahunMasuk,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List mengambil daftar siswa dengan filter pencarian. Daftar ini murni baca;
// pelengkapan data dari roster dilakukan job reconcile terpisah.
func (s *SiswaService) List(f SiswaFilter) ([]authmodels.User, error) {
	query := "SELECT " + siswaColumns + " FROM users WHERE role = 'siswa'"
	var args []interface{}

	if f.Search != "" {
		query += " AND (name LIKE ? OR nisn LIKE ? OR email LIKE ?)"
		like := "%" + f.Search + "%"
		args = append(args, like, like, like)
	}
	if f.Kelas != "" {
		query += " AND kelas = ?"
		args = append(args, f.Kelas)
	}
	if f.Jurusan != "" {
		query += " AND jurusan = ?"
		args = append(args, f.Jurusan)
	}
	if f.Status != "" {
		query += " AND nisn IN (SELECT nisn FROM valid_students WHERE status = ?)"
		args = append(args, f.Status)
	}
	query += " ORDER BY name ASC"

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []authmodels.User
	for rows.Next() {
		u, err := scanSiswa(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	return result, rows.Err()
}

// Get mengambil satu siswa berdasarkan id.
func (s *SiswaService) Get(id int64) (*authmodels.User, error) {
	row := s.DB.QueryRow("SELECT "+siswaColumns+" FROM users WHERE id = ? AND role = 'siswa'", id)
	u, err := scanSiswa(row)
	if err == sql.ErrNoRows {
		return nil, ErrSiswaNotFound
	}
	return u, err
}

// CreateSiswaInput adalah data siswa yang dibuat langsung oleh admin,
// melewati alur registrasi roster.
type CreateSiswaInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	NISN     string `json:"nisn"`
	NIS      string `json:"nis"`
	Kelas    string `json:"kelas"`
	Jurusan  string `json:"jurusan"`
	Phone    string `json:"phone"`
	Alamat   string `json:"alamat"`
}

// Create membuat akun siswa baru oleh admin.
func (s *SiswaService) Create(in CreateSiswaInput) (*authmodels.User, error) {
	var emailCount int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", in.Email).Scan(&emailCount); err != nil {
		return nil, err
	}
	if emailCount > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res, err := s.DB.Exec(
		`INSERT INTO users (name, email, password, role, nisn, nis, kelas, jurusan, phone, alamat, created_at, updated_at)
		 VALUES (?, ?, ?, 'siswa', ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Email, string(hashed), in.NISN, in.NIS, in.Kelas, in.Jurusan, in.Phone, in.Alamat, now, now,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// UpdateSiswaInput adalah field siswa yang boleh diubah admin.
type UpdateSiswaInput struct {
	Name    string `json:"name" validate:"required"`
	NIS     string `json:"nis"`
	Kelas   string `json:"kelas"`
	Jurusan string `json:"jurusan"`
	Phone   string `json:"phone"`
	Alamat  string `json:"alamat"`
}

// Update memperbarui data siswa oleh admin.
func (s *SiswaService) Update(id int64, in UpdateSiswaInput) (*authmodels.User, error) {
	res, err := s.DB.Exec(
		"UPDATE users SET name = ?, nis = ?, kelas = ?, jurusan = ?, phone = ?, alamat = ?, updated_at = ? WHERE id = ? AND role = 'siswa'",
		in.Name, in.NIS, in.Kelas, in.Jurusan, in.Phone, in.Alamat, time.Now(), id,
	)
	if err != nil {
		return nil, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		if _, err := s.Get(id); err != nil {
			return nil, err
		}
	}
	return s.Get(id)
}

// Delete menghapus akun siswa.
func (s *SiswaService) Delete(id int64) error {
	res, err := s.DB.Exec("DELETE FROM users WHERE id = ? AND role = 'siswa'", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSiswaNotFound
	}
	return nil
}

// SiswaStats adalah ringkasan jumlah siswa untuk dashboard admin.
type SiswaStats struct {
	Total      int            `json:"total"`
	PerKelas   map[string]int `json:"per_kelas"`
	PerJurusan map[string]int `json:"per_jurusan"`
}

// Stats menghitung jumlah siswa total dan per kelas/jurusan.
func (s *SiswaService) Stats() (*SiswaStats, error) {
	stats := &SiswaStats{
		PerKelas:   map[string]int{},
		PerJurusan: map[string]int{},
	}

	if err := s.DB.QueryRow("SELECT COUNT(*) FROM users WHERE role = 'siswa'").Scan(&stats.Total); err != nil {
		return nil, err
	}

	rows, err := s.DB.Query("SELECT COALESCE(kelas, ''), COUNT(*) FROM users WHERE role = 'siswa' GROUP BY kelas")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var kelas string
		var n int
		if err := rows.Scan(&kelas, &n); err != nil {
			return nil, err
		}
		if strings.TrimSpace(kelas) == "" {
			kelas = "(belum diisi)"
		}
		stats.PerKelas[kelas] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows2, err := s.DB.Query("SELECT COALESCE(jurusan, ''), COUNT(*) FROM users WHERE role = 'siswa' GROUP BY jurusan")
	if err != nil {
		return nil, err
	}
	defer rows2.Close()
	for rows2.Next() {
		var jurusan string
		var n int
		if err := rows2.Scan(&jurusan, &n); err != nil {
			return nil, err
		}
		if strings.TrimSpace(jurusan) == "" {
			jurusan = "(belum diisi)"
		}
		stats.PerJurusan[jurusan] = n
	}
	return stats, rows2.Err()
}

// ReconcileFromRoster melengkapi kolom nisn/kelas/jurusan siswa yang kosong
// dari roster valid_students. Dipanggil job cmd/reconcile, bukan jalur baca.
func (s *SiswaService) ReconcileFromRoster() (int, error) {
	rows, err := s.DB.Query(
		`SELECT u.id, u.nisn
		 FROM users u
		 WHERE u.role = 'siswa' AND u.nisn IS NOT NULL AND u.nisn != ''
		   AND (COALESCE(u.kelas, '') = '' OR COALESCE(u.jurusan, '') = '' OR COALESCE(u.tahun_masuk, 0) = 0)`,
	)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type pending struct {
		id   int64
		nisn string
	}
	var targets []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.nisn); err != nil {
			return 0, err
		}
		targets = append(targets, p)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	updated := 0
	for _, t := range targets {
		var kelas, jurusan sql.NullString
		var tahunMasuk sql.NullInt64
		err := s.DB.QueryRow(
			"SELECT kelas, jurusan, tahun_masuk FROM valid_students WHERE nisn = ?",
			t.nisn,
		).Scan(&kelas, &jurusan, &tahunMasuk)
		if err != nil {
			if err == sql.ErrNoRows {
				log.Printf("reconcile: nisn %s tidak ada di roster, dilewati", t.nisn)
				continue
			}
			return updated, err
		}

		_, err = s.DB.Exec(
			`UPDATE users SET
			   kelas = CASE WHEN COALESCE(kelas, '') = '' THEN ? ELSE kelas END,
			   jurusan = CASE WHEN COALESCE(jurusan, '') = '' THEN ? ELSE jurusan END,
			   tahun_masuk = CASE WHEN COALESCE(tahun_masuk, 0) = 0 THEN ? ELSE tahun_masuk END,
			   updated_at = ?
			 WHERE id = ?`,
			kelas.String, jurusan.String, tahunMasuk.Int64, time.Now(), t.id,
		)
		if err != nil {
			return updated, fmt.Errorf("reconcile user %d: %w", t.id, err)
		}
		updated++
	}
	return updated, nil
}
