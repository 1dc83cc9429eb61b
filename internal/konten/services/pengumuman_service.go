package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sekolahapp/spp-backend/internal/konten/models"
)

var (
	// ErrKontenNotFound dikembalikan jika konten tidak ditemukan.
	ErrKontenNotFound = errors.New("konten tidak ditemukan")
)

type PengumumanService struct {
	DB *sql.DB
}

func NewPengumumanService(db *sql.DB) *PengumumanService {
	return &PengumumanService{DB: db}
}

const pengumumanColumns = `id, judul, isi, COALESCE(kategori, ''), COALESCE(gambar, ''), tayang_mulai, tayang_akhir, created_by, created_at, updated_at`

func scanPengumuman(row interface{ Scan(...interface{}) error }) (*models.Pengumuman, error) {
	var p models.Pengumuman
	var mulai, akhir sql.NullTime
	err := row.Scan(&p.ID, &p.Judul, &p.Isi, &p.Kategori, &p.Gambar, &mulai, &akhir, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if mulai.Valid {
		p.TayangMulai = &mulai.Time
	}
	if akhir.Valid {
		p.TayangAkhir = &akhir.Time
	}
	return &p, nil
}

// tayangClause membatasi baris pada jendela tayang yang sedang berlaku.
const tayangClause = "(tayang_mulai IS NULL OR tayang_mulai <= ?) AND (tayang_akhir IS NULL OR tayang_akhir >= ?)"

// List mengambil pengumuman yang sedang tayang, terbaru dulu.
func (s *PengumumanService) List(kategori string) ([]models.Pengumuman, error) {
	now := time.Now()
	query := "SELECT " + pengumumanColumns + " FROM announcements WHERE " + tayangClause
	args := []interface{}{now, now}
	if kategori != "" {
		query += " AND kategori = ?"
		args = append(args, kategori)
	}
	query += " ORDER BY created_at DESC, id DESC"

	return s.collect(query, args...)
}

// Latest mengambil n pengumuman terbaru yang sedang tayang.
func (s *PengumumanService) Latest(limit int) ([]models.Pengumuman, error) {
	if limit <= 0 {
		limit = 5
	}
	now := time.Now()
	return s.collect(
		"SELECT "+pengumumanColumns+" FROM announcements WHERE "+tayangClause+" ORDER BY created_at DESC, id DESC LIMIT ?",
		now, now, limit,
	)
}

// Other mengambil pengumuman tayang terbaru selain satu yang sedang dibuka.
func (s *PengumumanService) Other(excludeID int64, limit int) ([]models.Pengumuman, error) {
	if limit <= 0 {
		limit = 5
	}
	now := time.Now()
	return s.collect(
		"SELECT "+pengumumanColumns+" FROM announcements WHERE id != ? AND "+tayangClause+" ORDER BY created_at DESC, id DESC LIMIT ?",
		excludeID, now, now, limit,
	)
}

func (s *PengumumanService) collect(query string, args ...interface{}) ([]models.Pengumuman, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Pengumuman
	for rows.Next() {
		p, err := scanPengumuman(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (s *PengumumanService) Get(id int64) (*models.Pengumuman, error) {
	row := s.DB.QueryRow("SELECT "+pengumumanColumns+" FROM announcements WHERE id = ?", id)
	p, err := scanPengumuman(row)
	if err == sql.ErrNoRows {
		return nil, ErrKontenNotFound
	}
	return p, err
}

// PengumumanInput adalah data buat/ubah pengumuman.
type PengumumanInput struct {
	Judul       string     `json:"judul" validate:"required"`
	Isi         string     `json:"isi" validate:"required"`
	Kategori    string     `json:"kategori"`
	Gambar      string     `json:"gambar"`
	TayangMulai *time.Time `json:"tayang_mulai"`
	TayangAkhir *time.Time `json:"tayang_akhir"`
}

func (s *PengumumanService) Create(createdBy int64, in PengumumanInput) (*models.Pengumuman, error) {
	now := time.Now()
	res, err := s.DB.Exec(
		`INSERT INTO announcements (judul, isi, kategori, gambar, tayang_mulai, tayang_akhir, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Judul, in.Isi, in.Kategori, in.Gambar, in.TayangMulai, in.TayangAkhir, createdBy, now, now,
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

func (s *PengumumanService) Update(id int64, in PengumumanInput) (*models.Pengumuman, error) {
	_, err := s.DB.Exec(
		"UPDATE announcements SET judul = ?, isi = ?, kategori = ?, gambar = ?, tayang_mulai = ?, tayang_akhir = ?, updated_at = ? WHERE id = ?",
		in.Judul, in.Isi, in.Kategori, in.Gambar, in.TayangMulai, in.TayangAkhir, time.Now(), id,
	)
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *PengumumanService) Delete(id int64) error {
	res, err := s.DB.Exec("DELETE FROM announcements WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrKontenNotFound
	}
	return nil
}
