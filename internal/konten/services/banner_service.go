package services

import (
	"database/sql"
	"time"

	"github.com/sekolahapp/spp-backend/internal/konten/models"
)

type BannerService struct {
	DB *sql.DB
}

func NewBannerService(db *sql.DB) *BannerService {
	return &BannerService{DB: db}
}

const bannerColumns = `id, judul, gambar, COALESCE(link_url, ''), urutan, is_active, tayang_mulai, tayang_akhir, created_at, updated_at`

func scanBanner(row interface{ Scan(...interface{}) error }) (*models.Banner, error) {
	var b models.Banner
	var mulai, akhir sql.NullTime
	err := row.Scan(&b.ID, &b.Judul, &b.Gambar, &b.LinkURL, &b.Urutan, &b.IsActive, &mulai, &akhir, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if mulai.Valid {
		b.TayangMulai = &mulai.Time
	}
	if akhir.Valid {
		b.TayangAkhir = &akhir.Time
	}
	return &b, nil
}

func (s *BannerService) collect(query string, args ...interface{}) ([]models.Banner, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Banner
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

// List mengambil semua banner untuk admin.
func (s *BannerService) List() ([]models.Banner, error) {
	return s.collect("SELECT " + bannerColumns + " FROM banners ORDER BY urutan ASC, id ASC")
}

// Active mengambil banner aktif yang sedang dalam jendela tayang.
func (s *BannerService) Active() ([]models.Banner, error) {
	now := time.Now()
	return s.collect(
		"SELECT "+bannerColumns+" FROM banners WHERE is_active = 1 AND (tayang_mulai IS NULL OR tayang_mulai <= ?) AND (tayang_akhir IS NULL OR tayang_akhir >= ?) ORDER BY urutan ASC, id ASC",
		now, now,
	)
}

func (s *BannerService) Get(id int64) (*models.Banner, error) {
	row := s.DB.QueryRow("SELECT "+bannerColumns+" FROM banners WHERE id = ?", id)
	b, err := scanBanner(row)
	if err == sql.ErrNoRows {
		return nil, ErrKontenNotFound
	}
	return b, err
}

// BannerInput adalah data buat/ubah banner.
type BannerInput struct {
	Judul       string     `json:"judul" validate:"required"`
	Gambar      string     `json:"gambar" validate:"required"`
	LinkURL     string     `json:"link_url"`
	Urutan      int        `json:"urutan"`
	IsActive    *bool      `json:"is_active"`
	TayangMulai *time.Time `json:"tayang_mulai"`
	TayangAkhir *time.Time `json:"tayang_akhir"`
}

func (s *BannerService) Create(in BannerInput) (*models.Banner, error) {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	res, err := s.DB.Exec(
		`INSERT INTO banners (judul, gambar, link_url, urutan, is_active, tayang_mulai, tayang_akhir, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Judul, in.Gambar, in.LinkURL, in.Urutan, active, in.TayangMulai, in.TayangAkhir, now, now,
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

func (s *BannerService) Update(id int64, in BannerInput) (*models.Banner, error) {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	_, err := s.DB.Exec(
		"UPDATE banners SET judul = ?, gambar = ?, link_url = ?, urutan = ?, is_active = ?, tayang_mulai = ?, tayang_akhir = ?, updated_at = ? WHERE id = ?",
		in.Judul, in.Gambar, in.LinkURL, in.Urutan, active, in.TayangMulai, in.TayangAkhir, time.Now(), id,
	)
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *BannerService) Delete(id int64) error {
	res, err := s.DB.Exec("DELETE FROM banners WHERE id = ?", id)
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
