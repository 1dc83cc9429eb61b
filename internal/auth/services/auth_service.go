package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sekolahapp/spp-backend/internal/auth/models"
	tagihanservices "github.com/sekolahapp/spp-backend/internal/tagihan/services"
	"github.com/sekolahapp/spp-backend/pkg/utils"
)

var (
	// ErrNisnNotFound dikembalikan jika NISN tidak ada di roster.
	ErrNisnNotFound = errors.New("NISN tidak terdaftar di sekolah ini")
	// ErrNisnRegistered dikembalikan jika NISN sudah dipakai mendaftar.
	ErrNisnRegistered = errors.New("NISN sudah terdaftar, silakan login")
	// ErrNisnInactive dikembalikan jika status roster bukan aktif.
	ErrNisnInactive = errors.New("siswa sudah tidak aktif")
	// ErrEmailTaken dikembalikan jika email sudah dipakai akun lain.
	ErrEmailTaken = errors.New("email sudah digunakan")
	// ErrInvalidCredentials dikembalikan jika email atau password salah.
	ErrInvalidCredentials = errors.New("email atau password salah")
	// ErrUserNotFound dikembalikan jika akun tidak ditemukan.
	ErrUserNotFound = errors.New("pengguna tidak ditemukan")
)

// StatusMessage menerjemahkan status roster non-aktif menjadi pesan penolakan.
func StatusMessage(status string) string {
	switch status {
	case models.RosterLulus:
		return "Akun tidak dapat digunakan karena siswa sudah lulus"
	case models.RosterPindah:
		return "Akun tidak dapat digunakan karena siswa sudah pindah sekolah"
	case models.RosterKeluar:
		return "Akun tidak dapat digunakan karena siswa sudah keluar"
	default:
		return "Akun siswa tidak aktif"
	}
}

type AuthService struct {
	DB      *sql.DB
	Tagihan *tagihanservices.TagihanService
}

func NewAuthService(db *sql.DB, tagihan *tagihanservices.TagihanService) *AuthService {
	return &AuthService{DB: db, Tagihan: tagihan}
}

const userColumns = `id, name, email, password, role, nisn, nis, kelas, jurusan, phone, alamat, tahun_masuk, fcm_token, created_at, updated_at, last_login`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	var nisn, nis, kelas, jurusan, phone, alamat, fcmToken sql.NullString
	var tahunMasuk sql.NullInt64
	var lastLogin sql.NullTime

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role,
		&nisn, &nis, &kelas, &jurusan, &phone, &alamat,
		&tahunMasuk, &fcmToken, &u.CreatedAt, &u.UpdatedAt, &lastLogin,
	)
	if err != nil {
		return nil, err
	}
	u.NISN = nisn.String
	u.NIS = nis.String
	u.Kelas = kelas.String
	u.Jurusan = jurusan.String
	u.Phone = phone.String
	u.Alamat = alamat.String
	u.TahunMasuk = int(tahunMasuk.Int64)
	u.FCMToken = fcmToken.String
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}

// ValidateNisn memeriksa NISN pada roster sebelum formulir registrasi dibuka.
func (s *AuthService) ValidateNisn(nisn string) (*models.ValidStudent, error) {
	row := s.DB.QueryRow(
		"SELECT id, nisn, name, kelas, jurusan, tahun_masuk, status, is_registered, COALESCE(data_pembayaran, '') FROM valid_students WHERE nisn = ?",
		nisn,
	)
	v, err := scanValidStudent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNisnNotFound
		}
		return nil, err
	}
	if v.IsRegistered {
		return nil, ErrNisnRegistered
	}
	if v.Status != models.RosterAktif {
		return nil, ErrNisnInactive
	}
	return v, nil
}

func scanValidStudent(row interface{ Scan(...interface{}) error }) (*models.ValidStudent, error) {
	var v models.ValidStudent
	var kelas, jurusan sql.NullString
	var tahunMasuk sql.NullInt64
	err := row.Scan(&v.ID, &v.NISN, &v.Name, &kelas, &jurusan, &tahunMasuk, &v.Status, &v.IsRegistered, &v.DataPembayaran)
	if err != nil {
		return nil, err
	}
	v.Kelas = kelas.String
	v.Jurusan = jurusan.String
	v.TahunMasuk = int(tahunMasuk.Int64)
	return &v, nil
}

// RegisterInput adalah data formulir registrasi siswa. Nama, kelas, dan
// jurusan tidak diisi siswa melainkan diambil dari roster.
type RegisterInput struct {
	NISN     string `json:"nisn" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Alamat   string `json:"alamat"`
}

// Register mendaftarkan siswa baru. Baris roster dikunci dalam transaksi yang
// sama dengan pembuatan akun dan pembuatan 12 tagihan tahun berjalan, jadi
// satu NISN tidak mungkin dipakai dua kali.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(
		"SELECT id, nisn, name, kelas, jurusan, tahun_masuk, status, is_registered, COALESCE(data_pembayaran, '') FROM valid_students WHERE nisn = ? FOR UPDATE",
		in.NISN,
	)
	roster, err := scanValidStudent(row)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrNisnNotFound
		}
		return nil, err
	}
	if roster.IsRegistered {
		tx.Rollback()
		return nil, ErrNisnRegistered
	}
	if roster.Status != models.RosterAktif {
		tx.Rollback()
		return nil, ErrNisnInactive
	}

	var emailCount int
	if err := tx.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", in.Email).Scan(&emailCount); err != nil {
		tx.Rollback()
		return nil, err
	}
	if emailCount > 0 {
		tx.Rollback()
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now()
	res, err := tx.Exec(
		`INSERT INTO users (name, email, password, role, nisn, kelas, jurusan, phone, alamat, tahun_masuk, created_at, updated_at)
		 VALUES (?, ?, ?, 'siswa', ?, ?, ?, ?, ?, ?, ?, ?)`,
		roster.Name, in.Email, string(hashed), roster.NISN, roster.Kelas, roster.Jurusan,
		in.Phone, in.Alamat, roster.TahunMasuk, now, now,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	userID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if _, err := tx.Exec("UPDATE valid_students SET is_registered = 1, registered_at = ? WHERE id = ?", now, roster.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	riwayat := parseRiwayatPembayaran(roster.DataPembayaran)
	if err := s.Tagihan.GenerateYearlyBillsTx(tx, userID, now.Year(), riwayat); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.User{
		ID:         userID,
		Name:       roster.Name,
		Email:      in.Email,
		Role:       models.RoleSiswa,
		NISN:       roster.NISN,
		Kelas:      roster.Kelas,
		Jurusan:    roster.Jurusan,
		Phone:      in.Phone,
		Alamat:     in.Alamat,
		TahunMasuk: roster.TahunMasuk,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// parseRiwayatPembayaran membaca JSON riwayat pembayaran roster. Isi yang
// rusak diabaikan dengan log; registrasi tidak boleh gagal karenanya.
func parseRiwayatPembayaran(raw string) []tagihanservices.RiwayatPembayaran {
	if raw == "" {
		return nil
	}
	var riwayat []tagihanservices.RiwayatPembayaran
	if err := json.Unmarshal([]byte(raw), &riwayat); err != nil {
		log.Printf("data_pembayaran tidak valid, diabaikan: %v", err)
		return nil
	}
	return riwayat
}

// LoginResult adalah hasil login: token JWT dan profil pengguna.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login memeriksa kredensial dan menerbitkan token JWT. Siswa dengan status
// roster non-aktif ditolak. Pada login pertama di tahun kalender baru,
// tagihan tahun itu dibuat (idempoten).
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	row := s.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if u.Role == models.RoleSiswa && u.NISN != "" {
		var status string
		err := s.DB.QueryRow("SELECT status FROM valid_students WHERE nisn = ?", u.NISN).Scan(&status)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if err == nil && status != models.RosterAktif {
			return nil, fmt.Errorf("%w: %s", ErrNisnInactive, StatusMessage(status))
		}

		if err := s.Tagihan.EnsureBillsForYear(u.ID, time.Now().Year()); err != nil {
			// Jangan gagalkan login karena pembuatan tagihan tahunan.
			log.Printf("gagal membuat tagihan tahun berjalan untuk user %d: %v", u.ID, err)
		}
	}

	now := time.Now()
	if _, err := s.DB.Exec("UPDATE users SET last_login = ? WHERE id = ?", now, u.ID); err != nil {
		log.Printf("gagal mencatat last_login user %d: %v", u.ID, err)
	}
	u.LastLogin = &now

	token, err := utils.GenerateJWTToken(int(u.ID), u.Role, u.Name, u.Email, time.Now().Add(72*time.Hour))
	if err != nil {
		return nil, err
	}
	u.Password = ""
	return &LoginResult{Token: token, User: u}, nil
}

// Profile mengambil profil pengguna.
func (s *AuthService) Profile(userID int64) (*models.User, error) {
	row := s.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", userID)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.Password = ""
	return u, nil
}

// UpdateProfileInput adalah field profil yang boleh diubah sendiri.
type UpdateProfileInput struct {
	Name   string `json:"name" validate:"required"`
	Phone  string `json:"phone"`
	Alamat string `json:"alamat"`
}

// UpdateProfile memperbarui data profil yang boleh diubah pengguna.
func (s *AuthService) UpdateProfile(userID int64, in UpdateProfileInput) (*models.User, error) {
	res, err := s.DB.Exec(
		"UPDATE users SET name = ?, phone = ?, alamat = ?, updated_at = ? WHERE id = ?",
		in.Name, in.Phone, in.Alamat, time.Now(), userID,
	)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Bisa juga berarti data tidak berubah; pastikan akunnya ada.
		var exists int
		if err := s.DB.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", userID).Scan(&exists); err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, ErrUserNotFound
		}
	}
	return s.Profile(userID)
}

// UpdateFCMToken menyimpan token push perangkat pengguna.
func (s *AuthService) UpdateFCMToken(userID int64, token string) error {
	_, err := s.DB.Exec("UPDATE users SET fcm_token = ?, updated_at = ? WHERE id = ?", token, time.Now(), userID)
	return err
}

// ChangePassword mengganti password setelah memeriksa password lama.
func (s *AuthService) ChangePassword(userID int64, oldPassword, newPassword string) error {
	var current string
	err := s.DB.QueryRow("SELECT password FROM users WHERE id = ?", userID).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(current), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec("UPDATE users SET password = ?, updated_at = ? WHERE id = ?", string(hashed), time.Now(), userID)
	return err
}
