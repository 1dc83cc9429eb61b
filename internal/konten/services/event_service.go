package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sekolahapp/spp-backend/internal/konten/models"
)

// ErrReminderExists dikembalikan jika siswa sudah memasang pengingat
// untuk event yang sama.
var ErrReminderExists = errors.New("pengingat untuk event ini sudah dipasang")

type EventService struct {
	DB *sql.DB
}

func NewEventService(db *sql.DB) *EventService {
	return &EventService{DB: db}
}

const eventColumns = `id, judul, deskripsi, COALESCE(kategori, ''), COALESCE(lokasi, ''), COALESCE(gambar, ''), tanggal_mulai, tanggal_akhir, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Judul, &e.Deskripsi, &e.Kategori, &e.Lokasi, &e.Gambar,
		&e.TanggalMulai, &e.TanggalAkhir, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EventService) collect(query string, args ...interface{}) ([]models.Event, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

// List mengambil semua event, yang terdekat dulu.
func (s *EventService) List(kategori string) ([]models.Event, error) {
	query := "SELECT " + eventColumns + " FROM events"
	var args []interface{}
	if kategori != "" {
		query += " WHERE kategori = ?"
		args = append(args, kategori)
	}
	query += " ORDER BY tanggal_mulai ASC"
	return s.collect(query, args...)
}

// Upcoming mengambil event yang belum berakhir.
func (s *EventService) Upcoming(limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.collect(
		"SELECT "+eventColumns+" FROM events WHERE tanggal_akhir >= ? ORDER BY tanggal_mulai ASC LIMIT ?",
		time.Now(), limit,
	)
}

// Similar mengambil event lain dengan kategori yang sama.
func (s *EventService) Similar(eventID int64, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 5
	}
	e, err := s.Get(eventID)
	if err != nil {
		return nil, err
	}
	return s.collect(
		"SELECT "+eventColumns+" FROM events WHERE id != ? AND kategori = ? ORDER BY tanggal_mulai ASC LIMIT ?",
		eventID, e.Kategori, limit,
	)
}

func (s *EventService) Get(id int64) (*models.Event, error) {
	row := s.DB.QueryRow("SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrKontenNotFound
	}
	return e, err
}

// EventInput adalah data buat/ubah event.
type EventInput struct {
	Judul        string    `json:"judul" validate:"required"`
	Deskripsi    string    `json:"deskripsi" validate:"required"`
	Kategori     string    `json:"kategori"`
	Lokasi       string    `json:"lokasi"`
	Gambar       string    `json:"gambar"`
	TanggalMulai time.Time `json:"tanggal_mulai" validate:"required"`
	TanggalAkhir time.Time `json:"tanggal_akhir" validate:"required"`
}

func (s *EventService) Create(createdBy int64, in EventInput) (*models.Event, error) {
	now := time.Now()
	res, err := s.DB.Exec(
		`INSERT INTO events (judul, deskripsi, kategori, lokasi, gambar, tanggal_mulai, tanggal_akhir, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Judul, in.Deskripsi, in.Kategori, in.Lokasi, in.Gambar, in.TanggalMulai, in.TanggalAkhir, createdBy, now, now,
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

func (s *EventService) Update(id int64, in EventInput) (*models.Event, error) {
	_, err := s.DB.Exec(
		"UPDATE events SET judul = ?, deskripsi = ?, kategori = ?, lokasi = ?, gambar = ?, tanggal_mulai = ?, tanggal_akhir = ?, updated_at = ? WHERE id = ?",
		in.Judul, in.Deskripsi, in.Kategori, in.Lokasi, in.Gambar, in.TanggalMulai, in.TanggalAkhir, time.Now(), id,
	)
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *EventService) Delete(id int64) error {
	res, err := s.DB.Exec("DELETE FROM events WHERE id = ?", id)
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

// Remind memasang pengingat event untuk siswa. Waktu pengingat default satu
// hari sebelum mulai; event yang mulai kurang dari sehari lagi diingatkan
// segera oleh job pengirim.
func (s *EventService) Remind(eventID, userID int64) (*models.EventReminder, error) {
	e, err := s.Get(eventID)
	if err != nil {
		return nil, err
	}

	var exists int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM event_reminders WHERE event_id = ? AND user_id = ?", eventID, userID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, ErrReminderExists
	}

	remindAt := e.TanggalMulai.Add(-24 * time.Hour)
	now := time.Now()
	res, err := s.DB.Exec(
		"INSERT INTO event_reminders (event_id, user_id, remind_at, created_at) VALUES (?, ?, ?, ?)",
		eventID, userID, remindAt, now,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.EventReminder{ID: id, EventID: eventID, UserID: userID, RemindAt: remindAt, CreatedAt: now}, nil
}

// DueReminder adalah pengingat yang sudah jatuh tempo beserta konteks eventnya.
type DueReminder struct {
	models.EventReminder
	JudulEvent   string    `json:"judul_event"`
	TanggalMulai time.Time `json:"tanggal_mulai"`
	Lokasi       string    `json:"lokasi"`
}

// DueReminders mengambil pengingat jatuh tempo yang belum terkirim.
// Dipakai job cmd/eventreminder.
func (s *EventService) DueReminders() ([]DueReminder, error) {
	rows, err := s.DB.Query(
		`SELECT r.id, r.event_id, r.user_id, r.remind_at, r.created_at, e.judul, e.tanggal_mulai, COALESCE(e.lokasi, '')
		 FROM event_reminders r
		 JOIN events e ON r.event_id = e.id
		 WHERE r.sent_at IS NULL AND r.remind_at <= ?
		 ORDER BY r.remind_at ASC`,
		time.Now(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DueReminder
	for rows.Next() {
		var d DueReminder
		if err := rows.Scan(&d.ID, &d.EventID, &d.UserID, &d.RemindAt, &d.CreatedAt, &d.JudulEvent, &d.TanggalMulai, &d.Lokasi); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// MarkReminderSent mencatat pengingat sudah terkirim.
func (s *EventService) MarkReminderSent(reminderID int64) error {
	_, err := s.DB.Exec("UPDATE event_reminders SET sent_at = ? WHERE id = ?", time.Now(), reminderID)
	return err
}
