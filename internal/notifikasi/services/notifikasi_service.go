package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/sekolahapp/spp-backend/internal/notifikasi/models"
)

// ErrNotifikasiNotFound dikembalikan jika notifikasi tidak ditemukan
// atau bukan milik pengguna yang meminta.
var ErrNotifikasiNotFound = errors.New("notifikasi tidak ditemukan")

type NotifikasiService struct {
	DB  *sql.DB
	FCM *FCMClient
}

func NewNotifikasiService(db *sql.DB, fcm *FCMClient) *NotifikasiService {
	return &NotifikasiService{DB: db, FCM: fcm}
}

// Create menyimpan notifikasi baru dan mengirim push FCM jika pengguna punya
// token perangkat. Kegagalan push hanya dicatat.
func (s *NotifikasiService) Create(userID int64, tipe, judul, pesan string, data map[string]interface{}) (*models.Notifikasi, error) {
	if !models.TipeValid(tipe) {
		tipe = models.TipeGeneral
	}

	var dataJSON string
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Printf("notifikasi: payload data tidak bisa diserialisasi: %v", err)
		} else {
			dataJSON = string(raw)
		}
	}

	now := time.Now()
	res, err := s.DB.Exec(
		"INSERT INTO notifications (user_id, tipe, judul, pesan, data, is_read, created_at) VALUES (?, ?, ?, ?, ?, 0, ?)",
		userID, tipe, judul, pesan, dataJSON, now,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	s.pushToUser(userID, judul, pesan, data)

	return &models.Notifikasi{
		ID:        id,
		UserID:    userID,
		Tipe:      tipe,
		Judul:     judul,
		Pesan:     pesan,
		Data:      dataJSON,
		CreatedAt: now,
	}, nil
}

func (s *NotifikasiService) pushToUser(userID int64, judul, pesan string, data map[string]interface{}) {
	if s.FCM == nil {
		return
	}
	var token sql.NullString
	err := s.DB.QueryRow("SELECT fcm_token FROM users WHERE id = ?", userID).Scan(&token)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("notifikasi: gagal mengambil fcm_token user %d: %v", userID, err)
		}
		return
	}
	if token.String == "" {
		return
	}
	s.FCM.SendAsync(token.String, judul, pesan, data)
}

// NotifyPayment memenuhi kontrak notifier modul pembayaran.
func (s *NotifikasiService) NotifyPayment(userID int64, title, message string, paymentID int64, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["payment_id"] = paymentID
	if _, err := s.Create(userID, models.TipePayment, title, message, data); err != nil {
		log.Printf("notifikasi: gagal membuat notifikasi pembayaran untuk user %d: %v", userID, err)
	}
}

// NotifyQueue membuat notifikasi antrian (dipanggil saat nomor dipanggil).
func (s *NotifikasiService) NotifyQueue(userID int64, title, message string, queueID int64) {
	if _, err := s.Create(userID, models.TipeQueue, title, message, map[string]interface{}{"queue_id": queueID}); err != nil {
		log.Printf("notifikasi: gagal membuat notifikasi antrian untuk user %d: %v", userID, err)
	}
}

const notifColumns = "id, user_id, tipe, judul, pesan, COALESCE(data, ''), is_read, created_at"

func scanNotifikasi(row interface{ Scan(...interface{}) error }) (*models.Notifikasi, error) {
	var n models.Notifikasi
	if err := row.Scan(&n.ID, &n.UserID, &n.Tipe, &n.Judul, &n.Pesan, &n.Data, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// List mengambil notifikasi pengguna, terbaru dulu.
func (s *NotifikasiService) List(userID int64, unreadOnly bool) ([]models.Notifikasi, error) {
	query := "SELECT " + notifColumns + " FROM notifications WHERE user_id = ?"
	if unreadOnly {
		query += " AND is_read = 0"
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Notifikasi
	for rows.Next() {
		n, err := scanNotifikasi(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	return result, rows.Err()
}

// UnreadCount menghitung notifikasi belum dibaca.
func (s *NotifikasiService) UnreadCount(userID int64) (int, error) {
	var count int
	err := s.DB.QueryRow("SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0", userID).Scan(&count)
	return count, err
}

// MarkRead menandai satu notifikasi milik pengguna sebagai dibaca.
func (s *NotifikasiService) MarkRead(userID, notifID int64) error {
	res, err := s.DB.Exec("UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?", notifID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists int
		if err := s.DB.QueryRow("SELECT COUNT(*) FROM notifications WHERE id = ? AND user_id = ?", notifID, userID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotifikasiNotFound
		}
	}
	return nil
}

// MarkAllRead menandai semua notifikasi pengguna sebagai dibaca.
func (s *NotifikasiService) MarkAllRead(userID int64) error {
	_, err := s.DB.Exec("UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0", userID)
	return err
}

// Delete menghapus satu notifikasi milik pengguna.
func (s *NotifikasiService) Delete(userID, notifID int64) error {
	res, err := s.DB.Exec("DELETE FROM notifications WHERE id = ? AND user_id = ?", notifID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotifikasiNotFound
	}
	return nil
}
