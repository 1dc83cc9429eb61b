package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sekolahapp/spp-backend/internal/antrian/models"
	"github.com/sekolahapp/spp-backend/internal/antrian/services"
	authmodels "github.com/sekolahapp/spp-backend/internal/auth/models"
	"github.com/sekolahapp/spp-backend/internal/common/middlewares"
	"github.com/sekolahapp/spp-backend/internal/common/responses"
	"github.com/sekolahapp/spp-backend/internal/common/validation"
	notifservices "github.com/sekolahapp/spp-backend/internal/notifikasi/services"
	tagihanservices "github.com/sekolahapp/spp-backend/internal/tagihan/services"
	"github.com/sekolahapp/spp-backend/ws"
)

type AntrianController struct {
	Service *services.AntrianService
	Tagihan *tagihanservices.TagihanService
	Notif   *notifservices.NotifikasiService
}

func NewAntrianController(service *services.AntrianService, tagihan *tagihanservices.TagihanService, notif *notifservices.NotifikasiService) *AntrianController {
	return &AntrianController{Service: service, Tagihan: tagihan, Notif: notif}
}

func mapAntrianError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrAntrianNotFound):
		return responses.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateActiveTicket):
		return responses.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNoWaitingTicket):
		return responses.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		return responses.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUnknownService):
		return responses.Error(c, http.StatusBadRequest, err.Error())
	default:
		return responses.Error(c, http.StatusInternalServerError, fallback)
	}
}

// Create mengambil nomor antrian baru untuk siswa yang sedang login.
func (ac *AntrianController) Create(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	var req struct {
		ServiceID int `json:"service_id" validate:"required,gt=0"`
	}
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	antrian, err := ac.Service.Create(int64(claims.IDUser), req.ServiceID)
	if err != nil {
		return mapAntrianError(c, err, "Gagal mengambil nomor antrian")
	}

	ws.BroadcastQueueUpdate(antrian.ID, antrian.NomorAntrian, antrian.ServiceID, string(antrian.Status))
	return responses.Success(c, http.StatusCreated, "Nomor antrian berhasil diambil", map[string]interface{}{
		"antrian": antrian,
		"layanan": models.DaftarLayanan[antrian.ServiceID],
	})
}

// CallNext memanggil antrian menunggu paling lama (lintas layanan).
func (ac *AntrianController) CallNext(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}

	antrian, err := ac.Service.CallNext(int64(claims.IDUser))
	if err != nil {
		return mapAntrianError(c, err, "Gagal memanggil antrian")
	}

	ws.BroadcastQueueUpdate(antrian.ID, antrian.NomorAntrian, antrian.ServiceID, string(antrian.Status))
	if ac.Notif != nil {
		layanan := models.DaftarLayanan[antrian.ServiceID]
		ac.Notif.NotifyQueue(antrian.UserID,
			"Antrian Anda Dipanggil",
			fmt.Sprintf("Nomor antrian %s dipanggil. Silakan menuju %s.", antrian.NomorAntrian, layanan.Lokasi),
			antrian.ID,
		)
	}
	return responses.Success(c, http.StatusOK, "Antrian dipanggil", antrian)
}

func (ac *AntrianController) transition(c echo.Context, do func(int64) (*models.Antrian, error), message, fallback string) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID antrian tidak valid")
	}
	antrian, err := do(id)
	if err != nil {
		return mapAntrianError(c, err, fallback)
	}
	ws.BroadcastQueueUpdate(antrian.ID, antrian.NomorAntrian, antrian.ServiceID, string(antrian.Status))
	return responses.Success(c, http.StatusOK, message, antrian)
}

// Serve menandai antrian mulai dilayani.
func (ac *AntrianController) Serve(c echo.Context) error {
	return ac.transition(c, ac.Service.Serve, "Antrian sedang dilayani", "Gagal memperbarui antrian")
}

// Complete menandai antrian selesai dilayani.
func (ac *AntrianController) Complete(c echo.Context) error {
	return ac.transition(c, ac.Service.Complete, "Antrian selesai", "Gagal memperbarui antrian")
}

// Cancel membatalkan antrian. Siswa hanya boleh membatalkan miliknya sendiri.
func (ac *AntrianController) Cancel(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID antrian tidak valid")
	}

	if claims.Role == authmodels.RoleSiswa {
		existing, err := ac.Service.Get(id)
		if err != nil {
			return mapAntrianError(c, err, "Gagal membatalkan antrian")
		}
		if existing.UserID != int64(claims.IDUser) {
			return responses.Error(c, http.StatusForbidden, "Anda tidak memiliki hak akses")
		}
	}

	antrian, err := ac.Service.Cancel(id)
	if err != nil {
		return mapAntrianError(c, err, "Gagal membatalkan antrian")
	}
	ws.BroadcastQueueUpdate(antrian.ID, antrian.NomorAntrian, antrian.ServiceID, string(antrian.Status))
	return responses.Success(c, http.StatusOK, "Antrian dibatalkan", antrian)
}

// ScanQR mencari antrian hari ini dari kode QR dan menyertakan tagihan
// terbuka siswa agar petugas loket langsung melihat tunggakannya.
func (ac *AntrianController) ScanQR(c echo.Context) error {
	var req struct {
		QRCode string `json:"qr_code" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	antrian, err := ac.Service.ScanQR(req.QRCode)
	if err != nil {
		return mapAntrianError(c, err, "Gagal memindai QR")
	}

	bills, err := ac.Tagihan.GetOpenBills(antrian.UserID)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil tagihan siswa")
	}

	return responses.Success(c, http.StatusOK, "Antrian ditemukan", map[string]interface{}{
		"antrian":         antrian,
		"layanan":         models.DaftarLayanan[antrian.ServiceID],
		"tagihan_terbuka": bills,
	})
}

// ActiveQueues melayani papan antrian petugas.
func (ac *AntrianController) ActiveQueues(c echo.Context) error {
	queues, err := ac.Service.ActiveQueues()
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil antrian aktif")
	}
	return responses.Success(c, http.StatusOK, "Antrian aktif hari ini", queues)
}

// MyQueues mengambil riwayat antrian siswa yang sedang login.
func (ac *AntrianController) MyQueues(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	queues, err := ac.Service.MyQueues(int64(claims.IDUser))
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil riwayat antrian")
	}
	return responses.Success(c, http.StatusOK, "Riwayat antrian", queues)
}

// MyActiveQueue mengambil antrian aktif siswa beserta posisi dan estimasi.
func (ac *AntrianController) MyActiveQueue(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	queues, err := ac.Service.MyActiveQueue(int64(claims.IDUser))
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil antrian aktif")
	}
	return responses.Success(c, http.StatusOK, "Antrian aktif Anda", queues)
}

// Services mengembalikan daftar layanan loket beserta statistik hari ini.
func (ac *AntrianController) Services(c echo.Context) error {
	list, err := ac.Service.Services()
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil daftar layanan")
	}
	return responses.Success(c, http.StatusOK, "Daftar layanan", list)
}
