package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sekolahapp/spp-backend/internal/common/middlewares"
	"github.com/sekolahapp/spp-backend/internal/common/responses"
	"github.com/sekolahapp/spp-backend/internal/common/validation"
	"github.com/sekolahapp/spp-backend/internal/pembayaran/models"
	"github.com/sekolahapp/spp-backend/internal/pembayaran/services"
	tagihanservices "github.com/sekolahapp/spp-backend/internal/tagihan/services"
	"github.com/sekolahapp/spp-backend/ws"
)

type PembayaranController struct {
	Service *services.PembayaranService
}

func NewPembayaranController(service *services.PembayaranService) *PembayaranController {
	return &PembayaranController{Service: service}
}

// Submit menerima pengajuan pembayaran siswa beserta referensi bukti upload.
func (pc *PembayaranController) Submit(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	var req struct {
		TagihanID  int64  `json:"tagihan_id" validate:"required"`
		Amount     int64  `json:"amount" validate:"required,gt=0"`
		Metode     string `json:"metode" validate:"required"`
		ProofImage string `json:"proof_image" validate:"required"`
		Notes      string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	payment, err := pc.Service.Submit(req.TagihanID, int64(claims.IDUser), req.Amount, req.Metode, req.ProofImage, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, tagihanservices.ErrTagihanNotFound):
			return responses.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrBillAlreadyPaid):
			return responses.Error(c, http.StatusConflict, err.Error())
		case errors.Is(err, tagihanservices.ErrInvalidAmount):
			return responses.Error(c, http.StatusBadRequest, err.Error())
		default:
			return responses.Error(c, http.StatusInternalServerError, "Gagal mengajukan pembayaran")
		}
	}

	ws.BroadcastPaymentUpdate(payment.ID, payment.TagihanID, string(payment.Status))
	return responses.Success(c, http.StatusCreated, "Pembayaran diajukan, menunggu verifikasi petugas", payment)
}

// Verify memutuskan satu pengajuan pembayaran (verified/rejected).
func (pc *PembayaranController) Verify(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID pembayaran tidak valid")
	}
	var req struct {
		Decision string `json:"decision" validate:"required,oneof=verified rejected"`
		Notes    string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	payment, err := pc.Service.Verify(id, int64(claims.IDUser), models.PaymentStatus(req.Decision), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			return responses.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrAlreadyVerified):
			return responses.Error(c, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrInvalidDecision), errors.Is(err, tagihanservices.ErrInvalidAmount):
			return responses.Error(c, http.StatusBadRequest, err.Error())
		default:
			return responses.Error(c, http.StatusInternalServerError, "Gagal memverifikasi pembayaran")
		}
	}

	ws.BroadcastPaymentUpdate(payment.ID, payment.TagihanID, string(payment.Status))
	return responses.Success(c, http.StatusOK, "Verifikasi pembayaran tersimpan", payment)
}

// ManualPayment mencatat cicilan yang dibayar langsung di loket.
func (pc *PembayaranController) ManualPayment(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	var req struct {
		TagihanID int64  `json:"tagihan_id" validate:"required"`
		Amount    int64  `json:"amount" validate:"required,gt=0"`
		Metode    string `json:"metode" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	payment, bill, err := pc.Service.ManualPayment(req.TagihanID, int64(claims.IDUser), req.Amount, req.Metode)
	if err != nil {
		switch {
		case errors.Is(err, tagihanservices.ErrTagihanNotFound):
			return responses.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrBillAlreadyPaid):
			return responses.Error(c, http.StatusConflict, err.Error())
		case errors.Is(err, tagihanservices.ErrInvalidAmount):
			return responses.Error(c, http.StatusBadRequest, err.Error())
		default:
			return responses.Error(c, http.StatusInternalServerError, "Gagal mencatat pembayaran")
		}
	}

	ws.BroadcastPaymentUpdate(payment.ID, payment.TagihanID, string(payment.Status))
	return responses.Success(c, http.StatusCreated, "Pembayaran berhasil dicatat", map[string]interface{}{
		"pembayaran": payment,
		"tagihan":    bill,
	})
}

// List mengambil semua pengajuan pembayaran, difilter status bila diminta.
func (pc *PembayaranController) List(c echo.Context) error {
	payments, err := pc.Service.ListPayments(c.QueryParam("status"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidDecision) {
			return responses.Error(c, http.StatusBadRequest, "Status filter tidak dikenal")
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil daftar pembayaran")
	}
	return responses.Success(c, http.StatusOK, "Daftar pembayaran", payments)
}

func (pc *PembayaranController) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID pembayaran tidak valid")
	}
	payment, err := pc.Service.GetPayment(id)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil pembayaran")
	}
	return responses.Success(c, http.StatusOK, "Detail pembayaran", payment)
}

// MyPayments mengambil riwayat pembayaran siswa yang sedang login.
func (pc *PembayaranController) MyPayments(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	payments, err := pc.Service.GetUserPayments(int64(claims.IDUser))
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil riwayat pembayaran")
	}
	return responses.Success(c, http.StatusOK, "Riwayat pembayaran", payments)
}
