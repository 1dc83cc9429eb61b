package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sekolahapp/spp-backend/internal/common/middlewares"
	"github.com/sekolahapp/spp-backend/internal/common/responses"
	"github.com/sekolahapp/spp-backend/internal/notifikasi/services"
)

type NotifikasiController struct {
	Service *services.NotifikasiService
}

func NewNotifikasiController(service *services.NotifikasiService) *NotifikasiController {
	return &NotifikasiController{Service: service}
}

func (nc *NotifikasiController) List(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	unreadOnly := c.QueryParam("unread") == "true"
	notifs, err := nc.Service.List(int64(claims.IDUser), unreadOnly)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil notifikasi")
	}
	return responses.Success(c, http.StatusOK, "Daftar notifikasi", notifs)
}

func (nc *NotifikasiController) UnreadCount(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	count, err := nc.Service.UnreadCount(int64(claims.IDUser))
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal menghitung notifikasi")
	}
	return responses.Success(c, http.StatusOK, "Jumlah notifikasi belum dibaca", map[string]int{"unread": count})
}

func (nc *NotifikasiController) MarkRead(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID notifikasi tidak valid")
	}
	if err := nc.Service.MarkRead(int64(claims.IDUser), id); err != nil {
		if errors.Is(err, services.ErrNotifikasiNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal menandai notifikasi")
	}
	return responses.Success(c, http.StatusOK, "Notifikasi ditandai dibaca", nil)
}

func (nc *NotifikasiController) MarkAllRead(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	if err := nc.Service.MarkAllRead(int64(claims.IDUser)); err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal menandai notifikasi")
	}
	return responses.Success(c, http.StatusOK, "Semua notifikasi ditandai dibaca", nil)
}

func (nc *NotifikasiController) Delete(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID notifikasi tidak valid")
	}
	if err := nc.Service.Delete(int64(claims.IDUser), id); err != nil {
		if errors.Is(err, services.ErrNotifikasiNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal menghapus notifikasi")
	}
	return responses.Success(c, http.StatusOK, "Notifikasi dihapus", nil)
}
