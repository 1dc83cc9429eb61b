package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sekolahapp/spp-backend/internal/common/middlewares"
	"github.com/sekolahapp/spp-backend/internal/common/responses"
	"github.com/sekolahapp/spp-backend/internal/common/validation"
	"github.com/sekolahapp/spp-backend/internal/konten/services"
)

type PengumumanController struct {
	Service *services.PengumumanService
}

func NewPengumumanController(service *services.PengumumanService) *PengumumanController {
	return &PengumumanController{Service: service}
}

func (pc *PengumumanController) List(c echo.Context) error {
	list, err := pc.Service.List(c.QueryParam("kategori"))
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil pengumuman")
	}
	return responses.Success(c, http.StatusOK, "Daftar pengumuman", list)
}

func (pc *PengumumanController) Latest(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := pc.Service.Latest(limit)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil pengumuman")
	}
	return responses.Success(c, http.StatusOK, "Pengumuman terbaru", list)
}

func (pc *PengumumanController) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID pengumuman tidak valid")
	}
	p, err := pc.Service.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrKontenNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil pengumuman")
	}
	return responses.Success(c, http.StatusOK, "Detail pengumuman", p)
}

// Other mengambil pengumuman tayang lain selain yang sedang dibuka.
func (pc *PengumumanController) Other(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID pengumuman tidak valid")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := pc.Service.Other(id, limit)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil pengumuman")
	}
	return responses.Success(c, http.StatusOK, "Pengumuman lainnya", list)
}

func (pc *PengumumanController) Create(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	var req services.PengumumanInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}
	p, err := pc.Service.Create(int64(claims.IDUser), req)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal membuat pengumuman")
	}
	return responses.Success(c, http.StatusCreated, "Pengumuman berhasil dibuat", p)
}

func (pc *PengumumanController) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID pengumuman tidak valid")
	}
	var req services.PengumumanInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}
	p, err := pc.Service.Update(id, req)
	if err != nil {
		if errors.Is(err, services.ErrKontenNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal memperbarui pengumuman")
	}
	return responses.Success(c, http.StatusOK, "Pengumuman diperbarui", p)
}

func (pc *PengumumanController) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID pengumuman tidak valid")
	}
	if err := pc.Service.Delete(id); err != nil {
		if errors.Is(err, services.ErrKontenNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal menghapus pengumuman")
	}
	return responses.Success(c, http.StatusOK, "Pengumuman dihapus", nil)
}
