package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sekolahapp/spp-backend/internal/common/responses"
	"github.com/sekolahapp/spp-backend/internal/common/validation"
	"github.com/sekolahapp/spp-backend/internal/siswa/services"
)

type SiswaController struct {
	Service *services.SiswaService
}

func NewSiswaController(service *services.SiswaService) *SiswaController {
	return &SiswaController{Service: service}
}

// List mengambil daftar siswa dengan filter query search/kelas/jurusan/status.
func (sc *SiswaController) List(c echo.Context) error {
	filter := services.SiswaFilter{
		Search:  c.QueryParam("search"),
		Kelas:   c.QueryParam("kelas"),
		Jurusan: c.QueryParam("jurusan"),
		Status:  c.QueryParam("status"),
	}
	siswa, err := sc.Service.List(filter)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil daftar siswa")
	}
	return responses.Success(c, http.StatusOK, "Daftar siswa", siswa)
}

func (sc *SiswaController) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID siswa tidak valid")
	}
	siswa, err := sc.Service.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrSiswaNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil data siswa")
	}
	return responses.Success(c, http.StatusOK, "Data siswa", siswa)
}

func (sc *SiswaController) Create(c echo.Context) error {
	var req services.CreateSiswaInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	siswa, err := sc.Service.Create(req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return responses.Error(c, http.StatusConflict, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal membuat akun siswa")
	}
	return responses.Success(c, http.StatusCreated, "Siswa berhasil dibuat", siswa)
}

func (sc *SiswaController) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID siswa tidak valid")
	}
	var req services.UpdateSiswaInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	siswa, err := sc.Service.Update(id, req)
	if err != nil {
		if errors.Is(err, services.ErrSiswaNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal memperbarui data siswa")
	}
	return responses.Success(c, http.StatusOK, "Data siswa diperbarui", siswa)
}

func (sc *SiswaController) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID siswa tidak valid")
	}
	if err := sc.Service.Delete(id); err != nil {
		if errors.Is(err, services.ErrSiswaNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal menghapus siswa")
	}
	return responses.Success(c, http.StatusOK, "Siswa berhasil dihapus", nil)
}

func (sc *SiswaController) Stats(c echo.Context) error {
	stats, err := sc.Service.Stats()
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal menghitung statistik siswa")
	}
	return responses.Success(c, http.StatusOK, "Statistik siswa", stats)
}
