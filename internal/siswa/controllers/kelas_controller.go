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

type KelasController struct {
	Service *services.KelasService
}

func NewKelasController(service *services.KelasService) *KelasController {
	return &KelasController{Service: service}
}

func mapKelasError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrKelasNotFound), errors.Is(err, services.ErrJurusanNotFound):
		return responses.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNamaDipakai), errors.Is(err, services.ErrMasihDirujuk):
		return responses.Error(c, http.StatusConflict, err.Error())
	default:
		return responses.Error(c, http.StatusInternalServerError, fallback)
	}
}

// ListKelas melayani form registrasi (publik, hanya yang aktif) dan admin
// (semua, dengan query all=true).
func (kc *KelasController) ListKelas(c echo.Context) error {
	onlyActive := c.QueryParam("all") != "true"
	kelas, err := kc.Service.ListKelas(onlyActive)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil daftar kelas")
	}
	return responses.Success(c, http.StatusOK, "Daftar kelas", kelas)
}

func (kc *KelasController) CreateKelas(c echo.Context) error {
	var req services.KelasInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}
	kelas, err := kc.Service.CreateKelas(req)
	if err != nil {
		return mapKelasError(c, err, "Gagal membuat kelas")
	}
	return responses.Success(c, http.StatusCreated, "Kelas berhasil dibuat", kelas)
}

func (kc *KelasController) UpdateKelas(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID kelas tidak valid")
	}
	var req services.KelasInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}
	kelas, err := kc.Service.UpdateKelas(id, req)
	if err != nil {
		return mapKelasError(c, err, "Gagal memperbarui kelas")
	}
	return responses.Success(c, http.StatusOK, "Kelas diperbarui", kelas)
}

func (kc *KelasController) DeleteKelas(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID kelas tidak valid")
	}
	if err := kc.Service.DeleteKelas(id); err != nil {
		return mapKelasError(c, err, "Gagal menghapus kelas")
	}
	return responses.Success(c, http.StatusOK, "Kelas berhasil dihapus", nil)
}

func (kc *KelasController) ListJurusan(c echo.Context) error {
	onlyActive := c.QueryParam("all") != "true"
	jurusan, err := kc.Service.ListJurusan(onlyActive)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil daftar jurusan")
	}
	return responses.Success(c, http.StatusOK, "Daftar jurusan", jurusan)
}

func (kc *KelasController) CreateJurusan(c echo.Context) error {
	var req services.JurusanInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}
	jurusan, err := kc.Service.CreateJurusan(req)
	if err != nil {
		return mapKelasError(c, err, "Gagal membuat jurusan")
	}
	return responses.Success(c, http.StatusCreated, "Jurusan berhasil dibuat", jurusan)
}

func (kc *KelasController) UpdateJurusan(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID jurusan tidak valid")
	}
	var req services.JurusanInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}
	jurusan, err := kc.Service.UpdateJurusan(id, req)
	if err != nil {
		return mapKelasError(c, err, "Gagal memperbarui jurusan")
	}
	return responses.Success(c, http.StatusOK, "Jurusan diperbarui", jurusan)
}

func (kc *KelasController) DeleteJurusan(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID jurusan tidak valid")
	}
	if err := kc.Service.DeleteJurusan(id); err != nil {
		return mapKelasError(c, err, "Gagal menghapus jurusan")
	}
	return responses.Success(c, http.StatusOK, "Jurusan berhasil dihapus", nil)
}
