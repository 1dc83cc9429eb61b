package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sekolahapp/spp-backend/internal/common/responses"
	"github.com/sekolahapp/spp-backend/internal/common/validation"
	"github.com/sekolahapp/spp-backend/internal/konten/services"
)

type BannerController struct {
	Service *services.BannerService
}

func NewBannerController(service *services.BannerService) *BannerController {
	return &BannerController{Service: service}
}

func (bc *BannerController) List(c echo.Context) error {
	list, err := bc.Service.List()
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil daftar banner")
	}
	return responses.Success(c, http.StatusOK, "Daftar banner", list)
}

// Active melayani carousel beranda aplikasi siswa.
func (bc *BannerController) Active(c echo.Context) error {
	list, err := bc.Service.Active()
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil banner")
	}
	return responses.Success(c, http.StatusOK, "Banner aktif", list)
}

func (bc *BannerController) Create(c echo.Context) error {
	var req services.BannerInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}
	b, err := bc.Service.Create(req)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal membuat banner")
	}
	return responses.Success(c, http.StatusCreated, "Banner berhasil dibuat", b)
}

func (bc *BannerController) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID banner tidak valid")
	}
	var req services.BannerInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}
	b, err := bc.Service.Update(id, req)
	if err != nil {
		if errors.Is(err, services.ErrKontenNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal memperbarui banner")
	}
	return responses.Success(c, http.StatusOK, "Banner diperbarui", b)
}

func (bc *BannerController) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID banner tidak valid")
	}
	if err := bc.Service.Delete(id); err != nil {
		if errors.Is(err, services.ErrKontenNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal menghapus banner")
	}
	return responses.Success(c, http.StatusOK, "Banner dihapus", nil)
}
