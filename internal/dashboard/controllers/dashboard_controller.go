package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sekolahapp/spp-backend/internal/common/middlewares"
	"github.com/sekolahapp/spp-backend/internal/common/responses"
	"github.com/sekolahapp/spp-backend/internal/dashboard/services"
)

type DashboardController struct {
	Service *services.DashboardService
}

func NewDashboardController(service *services.DashboardService) *DashboardController {
	return &DashboardController{Service: service}
}

// SiswaStats melayani beranda aplikasi siswa.
func (dc *DashboardController) SiswaStats(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	stats, err := dc.Service.SiswaStats(int64(claims.IDUser))
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil ringkasan dashboard")
	}
	return responses.Success(c, http.StatusOK, "Ringkasan dashboard siswa", stats)
}

// AdminStats melayani beranda panel petugas/admin.
func (dc *DashboardController) AdminStats(c echo.Context) error {
	stats, err := dc.Service.AdminStats()
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil ringkasan dashboard")
	}
	return responses.Success(c, http.StatusOK, "Ringkasan dashboard admin", stats)
}

// Search mencari pengumuman dan event berdasarkan kata kunci q.
func (dc *DashboardController) Search(c echo.Context) error {
	keyword := strings.TrimSpace(c.QueryParam("q"))
	if keyword == "" {
		return responses.Error(c, http.StatusBadRequest, "Parameter q wajib diisi")
	}
	results, err := dc.Service.Search(keyword)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Pencarian gagal")
	}
	return responses.Success(c, http.StatusOK, "Hasil pencarian", results)
}
