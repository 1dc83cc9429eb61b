package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmodels "github.com/sekolahapp/spp-backend/internal/auth/models"
	"github.com/sekolahapp/spp-backend/internal/common/middlewares"
	"github.com/sekolahapp/spp-backend/internal/common/responses"
	pembayaranservices "github.com/sekolahapp/spp-backend/internal/pembayaran/services"
	"github.com/sekolahapp/spp-backend/internal/tagihan/services"
)

type TagihanController struct {
	Service    *services.TagihanService
	Pembayaran *pembayaranservices.PembayaranService
}

func NewTagihanController(service *services.TagihanService, pembayaran *pembayaranservices.PembayaranService) *TagihanController {
	return &TagihanController{Service: service, Pembayaran: pembayaran}
}

// MyBills mengambil semua tagihan siswa yang sedang login.
func (tc *TagihanController) MyBills(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	bills, err := tc.Service.GetUserBills(int64(claims.IDUser))
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil tagihan")
	}
	return responses.Success(c, http.StatusOK, "Daftar tagihan", bills)
}

// MyOpenBills mengambil tagihan siswa yang belum lunas.
func (tc *TagihanController) MyOpenBills(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	bills, err := tc.Service.GetOpenBills(int64(claims.IDUser))
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil tagihan")
	}
	return responses.Success(c, http.StatusOK, "Tagihan belum lunas", bills)
}

// Get mengambil detail satu tagihan beserta riwayat cicilannya. Siswa hanya
// boleh melihat tagihannya sendiri; petugas dan admin bebas.
func (tc *TagihanController) Get(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID tagihan tidak valid")
	}

	bill, err := tc.Service.GetBillByID(id)
	if err != nil {
		if errors.Is(err, services.ErrTagihanNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil tagihan")
	}
	if claims.Role == authmodels.RoleSiswa && bill.UserID != int64(claims.IDUser) {
		return responses.Error(c, http.StatusForbidden, "Anda tidak memiliki hak akses")
	}

	payments, err := tc.Pembayaran.GetBillPayments(id)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil riwayat pembayaran")
	}

	return responses.Success(c, http.StatusOK, "Detail tagihan", map[string]interface{}{
		"tagihan":    bill,
		"sisa":       bill.Sisa(),
		"pembayaran": payments,
	})
}

// StudentBills mengambil tagihan satu siswa untuk petugas/admin.
func (tc *TagihanController) StudentBills(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID siswa tidak valid")
	}
	bills, err := tc.Service.GetUserBills(userID)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil tagihan")
	}
	return responses.Success(c, http.StatusOK, "Tagihan siswa", bills)
}
