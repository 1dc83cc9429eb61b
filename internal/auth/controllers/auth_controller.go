package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sekolahapp/spp-backend/internal/auth/services"
	"github.com/sekolahapp/spp-backend/internal/common/middlewares"
	"github.com/sekolahapp/spp-backend/internal/common/responses"
	"github.com/sekolahapp/spp-backend/internal/common/validation"
)

type AuthController struct {
	Service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{Service: service}
}

// ValidateNisn memeriksa NISN pada roster sebelum form registrasi dibuka.
func (ac *AuthController) ValidateNisn(c echo.Context) error {
	var req struct {
		NISN string `json:"nisn" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	roster, err := ac.Service.ValidateNisn(req.NISN)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNisnNotFound):
			return responses.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNisnRegistered), errors.Is(err, services.ErrNisnInactive):
			return responses.Error(c, http.StatusConflict, err.Error())
		default:
			return responses.Error(c, http.StatusInternalServerError, "Gagal memeriksa NISN")
		}
	}
	return responses.Success(c, http.StatusOK, "NISN valid dan dapat didaftarkan", map[string]interface{}{
		"nisn":        roster.NISN,
		"name":        roster.Name,
		"kelas":       roster.Kelas,
		"jurusan":     roster.Jurusan,
		"tahun_masuk": roster.TahunMasuk,
	})
}

// Register mendaftarkan siswa baru berdasarkan roster NISN.
func (ac *AuthController) Register(c echo.Context) error {
	var req services.RegisterInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	user, err := ac.Service.Register(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNisnNotFound):
			return responses.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNisnRegistered),
			errors.Is(err, services.ErrNisnInactive),
			errors.Is(err, services.ErrEmailTaken):
			return responses.Error(c, http.StatusConflict, err.Error())
		default:
			return responses.Error(c, http.StatusInternalServerError, "Registrasi gagal, silakan coba lagi")
		}
	}
	return responses.Success(c, http.StatusCreated, "Registrasi berhasil, silakan login", user)
}

// Login memeriksa kredensial dan menerbitkan token.
func (ac *AuthController) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	result, err := ac.Service.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return responses.Error(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, services.ErrNisnInactive):
			return responses.Error(c, http.StatusForbidden, err.Error())
		default:
			return responses.Error(c, http.StatusInternalServerError, "Login gagal, silakan coba lagi")
		}
	}
	return responses.Success(c, http.StatusOK, "Login berhasil", result)
}

// Profile mengembalikan profil pengguna yang sedang login.
func (ac *AuthController) Profile(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	user, err := ac.Service.Profile(int64(claims.IDUser))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil profil")
	}
	return responses.Success(c, http.StatusOK, "Profil ditemukan", user)
}

// UpdateProfile memperbarui profil pengguna yang sedang login.
func (ac *AuthController) UpdateProfile(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	var req services.UpdateProfileInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	user, err := ac.Service.UpdateProfile(int64(claims.IDUser), req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal memperbarui profil")
	}
	return responses.Success(c, http.StatusOK, "Profil berhasil diperbarui", user)
}

// UpdateFCMToken menyimpan token push perangkat.
func (ac *AuthController) UpdateFCMToken(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	var req struct {
		FCMToken string `json:"fcm_token" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	if err := ac.Service.UpdateFCMToken(int64(claims.IDUser), req.FCMToken); err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal menyimpan token perangkat")
	}
	return responses.Success(c, http.StatusOK, "Token perangkat tersimpan", nil)
}

// ChangePassword mengganti password pengguna yang sedang login.
func (ac *AuthController) ChangePassword(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	var req struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=6"`
	}
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}

	err := ac.Service.ChangePassword(int64(claims.IDUser), req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return responses.Error(c, http.StatusUnauthorized, "Password lama salah")
		case errors.Is(err, services.ErrUserNotFound):
			return responses.Error(c, http.StatusNotFound, err.Error())
		default:
			return responses.Error(c, http.StatusInternalServerError, "Gagal mengganti password")
		}
	}
	return responses.Success(c, http.StatusOK, "Password berhasil diganti", nil)
}

// Logout hanya mengonfirmasi; token JWT stateless, klien cukup membuangnya.
func (ac *AuthController) Logout(c echo.Context) error {
	return responses.Success(c, http.StatusOK, "Logout berhasil", nil)
}
