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

type EventController struct {
	Service *services.EventService
}

func NewEventController(service *services.EventService) *EventController {
	return &EventController{Service: service}
}

func (ec *EventController) List(c echo.Context) error {
	list, err := ec.Service.List(c.QueryParam("kategori"))
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil daftar event")
	}
	return responses.Success(c, http.StatusOK, "Daftar event", list)
}

func (ec *EventController) Upcoming(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := ec.Service.Upcoming(limit)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil event mendatang")
	}
	return responses.Success(c, http.StatusOK, "Event mendatang", list)
}

func (ec *EventController) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID event tidak valid")
	}
	e, err := ec.Service.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrKontenNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil event")
	}
	return responses.Success(c, http.StatusOK, "Detail event", e)
}

// Similar mengambil event lain dengan kategori yang sama.
func (ec *EventController) Similar(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID event tidak valid")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := ec.Service.Similar(id, limit)
	if err != nil {
		if errors.Is(err, services.ErrKontenNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal mengambil event serupa")
	}
	return responses.Success(c, http.StatusOK, "Event serupa", list)
}

// Remind memasang pengingat event untuk siswa yang sedang login.
func (ec *EventController) Remind(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID event tidak valid")
	}
	reminder, err := ec.Service.Remind(id, int64(claims.IDUser))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrKontenNotFound):
			return responses.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrReminderExists):
			return responses.Error(c, http.StatusConflict, err.Error())
		default:
			return responses.Error(c, http.StatusInternalServerError, "Gagal memasang pengingat")
		}
	}
	return responses.Success(c, http.StatusCreated, "Pengingat event dipasang", reminder)
}

func (ec *EventController) Create(c echo.Context) error {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		return responses.Error(c, http.StatusUnauthorized, "Token tidak valid")
	}
	var req services.EventInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}
	e, err := ec.Service.Create(int64(claims.IDUser), req)
	if err != nil {
		return responses.Error(c, http.StatusInternalServerError, "Gagal membuat event")
	}
	return responses.Success(c, http.StatusCreated, "Event berhasil dibuat", e)
}

func (ec *EventController) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID event tidak valid")
	}
	var req services.EventInput
	if err := c.Bind(&req); err != nil {
		return responses.Error(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := c.Validate(&req); err != nil {
		return responses.ValidationError(c, validation.FieldErrors(err))
	}
	e, err := ec.Service.Update(id, req)
	if err != nil {
		if errors.Is(err, services.ErrKontenNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal memperbarui event")
	}
	return responses.Success(c, http.StatusOK, "Event diperbarui", e)
}

func (ec *EventController) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "ID event tidak valid")
	}
	if err := ec.Service.Delete(id); err != nil {
		if errors.Is(err, services.ErrKontenNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusInternalServerError, "Gagal menghapus event")
	}
	return responses.Success(c, http.StatusOK, "Event dihapus", nil)
}
