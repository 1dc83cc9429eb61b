package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sekolahapp/spp-backend/internal/common/responses"
	"github.com/sekolahapp/spp-backend/pkg/storage/files"
)

type UploadController struct {
	Store *files.Store
}

func NewUploadController(store *files.Store) *UploadController {
	return &UploadController{Store: store}
}

// UploadImage menerima satu gambar multipart (field "image") dan
// mengembalikan path relatifnya untuk dipakai sebagai referensi bukti
// pembayaran atau gambar konten.
func (uc *UploadController) UploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return responses.Error(c, http.StatusBadRequest, "Field image wajib diisi")
	}

	subDir := c.FormValue("folder")
	if subDir == "" {
		subDir = "umum"
	}

	path, err := uc.Store.Save(file, subDir)
	if err != nil {
		switch {
		case errors.Is(err, files.ErrFileTooLarge):
			return responses.Error(c, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, files.ErrInvalidFileType):
			return responses.Error(c, http.StatusUnsupportedMediaType, err.Error())
		default:
			return responses.Error(c, http.StatusInternalServerError, "Gagal menyimpan file")
		}
	}
	return responses.Success(c, http.StatusCreated, "File berhasil diupload", map[string]string{"path": path})
}

// DeleteImage menghapus gambar berdasarkan path hasil upload.
func (uc *UploadController) DeleteImage(c echo.Context) error {
	var req struct {
		Path string `json:"path" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.Path == "" {
		return responses.Error(c, http.StatusBadRequest, "Path file wajib diisi")
	}

	if err := uc.Store.Delete(req.Path); err != nil {
		if errors.Is(err, files.ErrFileNotFound) {
			return responses.Error(c, http.StatusNotFound, err.Error())
		}
		return responses.Error(c, http.StatusBadRequest, "Gagal menghapus file")
	}
	return responses.Success(c, http.StatusOK, "File berhasil dihapus", nil)
}
