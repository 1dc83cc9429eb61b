package files

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func buildFileHeader(t *testing.T, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("image", "test.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func TestSavePNG(t *testing.T) {
	store := NewStore(t.TempDir())
	fh := buildFileHeader(t, pngHeader)

	path, err := store.Save(fh, "bukti")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".png"), path)

	_, err = os.Stat(filepath.FromSlash(path))
	assert.NoError(t, err)
}

func TestSaveMenolakFileTerlaluBesar(t *testing.T) {
	store := NewStore(t.TempDir())
	big := make([]byte, MaxUploadSize+1)
	copy(big, pngHeader)
	fh := buildFileHeader(t, big)

	_, err := store.Save(fh, "bukti")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSaveMenolakTipeSelainGambar(t *testing.T) {
	store := NewStore(t.TempDir())
	fh := buildFileHeader(t, []byte("%PDF-1.4 bukan gambar"))

	_, err := store.Save(fh, "bukti")
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestDeleteMenolakPathDiLuarDirektori(t *testing.T) {
	store := NewStore(t.TempDir())
	err := store.Delete("/etc/passwd")
	assert.Error(t, err)
	err = store.Delete(filepath.Join(store.BaseDir, "..", "lain.png"))
	assert.Error(t, err)
}

func TestDeleteFileTidakAda(t *testing.T) {
	store := NewStore(t.TempDir())
	err := store.Delete(filepath.Join(store.BaseDir, "tidakada.png"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDeleteBerhasil(t *testing.T) {
	store := NewStore(t.TempDir())
	fh := buildFileHeader(t, pngHeader)
	path, err := store.Save(fh, "bukti")
	require.NoError(t, err)

	require.NoError(t, store.Delete(filepath.FromSlash(path)))
	_, statErr := os.Stat(filepath.FromSlash(path))
	assert.True(t, os.IsNotExist(statErr))
}
