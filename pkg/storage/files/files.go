package files

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrFileTooLarge dikembalikan jika ukuran file melebihi batas.
	ErrFileTooLarge = errors.New("ukuran file maksimal 2 MB")
	// ErrInvalidFileType dikembalikan jika isi file bukan gambar yang didukung.
	ErrInvalidFileType = errors.New("file harus berupa gambar JPG, PNG, atau WebP")
	// ErrFileNotFound dikembalikan jika file yang diminta tidak ada.
	ErrFileNotFound = errors.New("file tidak ditemukan")
)

// MaxUploadSize adalah batas ukuran upload gambar.
const MaxUploadSize = 2 << 20

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Store menyimpan file upload di bawah satu direktori dasar.
type Store struct {
	BaseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{BaseDir: baseDir}
}

// Save memvalidasi dan menyimpan gambar upload, mengembalikan path relatif
// (mis. "uploads/bukti/3f2a....jpg"). Jenis file diperiksa dari isinya,
// bukan dari ekstensi yang diklaim klien.
func (s *Store) Save(file *multipart.FileHeader, subDir string) (string, error) {
	if file.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrInvalidFileType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	dir := filepath.Join(s.BaseDir, subDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := uuid.NewString() + ext
	dstPath := filepath.Join(dir, filename)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		os.Remove(dstPath)
		return "", err
	}
	if written > MaxUploadSize {
		os.Remove(dstPath)
		return "", ErrFileTooLarge
	}

	return filepath.ToSlash(filepath.Join(s.BaseDir, subDir, filename)), nil
}

// Delete menghapus file berdasarkan path relatif hasil Save. Path di luar
// direktori dasar ditolak.
func (s *Store) Delete(relPath string) error {
	cleaned := filepath.Clean(relPath)
	base := filepath.Clean(s.BaseDir)
	if cleaned != base && !strings.HasPrefix(cleaned, base+string(filepath.Separator)) {
		return fmt.Errorf("path %q di luar direktori upload", relPath)
	}

	if err := os.Remove(cleaned); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return err
	}
	return nil
}
