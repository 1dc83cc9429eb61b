package models

import "time"

// Kelas adalah data referensi kelas (mis. "XII RPL 1").
type Kelas struct {
	ID        int64     `json:"id"`
	Nama      string    `json:"nama"`
	Tingkat   string    `json:"tingkat,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Jurusan adalah data referensi jurusan (mis. kode "RPL").
type Jurusan struct {
	ID        int64     `json:"id"`
	Kode      string    `json:"kode"`
	Nama      string    `json:"nama"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
