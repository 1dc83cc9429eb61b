package main

import (
	"log"

	"github.com/sekolahapp/spp-backend/config"
	siswaServices "github.com/sekolahapp/spp-backend/internal/siswa/services"
	"github.com/sekolahapp/spp-backend/pkg/storage/mariadb"
)

// Job sekali jalan: melengkapi kolom kelas/jurusan/tahun_masuk akun siswa
// yang kosong dari roster valid_students. Dijalankan manual atau lewat cron.
func main() {
	config.LoadConfig()
	db := mariadb.Connect()
	defer db.Close()

	siswaService := siswaServices.NewSiswaService(db)
	updated, err := siswaService.ReconcileFromRoster()
	if err != nil {
		log.Fatalf("reconcile gagal: %v", err)
	}
	log.Printf("reconcile selesai, %d akun siswa dilengkapi dari roster", updated)
}
