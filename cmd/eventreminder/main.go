package main

import (
	"fmt"
	"log"

	"github.com/sekolahapp/spp-backend/config"
	kontenServices "github.com/sekolahapp/spp-backend/internal/konten/services"
	notifModels "github.com/sekolahapp/spp-backend/internal/notifikasi/models"
	notifServices "github.com/sekolahapp/spp-backend/internal/notifikasi/services"
	"github.com/sekolahapp/spp-backend/pkg/storage/mariadb"
)

// Job pengirim pengingat event yang sudah jatuh tempo. Dijalankan berkala
// lewat cron; tiap pengingat dikirim sebagai notifikasi + push FCM dan
// ditandai terkirim. Kegagalan satu penerima tidak menghentikan sisanya.
func main() {
	cfg := config.LoadConfig()
	db := mariadb.Connect()
	defer db.Close()

	eventService := kontenServices.NewEventService(db)
	fcmClient := notifServices.NewFCMClient(cfg.FCMServerKey, cfg.FCMEndpoint)
	notifService := notifServices.NewNotifikasiService(db, fcmClient)

	due, err := eventService.DueReminders()
	if err != nil {
		log.Fatalf("gagal mengambil pengingat jatuh tempo: %v", err)
	}
	if len(due) == 0 {
		log.Println("tidak ada pengingat event yang jatuh tempo")
		return
	}

	sent := 0
	for _, r := range due {
		pesan := fmt.Sprintf("Event %s dimulai %s", r.JudulEvent, r.TanggalMulai.Format("02 Jan 2006 15:04"))
		if r.Lokasi != "" {
			pesan += " di " + r.Lokasi
		}

		_, err := notifService.Create(r.UserID, notifModels.TipeEvent, "Pengingat Event", pesan, map[string]interface{}{
			"event_id": r.EventID,
		})
		if err != nil {
			log.Printf("gagal mengirim pengingat %d ke user %d: %v", r.ID, r.UserID, err)
			continue
		}
		if err := eventService.MarkReminderSent(r.ID); err != nil {
			log.Printf("gagal menandai pengingat %d terkirim: %v", r.ID, err)
			continue
		}
		sent++
	}
	log.Printf("pengingat event selesai, %d dari %d terkirim", sent, len(due))
}
