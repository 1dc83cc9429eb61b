package routes

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	antrianControllers "github.com/sekolahapp/spp-backend/internal/antrian/controllers"
	antrianServices "github.com/sekolahapp/spp-backend/internal/antrian/services"
	authControllers "github.com/sekolahapp/spp-backend/internal/auth/controllers"
	authModels "github.com/sekolahapp/spp-backend/internal/auth/models"
	authServices "github.com/sekolahapp/spp-backend/internal/auth/services"
	"github.com/sekolahapp/spp-backend/config"
	"github.com/sekolahapp/spp-backend/internal/common/middlewares"
	dashboardControllers "github.com/sekolahapp/spp-backend/internal/dashboard/controllers"
	dashboardServices "github.com/sekolahapp/spp-backend/internal/dashboard/services"
	kontenControllers "github.com/sekolahapp/spp-backend/internal/konten/controllers"
	kontenServices "github.com/sekolahapp/spp-backend/internal/konten/services"
	notifControllers "github.com/sekolahapp/spp-backend/internal/notifikasi/controllers"
	notifServices "github.com/sekolahapp/spp-backend/internal/notifikasi/services"
	pembayaranControllers "github.com/sekolahapp/spp-backend/internal/pembayaran/controllers"
	pembayaranServices "github.com/sekolahapp/spp-backend/internal/pembayaran/services"
	siswaControllers "github.com/sekolahapp/spp-backend/internal/siswa/controllers"
	siswaServices "github.com/sekolahapp/spp-backend/internal/siswa/services"
	tagihanControllers "github.com/sekolahapp/spp-backend/internal/tagihan/controllers"
	tagihanServices "github.com/sekolahapp/spp-backend/internal/tagihan/services"
	uploadControllers "github.com/sekolahapp/spp-backend/internal/upload/controllers"
	"github.com/sekolahapp/spp-backend/pkg/storage/files"
	"github.com/sekolahapp/spp-backend/ws"
)

// Init menginisialisasi semua routes menggunakan Echo framework
func Init(e *echo.Echo, db *sql.DB, cfg *config.Config) {
	// Inisialisasi service
	fcmClient := notifServices.NewFCMClient(cfg.FCMServerKey, cfg.FCMEndpoint)
	notifService := notifServices.NewNotifikasiService(db, fcmClient)
	tagihanService := tagihanServices.NewTagihanService(db)
	pembayaranService := pembayaranServices.NewPembayaranService(db, tagihanService, notifService)
	antrianService := antrianServices.NewAntrianService(db)
	authService := authServices.NewAuthService(db, tagihanService)
	siswaService := siswaServices.NewSiswaService(db)
	kelasService := siswaServices.NewKelasService(db)
	pengumumanService := kontenServices.NewPengumumanService(db)
	eventService := kontenServices.NewEventService(db)
	bannerService := kontenServices.NewBannerService(db)
	dashboardService := dashboardServices.NewDashboardService(db, antrianService)
	fileStore := files.NewStore(cfg.UploadDir)

	// Inisialisasi controller dengan service yang sesuai
	authController := authControllers.NewAuthController(authService)
	siswaController := siswaControllers.NewSiswaController(siswaService)
	kelasController := siswaControllers.NewKelasController(kelasService)
	tagihanController := tagihanControllers.NewTagihanController(tagihanService, pembayaranService)
	pembayaranController := pembayaranControllers.NewPembayaranController(pembayaranService)
	antrianController := antrianControllers.NewAntrianController(antrianService, tagihanService, notifService)
	pengumumanController := kontenControllers.NewPengumumanController(pengumumanService)
	eventController := kontenControllers.NewEventController(eventService)
	bannerController := kontenControllers.NewBannerController(bannerService)
	notifController := notifControllers.NewNotifikasiController(notifService)
	dashboardController := dashboardControllers.NewDashboardController(dashboardService)
	uploadController := uploadControllers.NewUploadController(fileStore)

	jwt := middlewares.JWTMiddleware()
	siswaOnly := middlewares.RequireRole(authModels.RoleSiswa)
	petugasAdmin := middlewares.RequireRole(authModels.RolePetugas, authModels.RoleAdmin)
	adminOnly := middlewares.RequireRole(authModels.RoleAdmin)

	// Grup API utama
	api := e.Group("/api")

	// **Auth** (register/login/validate-nisn tanpa JWT)
	auth := api.Group("/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.POST("/validate-nisn", authController.ValidateNisn)
	auth.GET("/profile", authController.Profile, jwt)
	auth.PUT("/profile", authController.UpdateProfile, jwt)
	auth.POST("/fcm-token", authController.UpdateFCMToken, jwt)
	auth.POST("/change-password", authController.ChangePassword, jwt)
	auth.POST("/logout", authController.Logout, jwt)

	// **Referensi publik** untuk form registrasi
	api.GET("/kelas", kelasController.ListKelas)
	api.GET("/jurusan", kelasController.ListJurusan)

	// **Siswa** (admin)
	students := api.Group("/students", jwt, petugasAdmin)
	students.GET("", siswaController.List)
	students.GET("/stats", siswaController.Stats)
	students.GET("/:id", siswaController.Get)
	students.GET("/:id/tagihan", tagihanController.StudentBills)
	students.POST("", siswaController.Create, adminOnly)
	students.PUT("/:id", siswaController.Update, adminOnly)
	students.DELETE("/:id", siswaController.Delete, adminOnly)

	// **Kelas & Jurusan** (admin)
	kelas := api.Group("/admin/kelas", jwt, adminOnly)
	kelas.POST("", kelasController.CreateKelas)
	kelas.PUT("/:id", kelasController.UpdateKelas)
	kelas.DELETE("/:id", kelasController.DeleteKelas)
	jurusan := api.Group("/admin/jurusan", jwt, adminOnly)
	jurusan.POST("", kelasController.CreateJurusan)
	jurusan.PUT("/:id", kelasController.UpdateJurusan)
	jurusan.DELETE("/:id", kelasController.DeleteJurusan)

	// **Tagihan**
	tagihan := api.Group("/tagihan", jwt)
	tagihan.GET("", tagihanController.MyBills, siswaOnly)
	tagihan.GET("/belum-lunas", tagihanController.MyOpenBills, siswaOnly)
	tagihan.GET("/:id", tagihanController.Get)

	// **Pembayaran**
	pembayaran := api.Group("/pembayaran", jwt)
	pembayaran.POST("", pembayaranController.Submit, siswaOnly)
	pembayaran.GET("/riwayat", pembayaranController.MyPayments, siswaOnly)
	pembayaran.GET("", pembayaranController.List, petugasAdmin)
	pembayaran.GET("/:id", pembayaranController.Get, petugasAdmin)
	pembayaran.POST("/:id/verify", pembayaranController.Verify, petugasAdmin)
	pembayaran.POST("/manual", pembayaranController.ManualPayment, petugasAdmin)

	// **Antrian**
	api.GET("/antrian/layanan", antrianController.Services)
	antrian := api.Group("/antrian", jwt)
	antrian.POST("", antrianController.Create, siswaOnly)
	antrian.GET("/saya", antrianController.MyQueues, siswaOnly)
	antrian.GET("/aktif", antrianController.MyActiveQueue, siswaOnly)
	antrian.POST("/:id/cancel", antrianController.Cancel)
	antrian.GET("/board", antrianController.ActiveQueues, petugasAdmin)
	antrian.POST("/call-next", antrianController.CallNext, petugasAdmin)
	antrian.POST("/:id/serve", antrianController.Serve, petugasAdmin)
	antrian.POST("/:id/complete", antrianController.Complete, petugasAdmin)
	antrian.POST("/scan", antrianController.ScanQR, petugasAdmin)

	// **Konten** (baca publik, tulis admin)
	api.GET("/announcements", pengumumanController.List)
	api.GET("/announcements/latest", pengumumanController.Latest)
	api.GET("/announcements/:id", pengumumanController.Get)
	api.GET("/announcements/:id/other", pengumumanController.Other)
	api.POST("/announcements", pengumumanController.Create, jwt, adminOnly)
	api.PUT("/announcements/:id", pengumumanController.Update, jwt, adminOnly)
	api.DELETE("/announcements/:id", pengumumanController.Delete, jwt, adminOnly)

	api.GET("/events", eventController.List)
	api.GET("/events/upcoming", eventController.Upcoming)
	api.GET("/events/:id", eventController.Get)
	api.GET("/events/:id/similar", eventController.Similar)
	api.POST("/events/:id/remind", eventController.Remind, jwt, siswaOnly)
	api.POST("/events", eventController.Create, jwt, adminOnly)
	api.PUT("/events/:id", eventController.Update, jwt, adminOnly)
	api.DELETE("/events/:id", eventController.Delete, jwt, adminOnly)

	api.GET("/banners/active", bannerController.Active)
	api.GET("/banners", bannerController.List, jwt, adminOnly)
	api.POST("/banners", bannerController.Create, jwt, adminOnly)
	api.PUT("/banners/:id", bannerController.Update, jwt, adminOnly)
	api.DELETE("/banners/:id", bannerController.Delete, jwt, adminOnly)

	// **Notifikasi**
	notif := api.Group("/notifications", jwt)
	notif.GET("", notifController.List)
	notif.GET("/unread-count", notifController.UnreadCount)
	notif.POST("/:id/read", notifController.MarkRead)
	notif.POST("/read-all", notifController.MarkAllRead)
	notif.DELETE("/:id", notifController.Delete)

	// **Dashboard & pencarian**
	api.GET("/dashboard/siswa", dashboardController.SiswaStats, jwt, siswaOnly)
	api.GET("/dashboard/admin", dashboardController.AdminStats, jwt, petugasAdmin)
	api.GET("/search", dashboardController.Search)

	// **Upload**
	api.POST("/upload/image", uploadController.UploadImage, jwt)
	api.DELETE("/upload/image", uploadController.DeleteImage, jwt, petugasAdmin)

	// **WebSocket papan antrian**
	e.GET("/ws", ws.ServeWS(ws.HubInstance))

	// File statis hasil upload
	e.Static("/"+cfg.UploadDir, cfg.UploadDir)
}
