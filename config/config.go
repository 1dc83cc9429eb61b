package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv       string
	Port         string
	DBUser       string
	DBPassword   string
	DBHost       string
	DBPort       string
	DBName       string
	JWTSecret    string
	UploadDir    string
	FCMServerKey string
	FCMEndpoint  string
}

var (
	cfg  *Config
	once sync.Once
)

func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found. Relying on environment variables.")
		}
		cfg = &Config{
			AppEnv:       os.Getenv("APP_ENV"),
			Port:         os.Getenv("PORT"),
			DBUser:       os.Getenv("DB_USER"),
			DBPassword:   os.Getenv("DB_PASSWORD"),
			DBHost:       os.Getenv("DB_HOST"),
			DBPort:       os.Getenv("DB_PORT"),
			DBName:       os.Getenv("DB_NAME"),
			JWTSecret:    os.Getenv("JWT_SECRET_KEY"),
			UploadDir:    os.Getenv("UPLOAD_DIR"),
			FCMServerKey: os.Getenv("FCM_SERVER_KEY"),
			FCMEndpoint:  os.Getenv("FCM_ENDPOINT"),
		}
		if cfg.Port == "" {
			cfg.Port = "8080"
		}
		if cfg.UploadDir == "" {
			cfg.UploadDir = "uploads"
		}
	})
	return cfg
}
