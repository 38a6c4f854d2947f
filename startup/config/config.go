package config

import (
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port           string
	BookingDBHost  string
	BookingDBPort  string
	ImageCacheHost string
	ImageCachePort string
	JaegerAddress  string
	SecretKey      string
	UploadsDir     string
	ClientOrigin   string
	BcryptCost     int
	CasbinModel    string
	CasbinPolicy   string
}

func NewConfig() *Config {
	return &Config{
		Port:           envOr("PORT", "4000"),
		BookingDBHost:  os.Getenv("BOOKING_DB_HOST"),
		BookingDBPort:  os.Getenv("BOOKING_DB_PORT"),
		ImageCacheHost: os.Getenv("IMAGE_CACHE_HOST"),
		ImageCachePort: os.Getenv("IMAGE_CACHE_PORT"),
		JaegerAddress:  os.Getenv("JAEGER_ADDRESS"),
		SecretKey:      os.Getenv("SECRET_KEY"),
		UploadsDir:     envOr("UPLOADS_DIR", "uploads"),
		ClientOrigin:   envOr("CLIENT_ORIGIN", "http://localhost:5173"),
		BcryptCost:     intEnvOr("BCRYPT_COST", bcrypt.DefaultCost),
		CasbinModel:    envOr("CASBIN_MODEL", "./rbac_model.conf"),
		CasbinPolicy:   envOr("CASBIN_POLICY", "./policy.csv"),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnvOr(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
