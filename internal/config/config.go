package config

import (
	"os"
	"strconv"
	"time"
)

// StoreConfig holds the local persistence locations.
type StoreConfig struct {
	// DataFile is the JSON metadata snapshot (the single source of truth).
	DataFile string
	// UploadDir is the flat directory holding one file per attachment.
	UploadDir string
	// FileMode is applied to the snapshot file on write.
	FileMode os.FileMode
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables.
type AppConfig struct {
	AppHost  string
	Port     string
	Store    StoreConfig
	Location *time.Location
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Store: StoreConfig{
			DataFile:  getEnv("DATA_FILE", "documents_meta.json"),
			UploadDir: getEnv("UPLOAD_DIR", "uploaded_documents"),
			FileMode:  os.FileMode(getEnvInt("DATA_FILE_MODE", 0o644)),
		},
		Location: loadLocation(getEnv("LOG_TZ", "UTC")),
	}
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
