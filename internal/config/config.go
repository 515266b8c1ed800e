package config

import (
	"os"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Paths    PathConfig
	Database DatabaseConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// PathConfig holds file system paths
type PathConfig struct {
	UploadDir string
	ModelDir  string
}

// DatabaseConfig holds the optional upload-registry database settings.
// An empty URL disables the registry.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables, applying defaults
// for anything unset.
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:    envOr("PORT", "5001"),
			GinMode: envOr("GIN_MODE", "release"),
		},
		Paths: PathConfig{
			UploadDir: envOr("UPLOAD_DIR", "uploads"),
			ModelDir:  envOr("MODEL_DIR", "models"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
