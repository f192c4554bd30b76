// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/newtown/billsplitter/internal/imagestore"
)

// Config holds everything the server needs to start.
type Config struct {
	Addr   string
	DBPath string

	GeminiAPIKey string
	GeminiModel  string

	Images imagestore.Config
}

// Load reads configuration from the environment. A missing .env file is fine;
// explicit environment variables always win.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	return Config{
		Addr:         getEnv("ADDR", ":8080"),
		DBPath:       getEnv("DB_PATH", "./data/billsplitter.db"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
		Images: imagestore.Config{
			Endpoint:  os.Getenv("R2_ENDPOINT"),
			AccessKey: os.Getenv("R2_ACCESS_KEY"),
			SecretKey: os.Getenv("R2_SECRET_KEY"),
			Bucket:    os.Getenv("R2_BUCKET_NAME"),
			BaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
