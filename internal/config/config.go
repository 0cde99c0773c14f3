// Package config loads application configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application-level settings not owned by the database layer.
type Config struct {
	Env  string
	Port string
}

// Load reads configuration from the environment, with .env as a fallback
// for local development. A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
