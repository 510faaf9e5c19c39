package config

import (
	"os"

	"github.com/joho/godotenv"
)

// AppConfig carries all runtime settings. Every field has an env
// override and a working default.
type AppConfig struct {
	HTTPAddr     string
	CSVPath      string
	StoreBackend string // csv, memory or redis
	RedisAddr    string
	RedisPass    string
}

// Load reads a .env file when present, then the environment.
func Load() AppConfig {
	_ = godotenv.Load()
	return AppConfig{
		HTTPAddr:     ":" + getEnv("PORT", "3001"),
		CSVPath:      getEnv("CSV_FILE_PATH", "data/customers.csv"),
		StoreBackend: getEnv("STORE_BACKEND", "csv"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    getEnv("REDIS_PASS", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
