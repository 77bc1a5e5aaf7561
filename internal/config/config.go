package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries process-level settings. Values come from the
// environment, optionally seeded from a .env file in the working
// directory.
//
// MYSQL_DSN and REDIS_ADDR are optional: when unset, storage falls
// back to JSON files under DataDir and the availability cache is
// disabled.
type Config struct {
	HTTPAddr  string
	DataDir   string
	MySQLDSN  string
	RedisAddr string
	Dev       bool
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		DataDir:   getEnv("OMS_DATA_DIR", "data"),
		MySQLDSN:  os.Getenv("MYSQL_DSN"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		Dev:       os.Getenv("ENV") == "development",
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
