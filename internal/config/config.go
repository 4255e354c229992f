package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all service configuration loaded from environment variables.
// It is built once at startup and never mutated afterwards.
type Config struct {
	Port           string
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	RedisAddr      string
	RedisPassword  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	AllowedOrigins []string
	RateLimit      int
	RateWindowSec  int
}

func Load() *Config {
	return &Config{
		Port:           getenv("PORT", "3000"),
		MongoURI:       getenv("MONGODB_URI", ""),
		MongoDB:        getenv("DB_NAME", "job_tracker"),
		JWTSecret:      getenv("JWT_SECRET", ""),
		RedisAddr:      getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "job-tracker"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		AllowedOrigins: splitOrigins(getenv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		RateLimit:      getenvInt("RATE_LIMIT", 100),
		RateWindowSec:  getenvInt("RATE_WINDOW_SEC", 60),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
