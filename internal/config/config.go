package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort       string
	DBDSN         string
	JWTSecret     string
	JWTExpiresMin int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	UploadDir     string
	PublicBaseURL string
	LogLevel      string
}

func Load() Config {
	// 1440 minutes = 1 day token lifetime
	expires, _ := strconv.Atoi(get("JWT_EXPIRES_MIN", "1440"))
	redisDB, _ := strconv.Atoi(get("REDIS_DB", "0"))
	return Config{
		AppPort:       get("APP_PORT", "8080"),
		DBDSN:         must("DB_DSN"),
		JWTSecret:     must("JWT_SECRET"),
		JWTExpiresMin: expires,
		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		UploadDir:     get("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: get("APP_BASE_URL", "http://localhost:8080"),
		LogLevel:      get("LOG_LEVEL", "info"),
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
