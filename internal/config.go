package internal

import (
	"os"
	"strconv"
	"strings"
)

// Username policy of the public deployment: 1-10 Chinese characters.
const defaultUsernamePattern = `^[\x{4e00}-\x{9fa5}]{1,10}$`

type Config struct {
	HTTPAddr        string
	DBPath          string
	RedisAddr       string
	SecretKey       string
	UsernamePattern string

	NearbyRadiusMeters float64
	NearbyLimit        int

	UploadDir     string
	UploadBaseURL string

	ReadTimeout  int64
	WriteTimeout int64
}

func LoadConfig() *Config {
	return &Config{
		HTTPAddr:        getEnvDefault("HTTP_ADDR", ":3001"),
		DBPath:          getEnvDefault("DB_PATH", "geochat.db"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		SecretKey:       getEnvDefault("SECRET_KEY", "dev-secret"),
		UsernamePattern: getEnvDefault("USERNAME_PATTERN", defaultUsernamePattern),

		NearbyRadiusMeters: getEnvFloat("NEARBY_RADIUS_METERS", 3000),
		NearbyLimit:        getEnvInt("NEARBY_LIMIT", 100),

		UploadDir:     getEnvDefault("UPLOAD_DIR", "uploads"),
		UploadBaseURL: getEnvDefault("UPLOAD_BASE_URL", "/uploads"),

		ReadTimeout:  int64(getEnvInt("READ_TIMEOUT_SECONDS", 30)),
		WriteTimeout: int64(getEnvInt("WRITE_TIMEOUT_SECONDS", 30)),
	}
}

func getEnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
