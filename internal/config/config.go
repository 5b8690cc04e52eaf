package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string

	// SaveMirror selects the remote save tier: none, redis or s3.
	SaveMirror    string
	SQLitePath    string
	MirrorTimeout time.Duration

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	PrivilegedPlayerIDs []string

	// RNGSeed seeds the engine RNG when non-zero.
	RNGSeed uint64
}

func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		LogLevel:            parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		SaveMirror:          strings.ToLower(getEnv("SAVE_MIRROR", "none")),
		SQLitePath:          getEnv("SQLITE_PATH", "data/wasteland.db"),
		MirrorTimeout:       getEnvDuration("MIRROR_TIMEOUT", 5*time.Second),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3Region:            getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:          getEnv("S3_ENDPOINT", ""),
		S3PathStyle:         strings.EqualFold(getEnv("S3_PATH_STYLE", "false"), "true"),
		PrivilegedPlayerIDs: getEnvList("PRIVILEGED_PLAYER_IDS"),
		RNGSeed:             uint64(getEnvInt("RNG_SEED", 0)),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
