package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultJWTSecret is the development-only signing key. When Env is "prod",
// JWT_SECRET must be set to something else.
const DefaultJWTSecret = "supersecretkey"

type Config struct {
	Port string

	// DBPath is the embedded store file. The parent directory is created on
	// first run if absent.
	DBPath string

	JWTSecret string

	// JWTExpireHours is the session token lifetime in hours (default 24).
	JWTExpireHours int

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set
	// and not the default.
	Env string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// CORSAllowedOrigins is a list of origins allowed for CORS. Set via
	// CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers
	// are sent (same-origin only).
	CORSAllowedOrigins []string

	// QAAPIURL is the base URL of the hosted table-QA model endpoint.
	QAAPIURL string
	// QAModel is the model identifier appended to the endpoint path.
	QAModel string
	// QAAPIToken is the bearer token for the model endpoint (optional).
	QAAPIToken string
	// QAMock answers questions locally without a model endpoint.
	QAMock bool

	// DatasetTTLMinutes is how long an uploaded dataset is kept in memory
	// before the janitor evicts it (default 60; 0 disables expiry).
	DatasetTTLMinutes int

	// MaxUploadBytes caps the CSV upload body size (default 10 MiB).
	MaxUploadBytes int64

	// CleanupIntervalMinutes is how often the janitor runs (default 5).
	CleanupIntervalMinutes int
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DBPath: getEnv("DB_PATH", "database/users.db"),

		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),
		Env:            getEnv("ENV", "dev"),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),

		QAAPIURL:   getEnv("QA_API_URL", "https://api-inference.huggingface.co"),
		QAModel:    getEnv("QA_MODEL", "google/tapas-base-finetuned-wtq"),
		QAAPIToken: getEnv("QA_API_TOKEN", ""),
		QAMock:     getEnvBool("QA_MOCK", false),

		DatasetTTLMinutes: getEnvInt("DATASET_TTL_MINUTES", 60),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),

		CleanupIntervalMinutes: getEnvInt("CLEANUP_INTERVAL_MINUTES", 5),
	}
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces.
// Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
