package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Session tokens are issued by the external auth provider; we only verify them.
	JWTSecret      string
	AuthCookieName string

	// AI provider (OpenAI-compatible chat completions)
	AIAPIKey  string
	AIAPIURL  string
	AIModel   string
	AITimeout time.Duration
	// Optional second provider, tried when the first fails.
	AIFallbackAPIKey string
	AIFallbackAPIURL string
	AIFallbackModel  string

	// File storage
	UploadDir        string
	MaxUploadBytes   int64
	CloudinaryURL    string
	CloudinaryFolder string

	// Notification ingestion
	KafkaBrokers            []string
	KafkaNotificationsTopic string
	KafkaGroupID            string
	KafkaUsername           string
	KafkaPassword           string

	// Admin
	AdminUserIDs []string

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	SentryDSN   string
	// Requests per minute per IP on /api. Zero disables the limiter.
	RateLimitPerMinute int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "studyhub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "data/studyhub.db"),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		AuthCookieName: getEnv("AUTH_COOKIE_NAME", "session"),

		AIAPIKey:  getEnv("AI_API_KEY", ""),
		AIAPIURL:  getEnv("AI_API_URL", "https://api.openai.com/v1/chat/completions"),
		AIModel:   getEnv("AI_MODEL", "gpt-4o-mini"),
		AITimeout: parseDuration(getEnv("AI_TIMEOUT", "60s")),

		AIFallbackAPIKey: getEnv("AI_FALLBACK_API_KEY", ""),
		AIFallbackAPIURL: getEnv("AI_FALLBACK_API_URL", "https://api.deepseek.com/chat/completions"),
		AIFallbackModel:  getEnv("AI_FALLBACK_MODEL", "deepseek-chat"),

		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:   parseInt64(getEnv("MAX_UPLOAD_BYTES", ""), 50*1024*1024),
		CloudinaryURL:    getEnv("CLOUDINARY_URL", ""),
		CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", "studyhub/uploads"),

		KafkaBrokers:            parseCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaNotificationsTopic: getEnv("KAFKA_NOTIFICATIONS_TOPIC", "notifications"),
		KafkaGroupID:            getEnv("KAFKA_GROUP_ID", "studyhub-backend"),
		KafkaUsername:           getEnv("KAFKA_USERNAME", ""),
		KafkaPassword:           getEnv("KAFKA_PASSWORD", ""),

		AdminUserIDs: parseCSV(getEnv("ADMIN_USER_IDS", "")),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),

		RateLimitPerMinute: int(parseInt64(getEnv("RATE_LIMIT_PER_MINUTE", ""), 60)),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

func parseInt64(s string, fallback int64) int64 {
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
