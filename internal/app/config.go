package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Secret  string // Required: HS256 signing secret for all tokens
	Issuer  string // Optional: issuer claim for tokens (default: contacthub)
	BaseURL string // Optional: public origin embedded in mail links (default: http://localhost:<port>/)

	SessionTTL   time.Duration // Optional: session token lifetime (default: 15m)
	DatabaseFile string        // Optional: path to SQLite database file (default: ./contacthub.db)
	RedisURL     string        // Optional: redis URL for the session cache (default: redis://localhost:6379/0)

	SMTPAddr     string // Optional: SMTP host:port (default: localhost:25)
	SMTPUsername string // Optional: SMTP AUTH username
	SMTPPassword string // Optional: SMTP AUTH password
	MailFrom     string // Optional: From address (default: noreply@contacthub.local)
	MailFromName string // Optional: From display name (default: ContactHub)

	S3Region    string // Optional: object storage region (default: us-east-1)
	S3Endpoint  string // Optional: object storage endpoint (default: http://localhost:9000)
	S3AccessKey string // Optional: object storage access key
	S3SecretKey string // Optional: object storage secret key
	S3Bucket    string // Optional: avatar bucket (default: avatars)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Secret:  os.Getenv("APP_SECRET"),
		Issuer:  getEnvOrDefault("APP_ISSUER", "contacthub"),
		BaseURL: os.Getenv("APP_BASE_URL"),

		SessionTTL:   getEnvDurationOrDefault("APP_SESSION_TTL", 15*time.Minute),
		DatabaseFile: getEnvOrDefault("APP_DATABASE_FILE", "contacthub.db"),
		RedisURL:     getEnvOrDefault("APP_REDIS_URL", "redis://localhost:6379/0"),

		SMTPAddr:     getEnvOrDefault("SMTP_ADDR", "localhost:25"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnvOrDefault("MAIL_FROM", "noreply@contacthub.local"),
		MailFromName: getEnvOrDefault("MAIL_FROM_NAME", "ContactHub"),

		S3Region:    getEnvOrDefault("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnvOrDefault("S3_ENDPOINT", "http://localhost:9000"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    getEnvOrDefault("S3_BUCKET", "avatars"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
