package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Intent   IntentConfig
	Geocode  GeocodeConfig
	Events   EventsConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	FeedLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	JWTExpiry          time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	Geoapify string
}

// IntentConfig drives the chat command matcher.
type IntentConfig struct {
	DefaultLocale          string
	PhraseDir              string // optional directory of YAML phrase tables
	SimilarityThreshold    float64
	ShortPhraseMaxLen      int
	ShortPhraseMaxDistance int
	MatcherCacheTTL        time.Duration
	SessionTTL             time.Duration // how long a half-finished chat flow is kept
}

type GeocodeConfig struct {
	BaseURL   string
	CacheTTL  time.Duration
	Precision int    // decimal places kept in cache keys
	Backend   string // "memory" or "redis"
	Timeout   time.Duration
}

type EventsConfig struct {
	TicketAlertTopic string
	FeedDurable      string
}

// TracingConfig is off unless OTEL_ENABLED=true.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string // host:port of an OTLP/HTTP collector
	ServiceName string
	SampleRatio float64
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			FeedLogFilePath:    getEnv("FEED_LOG_FILE_PATH", "logs/feed.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			JWTExpiry:          getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "ShiftDesk"),
		},
		Keys: APIKeys{
			Geoapify: getEnv("GEOAPIFY_API_KEY", ""),
		},
		Intent: IntentConfig{
			DefaultLocale:          getEnv("INTENT_DEFAULT_LOCALE", "multi"),
			PhraseDir:              getEnv("INTENT_PHRASE_DIR", ""),
			SimilarityThreshold:    getEnvAsFloat("INTENT_SIMILARITY_THRESHOLD", 0.78),
			ShortPhraseMaxLen:      getEnvAsInt("INTENT_SHORT_PHRASE_MAX_LEN", 8),
			ShortPhraseMaxDistance: getEnvAsInt("INTENT_SHORT_PHRASE_MAX_DISTANCE", 2),
			MatcherCacheTTL:        getEnvAsDuration("INTENT_MATCHER_CACHE_TTL", 5*time.Minute),
			SessionTTL:             getEnvAsDuration("CHAT_SESSION_TTL", 15*time.Minute),
		},
		Geocode: GeocodeConfig{
			BaseURL:   getEnv("GEOCODE_BASE_URL", "https://api.geoapify.com"),
			CacheTTL:  getEnvAsDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
			Precision: getEnvAsInt("GEOCODE_PRECISION", 4),
			Backend:   getEnv("GEOCODE_CACHE_BACKEND", "memory"),
			Timeout:   getEnvAsDuration("GEOCODE_TIMEOUT", 5*time.Second),
		},
		Events: EventsConfig{
			TicketAlertTopic: getEnv("TICKET_ALERT_TOPIC", "TICKET_ALERT"),
			FeedDurable:      getEnv("FEED_DURABLE_NAME", "feed-worker"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "shiftdesk-be"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s", "5m").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
