package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	stringutil "backoffice/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	AdminToken     string
	JWTSigningKey  string
	JWTIssuer      string
	JWTAudience    string
	RequestTimeout time.Duration
	LogLevel       string
	Database       DatabaseConfig
	Redis          RedisConfig
	Audit          AuditConfig
}

// DatabaseConfig configures the PostgreSQL pool. An empty URL selects the
// in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the optional read cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// AuditConfig configures the outbox relay to Kafka.
type AuditConfig struct {
	Brokers      []string
	Topic        string
	PollInterval time.Duration
	BatchSize    int
}

// LoadDotEnv preloads variables from .env when present. Missing files are fine.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:           getString("BACKOFFICE_ADDR", ":8080"),
		AdminToken:     os.Getenv("ADMIN_API_TOKEN"),
		JWTSigningKey:  os.Getenv("JWT_SIGNING_KEY"),
		JWTIssuer:      getString("JWT_ISSUER", "backoffice"),
		JWTAudience:    getString("JWT_AUDIENCE", "backoffice-api"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),
		LogLevel:       getString("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 2*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 500*time.Millisecond),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 500*time.Millisecond),
			CacheTTL:     getDuration("CACHE_TTL", 5*time.Minute),
		},
		Audit: AuditConfig{
			Brokers:      stringutil.DedupeAndTrim(strings.Split(os.Getenv("KAFKA_BROKERS"), ",")),
			Topic:        getString("AUDIT_TOPIC", "backoffice.audit"),
			PollInterval: getDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
			BatchSize:    getInt("OUTBOX_BATCH_SIZE", 100),
		},
	}
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
