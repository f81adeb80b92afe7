package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend selects where booking state lives.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	LogLevel      slog.Level
	Backend       Backend

	Booking      BookingConfig
	Calendar     CalendarConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Notification NotificationConfig
	Audit        AuditConfig
}

// BookingConfig holds the eligibility policy and transaction bounds.
type BookingConfig struct {
	TheoryValidityYears int // 0 disables the theory requirement
	RetryDelayDays      int
	MaxFailures         int
	TxTimeout           time.Duration
}

// CalendarConfig holds the reference timezone and slot visibility rule.
type CalendarConfig struct {
	Timezone           string
	VisibilityLeadDays int
	VisibilityHour     int
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL            string
	PoolSize       int
	MinIdleConns   int
	DialTimeout    time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	CentreCacheTTL time.Duration
	AurigeCacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type NotificationConfig struct {
	QueueCapacity int
	FlushInterval time.Duration
}

type AuditConfig struct {
	QueueCapacity int
	FlushInterval time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win.
func FromEnv() (Server, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Server{}, fmt.Errorf("load .env: %w", err)
	}

	var errs []string
	r := reader{errs: &errs}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	cfg := Server{
		Addr:          r.str("CANDILIB_ADDR", ":8080"),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     os.Getenv("JWT_ISSUER"),
		LogLevel:      r.level("LOG_LEVEL", slog.LevelInfo),
		Backend:       Backend(r.str("STORE_BACKEND", string(BackendMemory))),
		Booking: BookingConfig{
			TheoryValidityYears: r.integer("THEORY_VALIDITY_YEARS", 5),
			RetryDelayDays:      r.integer("RETRY_DELAY_DAYS", 45),
			MaxFailures:         r.integer("MAX_FAILURES", 5),
			TxTimeout:           r.duration("BOOKING_TX_TIMEOUT", 5*time.Second),
		},
		Calendar: CalendarConfig{
			Timezone:           r.str("TIMEZONE", "Europe/Paris"),
			VisibilityLeadDays: r.integer("VISIBILITY_LEAD_DAYS", 1),
			VisibilityHour:     r.integer("VISIBILITY_HOUR", 12),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    r.integer("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    r.integer("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: r.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:            os.Getenv("REDIS_URL"),
			PoolSize:       r.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns:   r.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:    r.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:    r.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:   r.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CentreCacheTTL: r.duration("CENTRE_CACHE_TTL", 10*time.Minute),
			AurigeCacheTTL: r.duration("AURIGE_CACHE_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   r.str("KAFKA_TOPIC", "candilib.bookings"),
		},
		Notification: NotificationConfig{
			QueueCapacity: r.integer("NOTIFICATION_QUEUE_CAPACITY", 10000),
			FlushInterval: r.duration("NOTIFICATION_FLUSH_INTERVAL", time.Second),
		},
		Audit: AuditConfig{
			QueueCapacity: r.integer("AUDIT_QUEUE_CAPACITY", 10000),
			FlushInterval: r.duration("AUDIT_FLUSH_INTERVAL", 2*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return Server{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// Location resolves the configured reference timezone.
func (c CalendarConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c Server) validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required with STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}
	if c.Booking.TheoryValidityYears < 0 {
		return fmt.Errorf("THEORY_VALIDITY_YEARS must not be negative")
	}
	if c.Booking.RetryDelayDays < 0 {
		return fmt.Errorf("RETRY_DELAY_DAYS must not be negative")
	}
	if c.Booking.MaxFailures < 1 {
		return fmt.Errorf("MAX_FAILURES must be at least 1")
	}
	if c.Calendar.VisibilityHour < 0 || c.Calendar.VisibilityHour > 23 {
		return fmt.Errorf("VISIBILITY_HOUR must be between 0 and 23")
	}
	if c.Calendar.VisibilityLeadDays < 0 {
		return fmt.Errorf("VISIBILITY_LEAD_DAYS must not be negative")
	}
	if _, err := c.Calendar.Location(); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

// reader collects parse errors instead of failing on the first one.
type reader struct {
	errs *[]string
}

func (r reader) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (r reader) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return n
}

func (r reader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return d
}

func (r reader) level(key string, def slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		*r.errs = append(*r.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return lvl
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
