package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreSQL    = "sql"    // MySQL for accounts, Mongo for documents
	StoreMemory = "memory" // everything in process; for demos and tests
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	LogLevel string // zerolog level name

	StoreDriver  string // STORE_DRIVER: sql or memory
	SeedDemoData bool   // insert demo movies when the catalog is empty

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	MongoURI string
	MongoDB  string

	JWTSecret      string   // secret used to sign JWTs
	AccessTTLMin   int      // access token time-to-live in minutes
	RefreshTTLDays int      // refresh token time-to-live in days
	BcryptCost     int      // bcrypt cost for password hashing
	AdminEmails    []string // addresses promoted to ADMIN on registration

	RabbitURL  string // empty disables the publisher and consumer
	BookingLog string // directory the booking consumer appends to

	Payment PaymentConfig
	Mail    MailConfig
	Booking BookingConfig
}

// PaymentConfig configures the card gateway. An empty secret key leaves
// the service in demo mode.
type PaymentConfig struct {
	StripeSecretKey string
	Currency        string
}

type MailConfig struct {
	Host        string
	Port        int
	User        string
	Pass        string
	From        string
	FrontendURL string
}

// BookingConfig tunes the seat engine and the expiry sweeper.
type BookingConfig struct {
	LockTTL         time.Duration
	CancelWindow    time.Duration
	Serialize       bool
	SweeperEnabled  bool
	SweeperInterval time.Duration
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool { return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production") }

// Load reads configuration values from environment variables. Required
// variables are enforced by must(); every missing or malformed value is
// collected and reported together.
func Load() (Config, error) {
	var l loader
	cfg := Config{
		Env:          l.must("APP_ENV"),
		Port:         l.must("APP_PORT"),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		StoreDriver:  strings.ToLower(envStr("STORE_DRIVER", StoreSQL)),
		SeedDemoData: envBool("SEED_DEMO_DATA", false),

		JWTSecret:      l.must("JWT_SECRET"),
		AccessTTLMin:   l.mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: l.mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     l.mustInt("BCRYPT_COST"),
		AdminEmails:    splitList(os.Getenv("ADMIN_EMAILS")),

		RabbitURL:  os.Getenv("RABBITMQ_URL"),
		BookingLog: envStr("BOOKING_LOG_DIR", "logs"),

		Payment: PaymentConfig{
			StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
			Currency:        strings.ToLower(envStr("PAYMENT_CURRENCY", "usd")),
		},
		Mail: MailConfig{
			Host:        os.Getenv("SMTP_HOST"),
			Port:        envInt("SMTP_PORT", 587),
			User:        os.Getenv("SMTP_USER"),
			Pass:        os.Getenv("SMTP_PASS"),
			From:        envStr("MAIL_FROM", "no-reply@movietickets.local"),
			FrontendURL: strings.TrimRight(envStr("FRONTEND_URL", "http://localhost:3000"), "/"),
		},
		Booking: BookingConfig{
			LockTTL:         envDur("SEAT_LOCK_TTL", 10*time.Minute),
			CancelWindow:    envDur("CANCEL_WINDOW", 24*time.Hour),
			Serialize:       envBool("SEAT_SERIALIZE", false),
			SweeperEnabled:  envBool("SWEEPER_ENABLED", false),
			SweeperInterval: envDur("SWEEPER_INTERVAL", time.Minute),
		},
	}

	switch cfg.StoreDriver {
	case StoreSQL:
		cfg.DBUser = l.must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS")
		cfg.DBHost = l.must("DB_HOST")
		cfg.DBPort = l.must("DB_PORT")
		cfg.DBName = l.must("DB_NAME")
		cfg.MongoURI = l.must("MONGO_URI")
		cfg.MongoDB = envStr("MONGO_DB", "movie_tickets")
	case StoreMemory:
	default:
		l.invalid = append(l.invalid, fmt.Sprintf("STORE_DRIVER=%q", cfg.StoreDriver))
	}

	if cfg.Booking.SweeperInterval <= 0 {
		cfg.Booking.SweeperInterval = time.Minute
	}
	return cfg, l.err()
}

// loader accumulates missing and malformed required variables.
type loader struct {
	missing []string
	invalid []string
}

// must retrieves the value of a required environment variable.
func (l *loader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		l.missing = append(l.missing, key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func (l *loader) mustInt(key string) int {
	s := l.must(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		l.invalid = append(l.invalid, fmt.Sprintf("%s=%q", key, s))
	}
	return n
}

func (l *loader) err() error {
	var errs []error
	if len(l.missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required env var: %s", strings.Join(l.missing, ", ")))
	}
	if len(l.invalid) > 0 {
		errs = append(errs, fmt.Errorf("invalid env var: %s", strings.Join(l.invalid, ", ")))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
