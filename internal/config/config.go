package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RazorpayKeyID     string
	RazorpayKeySecret string
	UPIPayeeVPA       string
	UPIPayeeName      string

	Credit  CreditConfig
	Metrics MetricsConfig
}

// CreditConfig carries the credit policy knobs: enforcement on limit breach
// and the release behavior on overpayment.
type CreditConfig struct {
	// Enforcement is "block" (reject the sale) or "warn" (post and flag).
	Enforcement string
	// ReleaseClamp floors the balance at zero instead of rejecting a release
	// larger than the outstanding balance.
	ReleaseClamp bool
	// WarningRatio is the balance/limit ratio that triggers credit warnings.
	WarningRatio float64
	// UpcomingWindow is how far ahead a due date counts as "upcoming".
	UpcomingWindow time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

const (
	EnforcementBlock = "block"
	EnforcementWarn  = "warn"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "agroflow"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "agroflow"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		RazorpayKeyID:     strings.TrimSpace(getenv("RAZORPAY_KEY_ID", "")),
		RazorpayKeySecret: strings.TrimSpace(getenv("RAZORPAY_KEY_SECRET", "")),
		UPIPayeeVPA:       strings.TrimSpace(getenv("UPI_PAYEE_VPA", "")),
		UPIPayeeName:      getenv("UPI_PAYEE_NAME", "AgroFlow"),

		Credit: CreditConfig{
			Enforcement:    normalizeEnforcement(getenv("CREDIT_ENFORCEMENT", EnforcementBlock)),
			ReleaseClamp:   getenvBool("LEDGER_RELEASE_CLAMP", false),
			WarningRatio:   getenvFloat("CREDIT_WARNING_RATIO", 0.9),
			UpcomingWindow: time.Duration(getenvInt("UPCOMING_DUE_DAYS", 7)) * 24 * time.Hour,
		},
		Metrics: MetricsConfig{
			Enabled: getenvBool("METRICS_ENABLED", true),
		},
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizeEnforcement(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case EnforcementWarn:
		return EnforcementWarn
	default:
		return EnforcementBlock
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
