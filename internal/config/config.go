package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	LogLevel       string
	LogDevelopment bool
	GormLogLevel   string

	// IANA zone defining the business day.
	BusinessTZ string

	LoanMinRequested int64
	LoanMaxRequested int64
	// 0 disables the aggregate invoice cap.
	LoanInvoiceLimit int64

	AutoMigrate bool
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

// Load reads the environment, after loading an optional .env file from the
// working directory. Values already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "backoffice"),
		MySQLUser: getenv("MYSQL_USER", "backoffice"),
		MySQLPass: getenv("MYSQL_PASS", "backoffice"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      int(getenvInt("REDIS_DB", 0)),
		IdempTTLSecs: int(getenvInt("IDEMPOTENCY_TTL_SECONDS", 300)),

		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogDevelopment: getenvBool("LOG_DEVELOPMENT", false),
		GormLogLevel:   getenv("GORM_LOG_LEVEL", "warn"),

		BusinessTZ: getenv("BUSINESS_TZ", "America/Bogota"),

		LoanMinRequested: getenvInt("LOAN_MIN_REQUESTED", 50000),
		LoanMaxRequested: getenvInt("LOAN_MAX_REQUESTED", 5000000),
		LoanInvoiceLimit: getenvInt("LOAN_INVOICE_LIMIT", 0),

		AutoMigrate: getenvBool("AUTO_MIGRATE", true),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if _, err := time.LoadLocation(c.BusinessTZ); err != nil {
		return fmt.Errorf("invalid BUSINESS_TZ %q: %w", c.BusinessTZ, err)
	}
	if c.LoanMinRequested <= 0 || c.LoanMaxRequested < c.LoanMinRequested {
		return fmt.Errorf("invalid loan bounds: min=%d max=%d", c.LoanMinRequested, c.LoanMaxRequested)
	}
	if c.LoanInvoiceLimit < 0 {
		return errors.New("LOAN_INVOICE_LIMIT must be >= 0")
	}
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be > 0")
	}
	switch strings.ToLower(c.GormLogLevel) {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("invalid GORM_LOG_LEVEL %q", c.GormLogLevel)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME; loc=UTC keeps stored instants in UTC
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
