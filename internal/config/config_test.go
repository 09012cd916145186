package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "BUSINESS_TZ", "LOAN_MIN_REQUESTED", "LOAN_MAX_REQUESTED",
		"LOAN_INVOICE_LIMIT", "IDEMPOTENCY_TTL_SECONDS", "REDIS_DB"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.AppPort != "8080" || c.BusinessTZ != "America/Bogota" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.LoanMinRequested != 50000 || c.LoanMaxRequested != 5000000 || c.LoanInvoiceLimit != 0 {
		t.Fatalf("unexpected loan bounds: %+v", c)
	}
	if c.IdempTTLSecs != 300 {
		t.Fatalf("IdempTTLSecs = %d", c.IdempTTLSecs)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOAN_INVOICE_LIMIT", "900000")
	t.Setenv("LOG_DEVELOPMENT", "true")
	t.Setenv("LOAN_MAX_REQUESTED", "not-a-number")

	c := Load()
	if c.AppPort != "9090" || c.RedisDB != 3 || c.LoanInvoiceLimit != 900000 || !c.LogDevelopment {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.LoanMaxRequested != 5000000 {
		t.Fatalf("bad number should fall back to default, got %d", c.LoanMaxRequested)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort: "8080", MySQLHost: "h", MySQLPort: "3306", MySQLDB: "d", MySQLUser: "u",
			BusinessTZ: "UTC", LoanMinRequested: 1, LoanMaxRequested: 10, IdempTTLSecs: 1, GormLogLevel: "warn",
		}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"missing host", func(c *Config) { c.MySQLHost = "" }, "missing MySQL"},
		{"bad port", func(c *Config) { c.MySQLPort = "abc" }, "MYSQL_PORT"},
		{"bad tz", func(c *Config) { c.BusinessTZ = "Mars/Olympus" }, "BUSINESS_TZ"},
		{"min>max", func(c *Config) { c.LoanMinRequested = 20 }, "loan bounds"},
		{"negative invoice", func(c *Config) { c.LoanInvoiceLimit = -1 }, "LOAN_INVOICE_LIMIT"},
		{"gorm level", func(c *Config) { c.GormLogLevel = "loud" }, "GORM_LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{MySQLUser: "u", MySQLPass: "p", MySQLHost: "db", MySQLPort: "3306", MySQLDB: "x"}
	dsn := c.MySQLDSN()
	if !strings.HasPrefix(dsn, "u:p@tcp(db:3306)/x?") || !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("unexpected dsn %q", dsn)
	}
}
