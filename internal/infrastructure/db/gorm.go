package db

import (
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"loan-backoffice/internal/domain/cashflow"
	"loan-backoffice/internal/domain/chat"
	"loan-backoffice/internal/domain/client"
	"loan-backoffice/internal/domain/document"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/internal/domain/loanrequest"
	"loan-backoffice/internal/domain/transaction"
	"loan-backoffice/pkg/logger"
)

type options struct {
	logLevel     gormlogger.LogLevel
	log          *logger.Logger
	maxOpenConns int
	maxIdleConns int
}

type Option func(*options)

// WithLogLevel accepts silent, error, warn or info; anything else means warn.
func WithLogLevel(level string) Option {
	return func(o *options) { o.logLevel = ParseLogLevel(level) }
}

// WithLogger routes SQL logs through l instead of stdout.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMaxOpenConns(open, idle int) Option {
	return func(o *options) {
		o.maxOpenConns = open
		o.maxIdleConns = idle
	}
}

func ParseLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// zapWriter adapts the zap logger to gorm's Printf writer.
type zapWriter struct{ l *logger.Logger }

func (w zapWriter) Printf(format string, args ...any) { w.l.Infof(format, args...) }

func OpenGorm(dsn string, opts ...Option) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), opts...)
}

// OpenGormWithDialector opens the pool, applies pool limits and pings once.
// Timestamps generated by gorm are UTC with second precision.
func OpenGormWithDialector(dial gorm.Dialector, opts ...Option) (*gorm.DB, error) {
	o := options{logLevel: gormlogger.Warn, maxOpenConns: 30, maxIdleConns: 10}
	for _, fn := range opts {
		fn(&o)
	}

	gl := gormlogger.Default.LogMode(o.logLevel)
	if o.log != nil {
		gl = gormlogger.New(zapWriter{o.log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  o.logLevel,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:               gl,
		NowFunc:              func() time.Time { return time.Now().UTC().Truncate(time.Second) },
		DisableAutomaticPing: true,
		TranslateError:       true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.maxOpenConns)
	sqlDB.SetMaxIdleConns(o.maxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every persisted entity in creation order.
func Models() []any {
	return []any{
		&identity.Branch{},
		&identity.User{},
		&client.Client{},
		&loanrequest.LoanRequest{},
		&transaction.Transaction{},
		&cashflow.CashFlow{},
		&cashflow.DayClosure{},
		&document.Document{},
		&chat.Message{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
