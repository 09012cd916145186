package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpadp "loan-backoffice/internal/adapter/http"
	mw "loan-backoffice/internal/adapter/middleware"
	"loan-backoffice/internal/adapter/repository/mysql"
	"loan-backoffice/internal/config"
	"loan-backoffice/internal/domain/loanrequest"
	"loan-backoffice/internal/domain/uow"
	"loan-backoffice/internal/infrastructure/cache"
	"loan-backoffice/internal/infrastructure/db"
	"loan-backoffice/internal/timeutil"
	cashuc "loan-backoffice/internal/usecase/cashregister"
	chatuc "loan-backoffice/internal/usecase/chat"
	clientuc "loan-backoffice/internal/usecase/client"
	docuc "loan-backoffice/internal/usecase/document"
	identityuc "loan-backoffice/internal/usecase/identity"
	lruc "loan-backoffice/internal/usecase/loanrequest"
	reportuc "loan-backoffice/internal/usecase/report"
	txuc "loan-backoffice/internal/usecase/transaction"
	"loan-backoffice/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		log = logger.Default()
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), db.WithLogLevel(cfg.GormLogLevel), db.WithLogger(log.WithComponent("gorm")))
	if err != nil {
		log.Fatalw("open mysql", "error", err)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			log.Fatalw("migrate", "error", err)
		}
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalw("mysql pool", "error", err)
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(ctx, cache.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err != nil {
		log.Fatalw("open redis", "addr", cfg.RedisAddr, "error", err)
	}
	defer rdb.Close()

	cal, err := timeutil.NewCalendar(cfg.BusinessTZ)
	if err != nil {
		log.Fatalw("business timezone", "zone", cfg.BusinessTZ, "error", err)
	}

	repos := uow.Repos{
		Users:        mysql.NewIdentityRepository(gdb),
		Clients:      mysql.NewClientRepository(gdb),
		LoanRequests: mysql.NewLoanRequestRepository(gdb),
		Transactions: mysql.NewTransactionRepository(gdb),
		CashFlows:    mysql.NewCashFlowRepository(gdb),
	}
	tx := mysql.NewGormUoW(gdb)
	docs := mysql.NewDocumentRepository(gdb)
	limits := loanrequest.Limits{
		MinRequested: cfg.LoanMinRequested,
		MaxRequested: cfg.LoanMaxRequested,
		InvoiceLimit: cfg.LoanInvoiceLimit,
	}
	ids := identityuc.NewUsecase(repos.Users)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(mw.RequestID(), mw.Logger(log), mw.AccessLog(log), echomw.Recover(), mw.Metrics())
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	httpadp.Register(e, httpadp.Handlers{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"database": sqlDB.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Identity:     httpadp.NewIdentityHandler(ids),
		Clients:      httpadp.NewClientHandler(clientuc.NewUsecase(repos.Clients, repos.Users)),
		LoanRequests: httpadp.NewLoanRequestHandler(lruc.NewUsecase(repos, tx, cal, limits)),
		Transactions: httpadp.NewTransactionHandler(txuc.NewUsecase(repos, tx, cal)),
		CashRegister: httpadp.NewCashRegisterHandler(cashuc.NewUsecase(repos, tx, cal)),
		ClientFiles: httpadp.NewClientFilesHandler(
			docuc.NewUsecase(docs, repos.Clients, repos.Users),
			chatuc.NewUsecase(mysql.NewChatRepository(gdb), repos.Clients, repos.Users),
		),
		Reports: httpadp.NewReportHandler(reportuc.NewUsecase(repos, docs, cal)),
	}, mw.Actor(ids), mw.Idempotency(rdb, cfg.IdempotencyTTL()))

	addr := ":" + cfg.AppPort
	go func() {
		log.Infow("listening", "addr", addr, "business_tz", cfg.BusinessTZ)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorw("shutdown", "error", err)
	}
}
