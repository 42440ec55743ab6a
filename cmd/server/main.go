package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/checkout/internal/adapter/handler"
	mailadapter "github.com/rl1809/checkout/internal/adapter/mail"
	"github.com/rl1809/checkout/internal/adapter/storage"
	"github.com/rl1809/checkout/internal/config"
	"github.com/rl1809/checkout/internal/core/service"
	"github.com/rl1809/checkout/pkg/logging"
	"github.com/rl1809/checkout/pkg/shutdown"
)

func main() {
	log := logging.New()
	cfg := config.Load()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Error("mysql open failed", "err", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Error("mysql ping failed", "err", err)
		os.Exit(1)
	}
	log.Info("connected to mysql")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("redis ping failed", "err", err)
		os.Exit(1)
	}
	log.Info("connected to redis")

	// Adapters
	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)

	if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
		log.Error("schema setup failed", "err", err)
		os.Exit(1)
	}

	mailer, err := mailadapter.NewSMTPMailer(log, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail)
	if err != nil {
		log.Error("smtp setup failed", "err", err)
		os.Exit(1)
	}
	if !mailer.Configured() {
		log.Warn("smtp credentials not set, notifications will be simulated")
	}

	// Services
	productService := service.NewProductService(log, mysqlAdapter, redisAdapter)
	orderService := service.NewOrderService(log, mysqlAdapter, mysqlAdapter, redisAdapter)
	notificationService := service.NewNotificationService(log, mysqlAdapter, mailer)

	// Reservations gate on cached stock, so push durable values in first.
	if err := productService.SyncAllStock(ctx); err != nil {
		log.Error("stock sync failed", "err", err)
		os.Exit(1)
	}

	// Notification worker pool
	dispatcher := service.NewDispatcher(log, notificationService, cfg.NotifyQueueSize)
	dispatcher.Run(cfg.NotifyWorkers)

	// HTTP server
	httpHandler := handler.NewHTTPHandler(log, orderService, productService, notificationService, dispatcher)
	r := chi.NewRouter()
	r.Mount("/api", httpHandler.Routes())

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("http server stopped")

	dispatcher.Close()
	log.Info("notification workers stopped")

	rdb.Close()
	db.Close()
	log.Info("connections closed")
}
