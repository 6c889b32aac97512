package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/storelane/sale-engine/internal/adapter/handler"
	"github.com/storelane/sale-engine/internal/adapter/lock"
	"github.com/storelane/sale-engine/internal/adapter/storage"
	"github.com/storelane/sale-engine/internal/config"
	"github.com/storelane/sale-engine/internal/core/service"
	"github.com/storelane/sale-engine/internal/obs"
	"github.com/storelane/sale-engine/internal/port"
)

func main() {
	cfg := config.Load()
	logger := obs.NewLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tracer trace.Tracer
	if cfg.TraceEnabled {
		tp, err := obs.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
		if err != nil {
			logger.Error("failed to initialize tracer", "err", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Error("tracer shutdown failed", "err", err)
			}
		}()
		tracer = otel.Tracer(cfg.ServiceName)
	}

	// Storage backend
	var store port.Store
	switch cfg.StorageBackend {
	case config.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Error("failed to open mysql", "err", err)
			os.Exit(1)
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			logger.Error("failed to ping mysql", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("connected to mysql")
		store = storage.NewMySQLStore(db)
	case config.BackendMemory:
		logger.Warn("using in-memory storage, data will not survive restarts")
		store = storage.NewMemoryStore()
	default:
		logger.Error("unknown storage backend", "backend", cfg.StorageBackend)
		os.Exit(1)
	}

	// Lock backend
	var locker port.Locker
	switch cfg.LockBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 100})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect redis", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		logger.Info("connected to redis")
		locker = lock.NewRedisLocker(rdb)
	case config.BackendMemory:
		locker = lock.NewMemoryLocker()
	default:
		logger.Error("unknown lock backend", "backend", cfg.LockBackend)
		os.Exit(1)
	}

	sales := service.NewSaleService(store, locker, cfg.LockTimeout, logger, tracer)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handler.NewHTTPHandler(sales, store).Register(r)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", "err", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "err", err)
	}
	logger.Info("HTTP server stopped")
}
