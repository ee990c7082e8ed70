package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"escrow-broker.backend/internal/config"
	"escrow-broker.backend/internal/infrastructure/datasources/postgres"
	"escrow-broker.backend/internal/interfaces/http/response"
	"escrow-broker.backend/pkg/logger"
	"escrow-broker.backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = redis.Init
	openSQL         = postgres.NewConnection
	openGorm        = postgres.NewGormDB
	migrateDB       = postgres.Migrate
	newSessionStore = redis.NewSessionStore
	runServer       = func(srv *http.Server) error { return srv.ListenAndServe() }
	notifyShutdown  = func() <-chan os.Signal {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		return quit
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	response.ExposeErrorDetails(cfg.Server.IsDevelopment())
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Refresh-token sessions live in Redis, so the server cannot run without it.
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	sqlDB, err := openSQL(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer sqlDB.Close()

	db, err := openGorm(sqlDB, cfg.Server.Env)
	if err != nil {
		return err
	}
	if cfg.Database.AutoMigrate {
		if err := migrateDB(db); err != nil {
			return err
		}
		logger.Info(ctx, "Database schema migrated")
	}

	sessions, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	app := buildApp(cfg, db, sqlDB, sessions)
	defer app.closeQueue()

	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()
	go app.expiryJob.Start(jobCtx)
	if app.emailWorker != nil {
		go app.emailWorker.Start(jobCtx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Escrow broker backend starting", zap.String("port", cfg.Server.Port))
		serverErr <- runServer(srv)
	}()

	select {
	case err := <-serverErr:
		app.stopJobs()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case sig := <-notifyShutdown():
		logger.Info(ctx, "Shutting down server", zap.String("signal", sig.String()))
	}

	app.stopJobs()
	cancelJobs()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info(ctx, "Server stopped")
	return nil
}

// gormPinger reports database liveness for the health route.
func gormPinger(db *gorm.DB, sqlDB *sql.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if sqlDB != nil {
			return sqlDB.PingContext(ctx)
		}
		std, err := db.DB()
		if err != nil {
			return err
		}
		return std.PingContext(ctx)
	}
}
