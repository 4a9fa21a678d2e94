package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aromakopi/pos-backend/internal/broker"
	"github.com/aromakopi/pos-backend/internal/config"
	"github.com/aromakopi/pos-backend/internal/database"
	"github.com/aromakopi/pos-backend/internal/mailer"
	"github.com/aromakopi/pos-backend/internal/router"
	"github.com/aromakopi/pos-backend/internal/storage"
	"github.com/aromakopi/pos-backend/internal/worker"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(logger.Options{
		Development: !cfg.IsProduction(),
		Level:       cfg.LogLevel,
		Component:   "api",
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Log.Warn("JWT_SECRET is not set; login and protected routes will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Migration failed", zap.Error(err))
	}

	// Initialize Redis: rate limiter and job queue
	redisClient, err := broker.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Failed to connect redis", zap.Error(err))
	}
	jobs := broker.NewRedisJobBroker(redisClient)
	defer jobs.Close()

	// Initialize workers
	pool := worker.NewPool(jobs, cfg.WorkerCount, broker.QueueEmail)
	pool.Register(worker.JobKasirWelcome, worker.NewEmailWorker(mailer.NewSMTPMailer(cfg)))
	pool.Start(ctx)

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	engine := router.New(router.Deps{
		Config:  cfg,
		DB:      db,
		Redis:   redisClient,
		Jobs:    jobs,
		Storage: store,
	})

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server starting",
			zap.String("addr", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
	}

	pool.Wait()
	logger.Log.Info("Server stopped")
}
