package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sales_reports/api"
	"sales_reports/internal/config"
	"sales_reports/internal/metrics"
	"sales_reports/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load("config.env")
	if err != nil {
		panic(fmt.Errorf("error loading configuration: %v", err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(fmt.Errorf("error building logger: %v", err))
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.Deps{
		Config:  cfg,
		Service: sales.NewService(storage, logger),
		Logger:  logger,
		Metrics: metrics.New(),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("app", cfg.App.Name),
			zap.String("port", cfg.App.Port),
			zap.String("base_path", cfg.App.BasePath),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("error trying to start server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}

// openStorage opens the configured backend and returns a func that releases it.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (sales.Storage, func(), error) {
	if cfg.Store.Driver == config.DriverMemory {
		logger.Warn("using in-memory sales storage")
		return sales.NewLocalStorage(), func() {}, nil
	}

	client, err := sales.NewMongoConnection(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to MongoDB",
		zap.String("database", cfg.Mongo.Database),
		zap.String("collection", cfg.Mongo.Collection),
	)

	storage := sales.NewMongoStorage(client, cfg.Mongo.Database, cfg.Mongo.Collection, cfg.Mongo.QueryTimeout)
	return storage, func() {
		if err := storage.Close(); err != nil {
			logger.Warn("failed to disconnect from MongoDB", zap.Error(err))
		}
	}, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
