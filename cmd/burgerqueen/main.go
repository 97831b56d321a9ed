// Package main запускает HTTP-сервер сервиса бургер-квин.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/config"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/events"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/handler"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/middleware"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/repository"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/service"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/token"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer repo.Close()

	producer := events.NewProducer(cfg.KafkaBrokers, logger)
	defer producer.Close()

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	svc := service.NewService(repo, issuer, producer)

	if cfg.AdminEmail != "" {
		if err := svc.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
			sugar.Fatalw("admin bootstrap error", "error", err.Error())
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(issuer)

	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry)

	h := handler.NewHandler(svc, logger, authMiddleware, metrics, registry)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting burger queen server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
