package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/currency"

	"github.com/abdulrehan17773/am-backend/internal/httpapi"
	"github.com/abdulrehan17773/am-backend/internal/repository"
	"github.com/abdulrehan17773/am-backend/internal/repository/migrations"
	"github.com/abdulrehan17773/am-backend/internal/service"
	"github.com/abdulrehan17773/am-backend/internal/token"
	"github.com/abdulrehan17773/am-backend/pkg/config"
	"github.com/abdulrehan17773/am-backend/pkg/logger"
	"github.com/abdulrehan17773/am-backend/pkg/metrics"
	"github.com/abdulrehan17773/am-backend/pkg/shutdown"
)

const serviceName = "store"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log := logger.New(logger.Options{
		Service: serviceName,
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	storeCurrency, err := currency.ParseISO(cfg.Currency)
	if err != nil {
		return fmt.Errorf("currency.ParseISO[%s]: %w", cfg.Currency, err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool.Ping: %w", err)
	}

	if err := migrations.Apply(ctx, pool); err != nil {
		return fmt.Errorf("migrations.Apply: %w", err)
	}
	log.Info("database ready")

	orderRepo := repository.NewOrder(pool)
	cartRepo := repository.NewCart(pool)
	productRepo := repository.NewProduct(pool)
	categoryRepo := repository.NewCategory(pool)
	userRepo := repository.NewUser(pool)
	addressRepo := repository.NewAddress(pool)

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	api := httpapi.New(httpapi.Deps{
		Auth:       service.NewAuthService(userRepo, tokens, storeCurrency),
		Users:      service.NewUserService(userRepo, storeCurrency),
		Catalog:    service.NewCatalogService(productRepo, categoryRepo, storeCurrency),
		Categories: service.NewCategoryService(categoryRepo),
		Cart:       service.NewCartService(cartRepo, productRepo),
		Addresses:  service.NewAddressService(addressRepo),
		Orders:     service.NewOrderService(orderRepo, cartRepo, productRepo, userRepo, addressRepo),
		Logger:     log,
		Metrics:    metrics.NewServerMetrics(serviceName),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}

	return nil
}
