package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"homespend/internal/config"
	"homespend/internal/fetch"
	apphttp "homespend/internal/http"
	"homespend/internal/log"
	"homespend/internal/services"
)

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err.Error())
		os.Exit(1)
	}

	loader := services.NewLoader(services.LoaderConfig{
		Source:         fetch.New(cfg.FetchTimeout),
		Location:       cfg.SourceURL,
		CurrencySymbol: cfg.CurrencySymbol,
		CacheTTL:       cfg.CacheTTL,
		Logger:         logger.WithComponent(log.ComponentLoader),
	})

	srv := apphttp.NewServer(":"+cfg.Port, loader, apphttp.Options{
		TopLimit:       cfg.TopLimit,
		CurrencySymbol: cfg.CurrencySymbol,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting homespend server",
		"port", cfg.Port,
		log.FieldSource, cfg.SourceURL,
		"cache_ttl", cfg.CacheTTL.String(),
		log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
