package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/SendyUpload/internal/config"
	"github.com/JonMunkholm/SendyUpload/internal/logging"
	"github.com/JonMunkholm/SendyUpload/internal/sendy"
	"github.com/JonMunkholm/SendyUpload/internal/upload"
	"github.com/JonMunkholm/SendyUpload/internal/web"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file; environment variables override it")
	flag.Parse()

	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(logging.Options{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		RedactEmails: cfg.Logging.RedactEmails,
	})

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"sendy_url", cfg.Sendy.URL,
		"default_list", cfg.Sendy.ListID != "",
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	client := sendy.New(sendy.Config{
		APIKey:       cfg.Sendy.APIKey,
		SubscribeURL: cfg.Sendy.SubscribeURL(),
		BrandsURL:    cfg.Sendy.BrandsURL(),
		ListsURL:     cfg.Sendy.ListsURL(),
		ListID:       cfg.Sendy.ListID,
		Timeout:      cfg.Sendy.Timeout,
	})
	limiter := upload.NewLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	server := web.NewServer(cfg, client, limiter)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Shutdown stops new requests and waits for handlers, including uploads.
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		if active := limiter.Active(); active > 0 {
			slog.Info("waiting for uploads to complete", "active", active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			} else {
				slog.Info("all uploads completed")
			}
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
