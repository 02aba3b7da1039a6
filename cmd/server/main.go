package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/CineFinder/internal/api"
	"github.com/Belphemur/CineFinder/internal/client"
	"github.com/Belphemur/CineFinder/internal/config"
	"github.com/Belphemur/CineFinder/internal/metrics"
	"github.com/Belphemur/CineFinder/internal/services"
	"github.com/Belphemur/CineFinder/internal/store"
	"github.com/Belphemur/CineFinder/internal/supervisor"
)

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("proxy_connection_string", cfg.ProxyConnectionString).
		Str("tmdb_base_url", cfg.TMDB.BaseURL).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Str("storage", cfg.Storage.Provider).
		Str("cache", cfg.Cache.Provider).
		Str("auth_mode", cfg.Auth.Mode).
		Msg("Application started with configuration")

	if cfg.TMDB.APIKey == "" {
		logger.Warn().Msg("No TMDB API key configured (tmdb.api_key or TMDB_API_KEY); every movie request will fail")
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			logger.Error().Err(err).Msg("Failed to initialize Sentry, continuing without error reporting")
			cfg.Sentry.DSN = ""
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	kv, err := store.New(cfg.Storage.Provider, cfg.Storage.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.Storage.Provider).Str("path", cfg.Storage.Path).Msg("Failed to open store")
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close store")
		}
	}()

	tmdb := client.NewClient(cfg)
	defer func() {
		if err := tmdb.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close client")
		}
	}()

	auth, err := services.NewAuthService(kv, services.AuthConfig{
		Mode:       cfg.Auth.Mode,
		JWTSecret:  cfg.Auth.JWTSecret,
		SessionTTL: config.ParseDuration("auth.session_ttl", cfg.Auth.SessionTTL, 24*time.Hour),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to configure authentication")
	}
	preferences := services.NewPreferencesService(kv)
	browse := services.NewBrowseService(tmdb, preferences, cfg.Browse.StateSize,
		config.ParseDuration("browse.state_ttl", cfg.Browse.StateTTL, 30*time.Minute))

	handler := api.NewHandler(tmdb, auth, services.NewFavoritesService(kv), preferences, browse)
	shutdownTimeout := config.ParseDuration("server.shutdown_timeout", cfg.Server.ShutdownTimeout, 10*time.Second)

	tree := supervisor.NewTree(config.NewSlogLogger(), supervisor.TreeConfig{ShutdownTimeout: shutdownTimeout})
	tree.AddAPIService(supervisor.NewHTTPServerService("api", &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           api.NewRouter(handler, api.RouterOptionsFromConfig(cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}, shutdownTimeout))

	if cfg.Metrics.Enabled {
		tree.AddAPIService(supervisor.NewHTTPServerService("metrics", metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port), shutdownTimeout))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("Supervisor stopped unexpectedly")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logger.Warn().Int("count", len(report)).Msg("Some services did not stop in time")
	}
	logger.Info().Msg("Server stopped gracefully")
}
