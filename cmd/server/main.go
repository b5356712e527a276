package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"coinpulse/internal/auth"
	"coinpulse/internal/config"
	"coinpulse/internal/db"
	"coinpulse/internal/handlers"
	"coinpulse/internal/logging"
	"coinpulse/internal/providers"
	"coinpulse/internal/router"
	"coinpulse/internal/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if cfg.UsingDevSecret() {
		logging.Warn().Msg("JWT_SECRET not set, using the development secret")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.Database.URL)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	accounts := services.NewAccountService(conn)
	prefs := services.NewPreferenceStore(conn)
	ledger := services.NewVoteLedger(conn)

	ps, err := providers.FromConfig(ctx, cfg.Providers)
	if err != nil {
		return fmt.Errorf("providers: %w", err)
	}
	aggregator := services.NewAggregator(prefs, cfg.Providers.Timeout, ps...)

	engine := router.New(router.Deps{
		Tokens:      tokens,
		Issuer:      tokens,
		Users:       accounts,
		Accounts:    accounts,
		Preferences: prefs,
		Ledger:      ledger,
		Composer:    aggregator,
		Cookies: handlers.CookieConfig{
			Name:      cfg.Auth.CookieName,
			MaxAge:    cfg.Auth.TokenTTL,
			Secure:    cfg.IsProduction(),
			CrossSite: cfg.Auth.CrossSiteCookies,
		},
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Int("port", cfg.Server.Port).Str("environment", cfg.Server.Environment).Msg("coinpulse server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
