// main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	setupLogging("info")
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// serve runs the HTTP API until ctx is cancelled, then drains in-flight
// requests and releases the database connection.
func serve(ctx context.Context, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	client, err := connectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("disconnect mongo")
		}
	}()
	log.Info().Str("db", cfg.DBName).Msg("database connection successful")

	store := newMongoStore(client.Database(cfg.DBName), cfg)
	if err := checkIndexes(cfg, store.ensureIndexes(ctx)); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	s := &server{
		foods:  store,
		orders: store,
		blogs:  store,
		auth:   NewAuthenticator(cfg.TokenSecret, cfg.TokenTTL),
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(s, cfg.origins()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Chef's Domain server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// checkIndexes decides what a failed index setup means for serve. Existing
// duplicate orders block the unique index; without it racing first orders for
// the same food and customer can both insert, so REQUIRE_INDEXES makes that
// fatal.
func checkIndexes(cfg Config, err error) error {
	if err == nil {
		return nil
	}
	if cfg.RequireIndexes {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	log.Error().Err(err).Str("index", orderPairIndex).
		Msg("could not ensure indexes; concurrent first orders may duplicate")
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
