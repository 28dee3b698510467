package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Eik-Lab/studieveileder/internal/advisor"
	"github.com/Eik-Lab/studieveileder/internal/catalog"
	"github.com/Eik-Lab/studieveileder/internal/config"
	"github.com/Eik-Lab/studieveileder/internal/dbh"
	"github.com/Eik-Lab/studieveileder/internal/gradestats"
	"github.com/Eik-Lab/studieveileder/internal/logging"
	"github.com/Eik-Lab/studieveileder/internal/postgres"
	"github.com/Eik-Lab/studieveileder/internal/server"
)

func init() {
	if _, err := os.Stat("/.dockerenv"); os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			log.Printf("[studieveileder-api] note: could not load .env file (%v); continuing with system environment", err)
		}
	} else {
		log.Println("[studieveileder-api] running in Docker container, skipping .env file loading")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[studieveileder-api] %v", err)
	}

	logger := logging.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	source, err := gradestats.NewSource(cfg.Grades.Source, store, dbh.NewClient(cfg.DBH, logger))
	if err != nil {
		return err
	}
	resolver := gradestats.NewResolver(source, gradestats.Options{
		Timeout:           cfg.Grades.Timeout,
		OnUpstreamFailure: gradestats.FailurePolicy(cfg.Grades.OnUpstreamFailure),
		SyntheticMin:      cfg.Grades.SyntheticMin,
		SyntheticMax:      cfg.Grades.SyntheticMax,
	}, logger)

	logger.Info("grade resolver ready",
		slog.String("source", cfg.Grades.Source),
		slog.String("on_upstream_failure", string(resolver.Policy())),
		slog.Duration("timeout", cfg.Grades.Timeout),
	)

	courses := catalog.NewService(store, cfg.Catalog.CacheTTL, logger)
	go reloadOnHangup(ctx, courses, logger)

	apiServer := server.NewServer(cfg, server.Deps{
		Grades:  resolver,
		Catalog: courses,
		Advisor: advisor.New(cfg.Advisor, logger),
		DB:      store,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", apiServer.Addr))
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully")

	// Give in-flight requests the configured budget to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("graceful shutdown complete")
	return nil
}

// reloadOnHangup drops the catalog cache on SIGHUP, e.g. after
// portalctl import-grades has written new data.
func reloadOnHangup(ctx context.Context, courses *catalog.Service, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			courses.Invalidate()
			logger.Info("catalog cache invalidated")
		}
	}
}
