package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feblcsack/partyRock/internal/adapters/http/api"
	"github.com/feblcsack/partyRock/internal/adapters/http/site"
	"github.com/feblcsack/partyRock/internal/adapters/http/swagger"
	"github.com/feblcsack/partyRock/internal/adapters/repository"
	service "github.com/feblcsack/partyRock/internal/app"
	"github.com/feblcsack/partyRock/internal/config"
	"github.com/feblcsack/partyRock/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 15 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, loggerInstance),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("store", cfg.Store),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService opens the configured store and starts the leaderboard service on it.
func newService(ctx context.Context, cfg *config.Config, l logger.Logger) (*service.Service, error) {
	store, err := repository.OpenStore(ctx, cfg.Store, repository.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	svc := service.New(
		service.WithStore(store),
		service.WithLogger(l),
		service.WithStrictValidation(cfg.StrictValidation),
		service.WithTopN(cfg.TopN),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// newHandler registers every route on a fresh mux and applies CORS.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service, l logger.Logger) http.Handler {
	mux := http.NewServeMux()

	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc,
		api.WithMaxLimit(cfg.MaxLeaderboardLimit),
		api.WithLogger(l.Named("api")),
	)
	apiServer.Register(ctx, mux)

	return api.WithCORS(mux, cfg.CORSOrigins)
}

// startServiceMetricsUpdater refreshes the project gauges while the API is idle.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats takes a snapshot, which updates the gauges.
			_ = svc.GetStats()
		}
	}
}
