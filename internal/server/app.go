// Package server wires the subscription server together: configuration,
// PostgreSQL with migrations, the subscription service, the gRPC endpoint
// and the Prometheus endpoint, with graceful shutdown on SIGINT, SIGTERM
// and SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/airvent/subscription/internal/clock"
	"github.com/airvent/subscription/internal/identity"
	"github.com/airvent/subscription/internal/logging"
	"github.com/airvent/subscription/internal/server/config"
	"github.com/airvent/subscription/internal/server/metrics"
	"github.com/airvent/subscription/internal/server/repositories/repomanager"
	"github.com/airvent/subscription/internal/server/services"

	gs "github.com/airvent/subscription/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	subscriptions *services.SubscriptionService
	metrics       *metrics.Metrics
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	clk := clock.Real()
	verifier := identity.NewVerifier(clk, c.ProofValidityDuration, identity.NewReplayGuard())
	ss := services.NewSubscriptionService(db, rm, verifier, clk, logger)

	var m *metrics.Metrics
	if c.MetricsEndpointAddr != "" {
		m = metrics.New()
	}

	return &App{config: c, logger: logger, db: db, subscriptions: ss, metrics: m}, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.subscriptions, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {

	if err := app.metrics.Serve(ctx, app.config.MetricsEndpointAddr, app.logger); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a listener fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.metrics != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
