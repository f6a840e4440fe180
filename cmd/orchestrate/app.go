package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zosconnect/orchestrate"
	"github.com/zosconnect/orchestrate/internal/client"
	"github.com/zosconnect/orchestrate/internal/config"
	"github.com/zosconnect/orchestrate/internal/metrics"
	"github.com/zosconnect/orchestrate/internal/orchestrator"
	"github.com/zosconnect/orchestrate/internal/orderlog"
	"github.com/zosconnect/orchestrate/internal/server"
	"github.com/zosconnect/orchestrate/internal/zosstub"
	"github.com/zosconnect/orchestrate/pkg/log"
)

type app struct {
	cfg         *config.Config
	defaultPort int
	variants    []server.Variant
	metrics     *metrics.Metrics
	closeLog    orderlog.Closer
	handler     http.Handler
	httpServer  *http.Server
	quit        chan os.Signal
}

var (
	ErrLoadConfig    = errors.New("failed to load configuration")
	ErrOpenOrderLog  = errors.New("failed to open order log")
	ErrServerStopped = errors.New("HTTP server stopped")
)

// loadConfig layers defaults, the YAML file, environment variables, and
// the --port flag, in that order
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewDefaultConfig()

	path, _ := cmd.Flags().GetString("config")
	if err := cfg.LoadFile(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if cmd.Flags().Changed("port") {
		cfg.APIPort, _ = cmd.Flags().GetInt("port")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	return cfg, nil
}

func newApp(
	cfg *config.Config, defaultPort int, variants []server.Variant,
) *app {
	return &app{
		cfg:         cfg,
		defaultPort: defaultPort,
		variants:    variants,
		quit:        make(chan os.Signal, 1),
	}
}

func (a *app) run(ctx context.Context) error {
	a.setupLogging()

	if err := a.initialize(ctx); err != nil {
		return err
	}
	defer a.close()

	return a.serve()
}

func (a *app) runStub() error {
	a.setupLogging()
	a.handler = zosstub.New().SetupRoutes()
	return a.serve()
}

func (a *app) serve() error {
	errs := a.startServer()

	signal.Notify(a.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(a.quit)

	select {
	case err := <-errs:
		return fmt.Errorf("%w: %w", ErrServerStopped, err)
	case <-a.quit:
	}

	a.shutdown()
	return nil
}

func (a *app) setupLogging() {
	level, ok := log.ParseLevel(a.cfg.LogLevel)

	env := os.Getenv("ENV")
	logger := log.NewWithLevel(orchestrate.Name, env, orchestrate.Version,
		level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	if !ok {
		slog.Warn("Unknown log level, using info",
			slog.String("log_level", a.cfg.LogLevel))
	}

	slog.Info("Configuration loaded",
		slog.String("phonebook_url", a.cfg.Upstreams.PhonebookURL),
		slog.String("postal_url", a.cfg.Upstreams.PostalURL),
		slog.String("catalog_url", a.cfg.Upstreams.CatalogURL),
		slog.String("order_log_sink", a.cfg.OrderLog.Sink),
		slog.Duration("upstream_timeout", a.cfg.Upstreams.Timeout),
		slog.String("api_host", a.cfg.APIHost),
		slog.Int("api_port", a.port()))
}

func (a *app) initialize(ctx context.Context) error {
	a.metrics = metrics.New()
	cl := client.NewHTTPClient(a.cfg.Upstreams.Timeout, a.metrics)

	sink, closeLog, err := orderlog.Open(ctx, a.cfg, cl, a.metrics)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenOrderLog, err)
	}
	a.closeLog = closeLog

	orch := orchestrator.New(a.cfg, orchestrator.Dependencies{
		Client:   cl,
		OrderLog: sink,
		Metrics:  a.metrics,
	})
	srv := server.NewServer(orch, a.metrics, a.port(), a.variants...)
	a.handler = srv.SetupRoutes()
	return nil
}

func (a *app) startServer() <-chan error {
	a.httpServer = &http.Server{
		Addr:    a.cfg.ListenAddr(a.defaultPort),
		Handler: a.handler,
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("Application listening on port",
			slog.Int("port", a.port()),
			slog.String("addr", a.httpServer.Addr))
		err := a.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
			errs <- err
		}
	}()
	return errs
}

func (a *app) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), a.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
		_ = a.httpServer.Close()
	}

	slog.Info("Server exited")
}

func (a *app) close() {
	if a.closeLog == nil {
		return
	}
	if err := a.closeLog(); err != nil {
		slog.Error("Order log close failed", log.Error(err))
	}
}

func (a *app) port() int {
	if a.cfg.APIPort != 0 {
		return a.cfg.APIPort
	}
	return a.defaultPort
}
