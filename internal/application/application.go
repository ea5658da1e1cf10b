package application

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/layered-configs/internal/api"
	"github.com/eugenenazirov/layered-configs/internal/config"
	"github.com/eugenenazirov/layered-configs/internal/defaults"
	"github.com/eugenenazirov/layered-configs/internal/metrics"
	"github.com/eugenenazirov/layered-configs/internal/properties"
	"github.com/eugenenazirov/layered-configs/internal/storage"
)

const metricsNamespace = "layered_configs"

// App encapsulates the application dependencies and HTTP server.
type App struct {
	resolver *properties.Resolver
	closer   io.Closer
	metrics  *metrics.Collector
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	resolver, closer, err := BuildResolver(cfg, logger)
	if err != nil {
		return nil, err
	}

	var collector *metrics.Collector
	if cfg.EnableMetrics {
		collector = metrics.NewCollector(metricsNamespace)
	}

	handler := api.NewHandler(resolver, api.WithMetrics(collector))
	routerOpts := []api.RouterOption{
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	if collector != nil {
		routerOpts = append(routerOpts, api.WithMetricsCollector(collector))
	}
	router := api.NewRouter(handler, logger, routerOpts...)

	return &App{
		resolver: resolver,
		closer:   closer,
		metrics:  collector,
		handler:  handler,
		router:   router,
		logger:   logger,
		server:   NewServer(cfg, router),
	}, nil
}

// BuildResolver loads property defaults and opens the configured store.
// Defaults that fail to load are logged and replaced by an empty mapping so
// the service still starts. The returned closer releases the store.
func BuildResolver(cfg config.Config, logger *zap.Logger) (*properties.Resolver, io.Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loader := defaults.Loader{Logger: logger}
	values, err := loader.Load(cfg.DefaultsFiles...)
	if err != nil {
		logger.Warn("failed to load property defaults, continuing without them",
			zap.Strings("files", cfg.DefaultsFiles),
			zap.Error(err),
		)
		values = properties.Values{}
	}
	for key, value := range defaults.FromEnviron(cfg.DefaultsEnvPrefix, os.Environ()) {
		values[key] = value
	}

	store, closer, err := storage.Open(cfg.StoreOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	if store == nil {
		logger.Info("no property store configured, serving defaults read-only")
	}

	logger.Info("property resolver ready",
		zap.Int("defaults", len(values)),
		zap.String("store", cfg.StoreBackend),
	)
	return properties.New(values, store), closer, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Resolver returns the property resolver backing the API.
func (a *App) Resolver() *properties.Resolver {
	return a.resolver
}

// Close releases the property store.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	if err := a.closer.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
