package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/layered-configs/internal/application"
	"github.com/eugenenazirov/layered-configs/internal/config"
	"github.com/eugenenazirov/layered-configs/internal/logging"
	"github.com/eugenenazirov/layered-configs/internal/storage"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("layered-configs", "Layered configuration service - resolves properties from a runtime store over environment defaults")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	defaultsFiles := kingpinApp.Flag("defaults", "Comma-separated defaults files (.yaml, .json, .env)").String()
	storeBackend := kingpinApp.Flag("store", "Property store backend").Enum(storage.Backends()...)
	storeFile := kingpinApp.Flag("store-file", "Path of the YAML file used by the file store").String()
	redisAddr := kingpinApp.Flag("redis-addr", "Redis address used by the redis store").String()
	logLevel := kingpinApp.Flag("log-level", "Minimum log level").Default("info").Enum("debug", "info", "warn", "error")
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile:    *configFile,
		Port:          port,
		DefaultsFiles: defaultsFiles,
		StoreBackend:  storeBackend,
		StoreFile:     storeFile,
		RedisAddr:     redisAddr,
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(logging.WithLevel(*logLevel))
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), app, cfg.ShutdownGracePeriod, logger)
}

// shutdown waits for a termination signal, drains the server, then releases
// the property store held by store.
func shutdown(server *http.Server, store io.Closer, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}

	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("failed to release property store", zap.Error(err))
		}
	}
}
