// Package main is the entry point for the user directory API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/onnwee/userdir/internal/api"
	"github.com/onnwee/userdir/internal/audit"
	"github.com/onnwee/userdir/internal/config"
	"github.com/onnwee/userdir/internal/middleware"
	"github.com/onnwee/userdir/internal/store"
	"github.com/onnwee/userdir/internal/tracing"
	"github.com/onnwee/userdir/internal/user"
)

func main() {
	configFile := flag.String("config", "", "path to optional YAML config file")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("User Directory API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	tracerProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  "userdir-api",
		Enabled:      cfg.TracingEnabled,
		Environment:  cfg.Env,
		ExporterType: cfg.TracingExporterType,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplingRate: cfg.TracingSamplingRate,
		InsecureMode: cfg.TracingInsecure,
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// Stores and domain services
	userStore := store.New[*user.User]()
	if cfg.SeedData {
		if err := user.Seed(userStore); err != nil {
			logger.Error("failed to seed users", "error", err)
			os.Exit(1)
		}
		logger.Info("seeded sample users", "count", userStore.Len())
	}
	userService := user.NewService(userStore, logger)
	auditService := audit.NewService()

	// Metrics
	var registry *prometheus.Registry
	var apiMetrics *api.Metrics
	httpMetrics := middleware.NewMetrics()
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		apiMetrics = api.NewMetrics()
		if err := httpMetrics.Register(registry); err != nil {
			logger.Error("failed to register HTTP metrics", "error", err)
			os.Exit(1)
		}
		if err := apiMetrics.Register(registry); err != nil {
			logger.Error("failed to register API metrics", "error", err)
			os.Exit(1)
		}
	}

	// Handlers and routes
	userHandlers := api.NewUserHandlers(userService, auditService, apiMetrics)
	logHandlers := api.NewLogHandlers(auditService)
	healthHandlers := api.NewHealthHandlers(map[string]api.HealthChecker{
		"user_store": api.CheckerFunc(func(ctx context.Context) error {
			userStore.Len()
			return nil
		}),
	})
	mux := api.NewRouter(userHandlers, logHandlers, healthHandlers, registry)

	// Middleware chain: RequestID -> Logging -> Metrics -> mux
	var handler http.Handler = mux
	if cfg.MetricsEnabled {
		handler = middleware.HTTPMetrics(httpMetrics)(handler)
	}
	handler = middleware.RequestID(middleware.Logging(logger)(handler))
	if cfg.TracingEnabled {
		handler = otelhttp.NewHandler(handler, "userdir-api")
	}

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		logger.Error("tracer shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
