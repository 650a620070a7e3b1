// Package main is the entry point for the gitapp API server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitapp/internal/builder"
	"gitapp/internal/config"
	"gitapp/internal/controller"
	"gitapp/internal/controller/handlers"
	"gitapp/internal/github"
	"gitapp/internal/logger"
	"gitapp/internal/observability"
	"gitapp/internal/store/sqlite"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogger := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the store; migrations run automatically on startup.
	st, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	// Tracing is optional; an empty endpoint disables it.
	if cfg.OTELEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, "gitapp-server", cfg.OTELEndpoint)
		if err != nil {
			log.Fatalf("Failed to init tracing: %v", err)
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Printf("Failed to shutdown tracer: %v", err)
			}
		}()
	}

	// Metrics
	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			log.Printf("Failed to shutdown metrics: %v", err)
		}
	}()

	// Observable gauge that queries the store only when scraped.
	meter := otel.Meter("gitapp-server")
	_, err = meter.Int64ObservableGauge("gitapp.builds.active",
		metric.WithDescription("Number of builds currently queued or building"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			count, err := st.CountActive(ctx)
			if err != nil {
				log.Printf("Failed to count active builds: %v", err)
				return nil // don't fail the scrape on a store error
			}
			obs.Observe(count)
			return nil
		}),
	)
	if err != nil {
		log.Printf("Failed to register active builds metric: %v", err)
	}

	ghClient := github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken)
	easClient := builder.NewEASClient(cfg.EASAPIURL, cfg.ExpoToken, cfg.ExpoAccountName, cfg.ExpoAppSlug)
	runner := builder.New(st, easClient, slogger, cfg.SimulatedBuildDelay)

	pool := builder.NewPool(ctx, cfg.WorkerConcurrency, cfg.TriggerQueueSize)

	h := handlers.New(st, ghClient, runner, pool, slogger)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := controller.New(addr, h, controller.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		MetricsHandler: metricsHandler,
	})

	go func() {
		log.Printf("gitapp server starting on %s", addr)
		if err := srv.Run(ctx); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Drain queued triggers while their context is still live; the deferred
	// cancel tears it down afterwards.
	pool.Stop()

	log.Println("Server exited properly")
}
