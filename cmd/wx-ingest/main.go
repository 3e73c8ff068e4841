// Package main provides the wx-ingest daemon.
//
// wx-ingest subscribes to the raw report feed over NATS, decodes each
// METAR/TAF, archives the result in PostgreSQL, flattens surface
// observations into ClickHouse, maintains the per-station state
// database, and republishes decoded reports to Kafka. A small HTTP
// listener exposes /healthz and Prometheus /metrics.
//
// Usage:
//
//	wx-ingest -config ingest.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wx_decoder/internal/ingest"
	"wx_decoder/internal/observability"
	"wx_decoder/internal/publish"
	"wx_decoder/internal/state"
	"wx_decoder/internal/storage"
)

func main() {
	// Best-effort .env loading for local development.
	_ = godotenv.Load()

	configPath := flag.String("config", "ingest.yaml", "YAML configuration file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := ingest.LoadConfig(*configPath)
	if err != nil {
		logger.Error("config load failed", "error", err, "path", *configPath)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg ingest.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	// Databases.
	db, err := storage.Open(ctx, cfg.StorageConfig())
	if err != nil {
		return fmt.Errorf("open databases: %w", err)
	}
	defer db.Close()
	if err := db.CreateSchemas(ctx); err != nil {
		return fmt.Errorf("create schemas: %w", err)
	}
	logger.Info("databases ready",
		"postgres", cfg.Postgres.Host, "clickhouse", cfg.ClickHouse.Host)

	// Station state tracker.
	tracker, err := state.NewTracker(cfg.StateDB)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer tracker.Close()
	tracker.OnStationNew(func(l *state.Latest) {
		logger.Info("new station", "station", l.Station, "kind", l.Kind)
	})

	// Kafka sink.
	writer := publish.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	defer writer.Close()

	// NATS feed.
	conn, err := nats.Connect(cfg.NATS.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	defer conn.Close()
	logger.Info("connected to feed", "url", cfg.NATS.URL)

	// Health and metrics listener.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	srv := &http.Server{Addr: cfg.Listen, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http listener failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	pipeline := ingest.New(db.PG, db.CH, tracker, writer, metrics, logger)

	logger.Info("ingest started", "subjects", cfg.NATS.Subjects, "topic", cfg.Kafka.Topic)
	err = pipeline.Run(ctx, conn, cfg.NATS)
	logger.Info("ingest stopped")
	return err
}
