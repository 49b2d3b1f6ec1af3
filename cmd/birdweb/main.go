package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/bird-observations-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/bird-observations-service/internal/adapter/kafka"
	"github.com/couchcryptid/bird-observations-service/internal/adapter/llm"
	"github.com/couchcryptid/bird-observations-service/internal/adapter/markdown"
	"github.com/couchcryptid/bird-observations-service/internal/adapter/source"
	"github.com/couchcryptid/bird-observations-service/internal/catalog"
	"github.com/couchcryptid/bird-observations-service/internal/config"
	"github.com/couchcryptid/bird-observations-service/internal/observability"
	"github.com/couchcryptid/bird-observations-service/internal/query"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher, err := source.New(ctx, cfg.CSVSource, source.Options{
		Timeout:    cfg.CSVFetchTimeout,
		S3Endpoint: cfg.S3Endpoint,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to create csv source", "source", cfg.CSVSource, "error", err)
		os.Exit(1)
	}

	cat := catalog.New(fetcher, logger, metrics, clock)

	completer := llm.NewClient(llm.Options{
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
	}, logger)

	// Query auditing is feature-flagged via AUDIT_KAFKA_BROKERS.
	var audit query.AuditSink
	var writer *kafkaadapter.Writer
	if cfg.AuditEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		audit = writer
		logger.Info("query audit enabled", "topic", cfg.AuditTopic, "brokers", cfg.AuditBrokers)
	} else {
		logger.Info("query audit disabled")
	}

	dispatcher := query.New(cat, completer, audit, query.Config{
		Model:         cfg.LLMModel,
		DefaultAPIKey: cfg.LLMAPIKey,
		MaxInFlight:   cfg.QueryMaxInFlight,
	}, logger, metrics, clock)

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:         cfg.HTTPAddr,
		WriteTimeout: cfg.LLMTimeout + cfg.CSVFetchTimeout,
	}, cat, dispatcher, markdown.NewRenderer(), logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Load the CSV once; /readyz reports 503 until it succeeds.
	go func() {
		if err := cat.Load(ctx); err != nil {
			logger.Error("catalog load error", "source", cfg.CSVSource, "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
