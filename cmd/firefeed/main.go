package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	feedadapter "github.com/firewatch-nz/fire-data-feed/internal/adapter/feed"
	"github.com/firewatch-nz/fire-data-feed/internal/adapter/firms"
	httpadapter "github.com/firewatch-nz/fire-data-feed/internal/adapter/http"
	kafkaadapter "github.com/firewatch-nz/fire-data-feed/internal/adapter/kafka"
	"github.com/firewatch-nz/fire-data-feed/internal/config"
	"github.com/firewatch-nz/fire-data-feed/internal/observability"
	"github.com/firewatch-nz/fire-data-feed/internal/pipeline"
	"github.com/firewatch-nz/fire-data-feed/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "reason", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	local, err := time.LoadLocation(cfg.LocalTimezone)
	if err != nil {
		logger.Error("invalid local timezone", "error", err)
		os.Exit(1)
	}

	client := firms.NewClient(cfg.MapKey, cfg.BaseURL, cfg.FetchTimeout, logger)
	sources := buildSources(cfg, client)

	var (
		publisher pipeline.Publisher
		closers   []func() error
	)
	switch cfg.FeedSink {
	case config.SinkHTTP:
		publisher = feedadapter.NewClient(cfg.FeedURL, cfg.FeedAPIKey, cfg.FetchTimeout, logger)
		logger.Info("http feed sink configured", "url", cfg.FeedURL)
	case config.SinkKafka:
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		closers = append(closers, writer.Close)
		publisher = writer
		logger.Info("kafka feed sink configured", "topic", cfg.KafkaTopic)
	default:
		publisher = feedadapter.NewLogPublisher(logger)
		logger.Info("log feed sink configured")
	}

	p := pipeline.New(sources, publisher, logger, metrics, cfg.MinConfidence, cfg.MinFRP, local)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.ReadyTimeout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// First run happens immediately; the scheduler takes over from there.
	go func() {
		runCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
		if err := p.Run(runCtx); err != nil {
			logger.Error("initial run failed", "error", err)
		}
	}()

	sched := scheduler.New(p, cfg.FetchInterval, cfg.FetchTimeout, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, close := range closers {
		if err := close(); err != nil {
			logger.Error("sink close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// buildSources assembles the run's source list in merge order: per-satellite
// area CSV endpoints first, then the query service, then the archived markup.
func buildSources(cfg *config.Config, client *firms.Client) []pipeline.Source {
	area := cfg.BoundingBox.AreaString()

	var sources []pipeline.Source
	for _, name := range cfg.Sources {
		sources = append(sources, &pipeline.AreaCSVSource{
			Client: client,
			Source: name,
			Area:   area,
			Days:   cfg.DayRange,
		})
	}
	if cfg.Query {
		sources = append(sources, &pipeline.QueryCSVSource{Client: client, Area: area})
	}
	if cfg.KMZName != "" {
		sources = append(sources, &pipeline.ArchivedKMLSource{
			Client: client,
			Path:   cfg.KMZName,
			Label:  firstOrEmpty(cfg.Sources),
			Box:    cfg.BoundingBox,
		})
	}
	return sources
}

func firstOrEmpty(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
