package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/firewatch-nz/fire-data-feed/internal/domain"
	"github.com/firewatch-nz/fire-data-feed/internal/observability"
)

// Publisher submits one feature collection per run to the downstream feed.
type Publisher interface {
	Publish(ctx context.Context, fc domain.FeatureCollection) error
}

// Pipeline orchestrates one fetch-parse-dedupe-filter-publish cycle per Run.
// Runs are stateless and idempotent given identical upstream data and a fixed
// clock; nothing survives between invocations.
type Pipeline struct {
	sources   []Source
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	minConfidence int
	minFRP        float64
	local         *time.Location

	ready atomic.Bool
}

// New creates a Pipeline over the configured sources and sink.
func New(sources []Source, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, minConfidence int, minFRP float64, local *time.Location) *Pipeline {
	return &Pipeline{
		sources:       sources,
		publisher:     publisher,
		logger:        logger,
		metrics:       metrics,
		minConfidence: minConfidence,
		minFRP:        minFRP,
		local:         local,
	}
}

// CheckReadiness returns nil once at least one run has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Run executes one complete cycle. Per-source failures contribute zero
// records and never abort the run; the only error surfaced is a failed
// submission to the sink.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := p.logger.With("run_id", uuid.NewString())
	start := time.Now()

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	combined := p.collect(ctx, logger)
	unique := domain.Deduplicate(combined)
	p.metrics.DuplicatesDropped.Add(float64(len(combined) - len(unique)))

	fc := domain.BuildFeatures(unique, p.minConfidence, p.minFRP, p.local, logger)
	p.metrics.RecordsFiltered.Add(float64(len(unique) - len(fc.Features)))
	p.metrics.FeaturesEmitted.Add(float64(len(fc.Features)))

	if err := p.publisher.Publish(ctx, fc); err != nil {
		p.metrics.PublishErrors.Inc()
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("publish feature collection: %w", err)
	}

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastRunUnixTime.SetToCurrentTime()
	p.ready.Store(true)

	logger.Info("run complete",
		"records", len(combined),
		"unique", len(unique),
		"features", len(fc.Features),
		"duration", time.Since(start),
	)
	return nil
}

// collect fetches every source concurrently. Results land in slots indexed
// by source position, so the merged order (and therefore which record wins
// deduplication) matches the configured source order regardless of fetch
// completion order.
func (p *Pipeline) collect(ctx context.Context, logger *slog.Logger) []domain.FireDetection {
	results := make([][]domain.FireDetection, len(p.sources))

	var wg sync.WaitGroup
	for i, src := range p.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()

			records, err := src.Fetch(ctx)
			if err != nil {
				logger.Warn("source fetch failed, continuing with zero records",
					"source", src.Name(), "error", err)
				p.metrics.FetchRequests.WithLabelValues(src.Name(), "error").Inc()
				return
			}
			p.metrics.FetchRequests.WithLabelValues(src.Name(), "success").Inc()
			p.metrics.RecordsParsed.WithLabelValues(src.Name()).Add(float64(len(records)))
			results[i] = records
		}(i, src)
	}
	wg.Wait()

	var combined []domain.FireDetection
	for _, records := range results {
		combined = append(combined, records...)
	}
	return combined
}
