package feed

import (
	"context"
	"log/slog"

	"github.com/firewatch-nz/fire-data-feed/internal/domain"
)

// LogPublisher is the default sink when no downstream feed is configured.
// Useful for local runs and smoke-testing a new deployment's thresholds.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a sink that logs instead of submitting.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, fc domain.FeatureCollection) error {
	p.logger.Info("feature collection ready (log sink, not submitted)", "features", len(fc.Features))
	for _, feat := range fc.Features {
		p.logger.Debug("feature",
			"id", feat.Properties.ID,
			"satellite", feat.Properties.Detection.Satellite,
			"confidence", feat.Properties.Detection.Confidence,
			"frp", feat.Properties.Detection.FRP,
			"recency", feat.Properties.Detection.Recency,
		)
	}
	return nil
}
