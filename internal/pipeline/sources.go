package pipeline

import (
	"context"

	"github.com/firewatch-nz/fire-data-feed/internal/domain"
)

// Source fetches one upstream endpoint and parses its payload into canonical
// records. Implementations must not retry; per-source failures are handled by
// the pipeline.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.FireDetection, error)
}

// ProviderClient is the slice of the upstream client the sources consume.
type ProviderClient interface {
	AreaCSV(ctx context.Context, source, area string, days int) (string, error)
	QueryCSV(ctx context.Context, area string) (string, error)
	ArchivedKML(ctx context.Context, name string) (string, error)
}

// AreaCSVSource ingests one per-satellite tabular endpoint.
type AreaCSVSource struct {
	Client ProviderClient
	Source string // provider product name, e.g. VIIRS_SNPP_NRT
	Area   string
	Days   int
}

func (s *AreaCSVSource) Name() string { return s.Source }

func (s *AreaCSVSource) Fetch(ctx context.Context) ([]domain.FireDetection, error) {
	payload, err := s.Client.AreaCSV(ctx, s.Source, s.Area, s.Days)
	if err != nil {
		return nil, err
	}
	return domain.ParseCSVDetections(payload, s.Source), nil
}

// QueryCSVSource ingests the query-service tabular variant. Its rows carry
// their own satellite column; the source name is only the fallback label.
type QueryCSVSource struct {
	Client ProviderClient
	Area   string
}

func (s *QueryCSVSource) Name() string { return "query" }

func (s *QueryCSVSource) Fetch(ctx context.Context) ([]domain.FireDetection, error) {
	payload, err := s.Client.QueryCSV(ctx, s.Area)
	if err != nil {
		return nil, err
	}
	return domain.ParseCSVDetections(payload, s.Name()), nil
}

// ArchivedKMLSource ingests the compressed markup endpoint.
type ArchivedKMLSource struct {
	Client ProviderClient
	Path   string // archive path under the provider base URL
	Label  string // satellite fallback when sensor text is ambiguous
	Box    domain.BoundingBox
}

func (s *ArchivedKMLSource) Name() string { return "archive" }

func (s *ArchivedKMLSource) Fetch(ctx context.Context) ([]domain.FireDetection, error) {
	doc, err := s.Client.ArchivedKML(ctx, s.Path)
	if err != nil {
		return nil, err
	}
	return domain.ParseKMLDetections(doc, s.Label, s.Box)
}
