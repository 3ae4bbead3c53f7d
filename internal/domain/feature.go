package domain

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Fixed tags carried by every emitted feature.
const (
	featureCategory = "fire"
	featureIcon     = "fire"
)

// PointGeometry is a GeoJSON point in [longitude, latitude] order.
type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// DetectionMetadata carries the normalized record fields on the feature.
type DetectionMetadata struct {
	Satellite   string  `json:"satellite"`
	Confidence  int     `json:"confidence"`
	FRP         float64 `json:"frp"`
	Brightness  float64 `json:"brightness"`
	Brightness2 float64 `json:"brightness2"`
	Scan        float64 `json:"scan"`
	Track       float64 `json:"track"`
	DayNight    string  `json:"dayNight"`
	Version     string  `json:"version,omitempty"`
	AcqDate     string  `json:"acqDate"`
	AcqTime     string  `json:"acqTime"`
	Recency     string  `json:"recency"`
}

// FeatureProperties is the downstream feed's per-feature payload. Start and
// End are both the canonical acquisition timestamp; detections are instants,
// not intervals.
type FeatureProperties struct {
	ID          string            `json:"id"`
	Category    string            `json:"category"`
	Icon        string            `json:"icon"`
	Start       string            `json:"start"`
	End         string            `json:"end"`
	Description string            `json:"description"`
	Archived    bool              `json:"archived"`
	Detection   DetectionMetadata `json:"detection"`
}

// Feature is one geospatial point feature in the output collection.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   PointGeometry     `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureCollection is the submission payload handed to the feed sink.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// BuildFeatures applies the confidence and FRP floors (both inclusive) and
// assembles one point feature per surviving record. A record that fails
// feature construction is logged and skipped without affecting its siblings.
func BuildFeatures(records []FireDetection, minConfidence int, minFRP float64, local *time.Location, logger *slog.Logger) FeatureCollection {
	features := make([]Feature, 0, len(records))
	for _, rec := range records {
		if rec.Confidence < minConfidence || rec.FRP < minFRP {
			continue
		}
		feat, err := buildFeature(rec, local)
		if err != nil {
			logger.Warn("feature build failed, skipping detection",
				"error", err,
				"fingerprint", rec.Fingerprint(),
				"satellite", rec.Satellite,
			)
			continue
		}
		features = append(features, feat)
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

func buildFeature(rec FireDetection, local *time.Location) (Feature, error) {
	acquired, err := rec.AcquiredAt()
	if err != nil {
		return Feature{}, err
	}

	recency := RecencyBucket(clock.Now().UTC().Sub(acquired))
	timestamp := acquired.Format(time.RFC3339)

	return Feature{
		Type: "Feature",
		Geometry: PointGeometry{
			Type:        "Point",
			Coordinates: [2]float64{rec.Longitude, rec.Latitude},
		},
		Properties: FeatureProperties{
			ID:          DetectionID(rec),
			Category:    featureCategory,
			Icon:        featureIcon,
			Start:       timestamp,
			End:         timestamp,
			Description: remarks(rec, acquired, recency, local),
			Archived:    false,
			Detection: DetectionMetadata{
				Satellite:   rec.Satellite,
				Confidence:  rec.Confidence,
				FRP:         rec.FRP,
				Brightness:  rec.Brightness,
				Brightness2: rec.Brightness2,
				Scan:        rec.Scan,
				Track:       rec.Track,
				DayNight:    rec.DayNight,
				Version:     rec.Version,
				AcqDate:     rec.AcqDate,
				AcqTime:     rec.AcqTime,
				Recency:     recency,
			},
		},
	}, nil
}

// DetectionID concatenates satellite label, acquisition date/time, and
// coordinates. Unique enough given upstream granularity; collisions mean the
// deduplicator already collapsed the records.
func DetectionID(rec FireDetection) string {
	sat := strings.ReplaceAll(rec.Satellite, " ", "-")
	return fmt.Sprintf("%s-%s-%s-%v-%v", sat, rec.AcqDate, rec.AcqTime, rec.Latitude, rec.Longitude)
}

// RecencyBucket maps a detection age onto the feed's recency labels using
// half-open hour intervals. There is no bucket beyond "12-24"; older
// detections land in the last bucket.
func RecencyBucket(age time.Duration) string {
	hours := age.Hours()
	switch {
	case hours < 1:
		return "< 1"
	case hours < 3:
		return "1-3"
	case hours < 6:
		return "3-6"
	case hours < 12:
		return "6-12"
	default:
		return "12-24"
	}
}

// remarks renders the human-readable multi-line summary shown on the feed.
func remarks(rec FireDetection, acquired time.Time, recency string, local *time.Location) string {
	if local == nil {
		local = time.UTC
	}
	return fmt.Sprintf(
		"%s fire detection\nDetected: %s hrs ago\nTime: %s UTC (%s)\nConfidence: %d%%\nBrightness: %.1f K\nFRP: %.1f MW",
		rec.Satellite,
		recency,
		acquired.Format("2006-01-02 15:04"),
		acquired.In(local).Format("2006-01-02 15:04 MST"),
		rec.Confidence,
		rec.Brightness,
		rec.FRP,
	)
}
