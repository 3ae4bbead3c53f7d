package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/firewatch-nz/fire-data-feed/internal/domain"
)

// Sink selects where the feature collection is submitted each run.
const (
	SinkHTTP  = "http"
	SinkKafka = "kafka"
	SinkLog   = "log"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Upstream provider.
	MapKey   string
	BaseURL  string
	Sources  []string // per-satellite area-CSV product names, in merge order
	DayRange int
	KMZName  string // archived KMZ path; empty disables that source
	Query    bool   // enable the query-service CSV source

	// Pipeline behaviour.
	BoundingBox   domain.BoundingBox
	MinConfidence int
	MinFRP        float64
	LocalTimezone string
	FetchInterval time.Duration
	FetchTimeout  time.Duration

	// Submission sink.
	FeedSink   string
	FeedURL    string
	FeedAPIKey string

	KafkaBrokers []string
	KafkaTopic   string

	// Service plumbing.
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ReadyTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchInterval, err := parseDurationEnv("FETCH_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDurationEnv("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	readyTimeout, err := parseDurationEnv("READY_TIMEOUT", "2s")
	if err != nil {
		return nil, err
	}

	box, err := ParseBoundingBox(envOrDefault("BOUNDING_BOX", "-47,166,-34,179"))
	if err != nil {
		return nil, err
	}

	minConfidence, err := parseIntEnv("MIN_CONFIDENCE", 50)
	if err != nil {
		return nil, err
	}
	minFRP, err := parseFloatEnv("MIN_FRP", 0)
	if err != nil {
		return nil, err
	}
	dayRange, err := parseIntEnv("FIRMS_DAY_RANGE", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MapKey:   os.Getenv("FIRMS_MAP_KEY"),
		BaseURL:  envOrDefault("FIRMS_BASE_URL", "https://firms.modaps.eosdis.nasa.gov"),
		Sources:  splitList(envOrDefault("FIRMS_SOURCES", "VIIRS_SNPP_NRT,VIIRS_NOAA20_NRT,VIIRS_NOAA21_NRT,MODIS_NRT")),
		DayRange: dayRange,
		KMZName:  os.Getenv("FIRMS_KMZ_NAME"),
		Query:    os.Getenv("QUERY_ENABLED") == "true",

		BoundingBox:   box,
		MinConfidence: minConfidence,
		MinFRP:        minFRP,
		LocalTimezone: envOrDefault("LOCAL_TIMEZONE", "Pacific/Auckland"),
		FetchInterval: fetchInterval,
		FetchTimeout:  fetchTimeout,

		FeedSink:   envOrDefault("FEED_SINK", SinkLog),
		FeedURL:    os.Getenv("FEED_URL"),
		FeedAPIKey: os.Getenv("FEED_API_KEY"),

		KafkaBrokers: splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "fire-detections"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ReadyTimeout:    readyTimeout,
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.MapKey == "" {
		return nil, errors.New("FIRMS_MAP_KEY is required")
	}
	if len(cfg.Sources) == 0 && cfg.KMZName == "" && !cfg.Query {
		return nil, errors.New("no sources configured: set FIRMS_SOURCES, FIRMS_KMZ_NAME, or QUERY_ENABLED")
	}
	if cfg.DayRange < 1 || cfg.DayRange > 10 {
		return nil, errors.New("FIRMS_DAY_RANGE must be between 1 and 10")
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 100 {
		return nil, errors.New("MIN_CONFIDENCE must be between 0 and 100")
	}
	switch cfg.FeedSink {
	case SinkHTTP:
		if cfg.FeedURL == "" {
			return nil, errors.New("FEED_SINK is http but FEED_URL is not set")
		}
	case SinkKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("FEED_SINK is kafka but KAFKA_BROKERS is not set")
		}
	case SinkLog:
	default:
		return nil, fmt.Errorf("unknown FEED_SINK %q", cfg.FeedSink)
	}
	if _, err := time.LoadLocation(cfg.LocalTimezone); err != nil {
		return nil, fmt.Errorf("invalid LOCAL_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// ParseBoundingBox parses a "minLat,minLon,maxLat,maxLon" string.
func ParseBoundingBox(value string) (domain.BoundingBox, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return domain.BoundingBox{}, fmt.Errorf("bounding box %q: want 4 comma-separated values", value)
	}
	nums := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.BoundingBox{}, fmt.Errorf("bounding box %q: %w", value, err)
		}
		nums[i] = v
	}
	box := domain.BoundingBox{MinLat: nums[0], MinLon: nums[1], MaxLat: nums[2], MaxLon: nums[3]}
	if box.MinLat < -90 || box.MaxLat > 90 || box.MinLat >= box.MaxLat {
		return domain.BoundingBox{}, fmt.Errorf("bounding box %q: invalid latitude range", value)
	}
	if box.MinLon < -180 || box.MaxLon > 180 || box.MinLon >= box.MaxLon {
		return domain.BoundingBox{}, fmt.Errorf("bounding box %q: invalid longitude range", value)
	}
	return box, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
