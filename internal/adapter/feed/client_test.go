package feed

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/firewatch-nz/fire-data-feed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleCollection() domain.FeatureCollection {
	return domain.FeatureCollection{
		Type: "FeatureCollection",
		Features: []domain.Feature{{
			Type:     "Feature",
			Geometry: domain.PointGeometry{Type: "Point", Coordinates: [2]float64{170.0, -40.0}},
			Properties: domain.FeatureProperties{
				ID:       "VIIRS-S-NPP-2024-01-01-0130--40-170",
				Category: "fire",
				Icon:     "fire",
			},
		}},
	}
}

func TestClient_Publish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "feed-key", r.Header.Get("X-API-Key"))

		var fc domain.FeatureCollection
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fc))
		assert.Equal(t, "FeatureCollection", fc.Type)
		require.Len(t, fc.Features, 1)
		assert.Equal(t, [2]float64{170.0, -40.0}, fc.Features[0].Geometry.Coordinates)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "feed-key", 5*time.Second, testLogger())
	require.NoError(t, c.Publish(context.Background(), sampleCollection()))
}

func TestClient_Publish_NonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "feed unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, testLogger())
	err := c.Publish(context.Background(), sampleCollection())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "feed unavailable")
}

func TestClient_Publish_EmptyCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var fc domain.FeatureCollection
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fc))
		assert.Empty(t, fc.Features)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second, testLogger())
	fc := domain.FeatureCollection{Type: "FeatureCollection", Features: []domain.Feature{}}
	require.NoError(t, c.Publish(context.Background(), fc))
}
