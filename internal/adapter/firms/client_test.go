package firms

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-map-key"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_AreaCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/area/csv/"+testKey+"/VIIRS_SNPP_NRT/166,-47,179,-34/1", r.URL.Path)
		_, _ = w.Write([]byte("latitude,longitude\n-40.0,170.0\n"))
	}))
	defer srv.Close()

	c := NewClient(testKey, srv.URL, 5*time.Second, testLogger())
	payload, err := c.AreaCSV(context.Background(), "VIIRS_SNPP_NRT", "166,-47,179,-34", 1)
	require.NoError(t, err)
	assert.Equal(t, "latitude,longitude\n-40.0,170.0\n", payload)
}

func TestClient_QueryCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/query/csv/"+testKey+"/166,-47,179,-34", r.URL.Path)
		_, _ = w.Write([]byte("latitude,longitude,satellite\n"))
	}))
	defer srv.Close()

	c := NewClient(testKey, srv.URL, 5*time.Second, testLogger())
	payload, err := c.QueryCSV(context.Background(), "166,-47,179,-34")
	require.NoError(t, err)
	assert.Contains(t, payload, "satellite")
}

func TestClient_ArchivedKML(t *testing.T) {
	kmz := buildKMZ(t, map[string]string{"fires.kml": "<kml>doc</kml>"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/active_fire/kmz/VIIRS_24h.kmz", r.URL.Path)
		_, _ = w.Write(kmz)
	}))
	defer srv.Close()

	c := NewClient(testKey, srv.URL, 5*time.Second, testLogger())
	doc, err := c.ArchivedKML(context.Background(), "active_fire/kmz/VIIRS_24h.kmz")
	require.NoError(t, err)
	assert.Equal(t, "<kml>doc</kml>", doc)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Invalid MAP_KEY.", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(testKey, srv.URL, 5*time.Second, testLogger())
	_, err := c.AreaCSV(context.Background(), "MODIS_NRT", "area", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid MAP_KEY")
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testKey, srv.URL, 5*time.Second, testLogger())
	for i := 0; i < 5; i++ {
		_, err := c.QueryCSV(context.Background(), "area")
		require.Error(t, err)
	}
	assert.Equal(t, 5, hits)

	// Sixth call fails fast without reaching the server.
	_, err := c.QueryCSV(context.Background(), "area")
	require.Error(t, err)
	assert.Equal(t, 5, hits)
}
