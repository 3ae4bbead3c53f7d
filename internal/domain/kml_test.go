package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBox = BoundingBox{MinLat: -47, MinLon: 166, MaxLat: -34, MaxLon: 179}

func centroidPlacemark(coords, description string) string {
	return fmt.Sprintf(`<Placemark>
  <name>Fire Detection Centroid</name>
  <description><![CDATA[%s]]></description>
  <Point><coordinates>%s</coordinates></Point>
</Placemark>`, description, coords)
}

func kmlDoc(placemarks ...string) string {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Document><Folder>`
	for _, pm := range placemarks {
		doc += pm
	}
	return doc + `</Folder></Document></kml>`
}

const fullDescription = `<b>Detection Time:</b> 2024-01-01 01:30 UTC<br/>
<b>Satellite:</b> Suomi NPP<br/>
<b>Sensor:</b> VIIRS<br/>
<b>Confidence:</b> nominal<br/>
<b>FRP:</b> 4.8 MW<br/>
<b>Brightness:</b> 330.5 K<br/>
<b>Day/Night:</b> Night<br/>
<b>Scan:</b> 0.39<br/>
<b>Track:</b> 0.36<br/>
<b>Version:</b> 2.0NRT<br/>`

func TestParseKMLDetections_FullDescription(t *testing.T) {
	doc := kmlDoc(centroidPlacemark("170.0,-40.0,0", fullDescription))

	recs, err := ParseKMLDetections(doc, "kmz-24h", testBox)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, -40.0, rec.Latitude)
	assert.Equal(t, 170.0, rec.Longitude)
	assert.Equal(t, "2024-01-01", rec.AcqDate)
	assert.Equal(t, "0130", rec.AcqTime)
	assert.Equal(t, SatelliteVIIRSSNPP, rec.Satellite, "sensor text overrides source label")
	assert.Equal(t, 60, rec.Confidence)
	assert.Equal(t, 4.8, rec.FRP)
	assert.Equal(t, 330.5, rec.Brightness)
	assert.Equal(t, 330.5, rec.Brightness2, "no secondary channel in this format")
	assert.Equal(t, DetectionNight, rec.DayNight)
	assert.Equal(t, 0.39, rec.Scan)
	assert.Equal(t, 0.36, rec.Track)
	assert.Equal(t, "2.0NRT", rec.Version)
}

func TestParseKMLDetections_SkipsNonCentroidMarkers(t *testing.T) {
	footprint := `<Placemark>
  <name>Fire Detection Footprint</name>
  <description><![CDATA[` + fullDescription + `]]></description>
  <Polygon><outerBoundaryIs><LinearRing>
    <coordinates>170,-40 170.1,-40 170.1,-40.1 170,-40</coordinates>
  </LinearRing></outerBoundaryIs></Polygon>
</Placemark>`

	recs, err := ParseKMLDetections(kmlDoc(footprint), "kmz-24h", testBox)
	require.NoError(t, err)
	assert.Empty(t, recs, "footprint polygons never appear in output")
}

func TestParseKMLDetections_GeographicPreFilter(t *testing.T) {
	inside := centroidPlacemark("170.0,-40.0", fullDescription)
	outside := centroidPlacemark("10.0,-40.0", fullDescription)

	recs, err := ParseKMLDetections(kmlDoc(inside, outside), "kmz-24h", testBox)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 170.0, recs[0].Longitude)
}

func TestParseKMLDetections_Defaults(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	defer SetClock(nil)

	doc := kmlDoc(centroidPlacemark("170.0,-40.0", "no recognizable fields"))

	recs, err := ParseKMLDetections(doc, "VIIRS_SNPP_NRT", testBox)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, "2024-03-15", rec.AcqDate, "missing timestamp defaults to current date")
	assert.Equal(t, "1200", rec.AcqTime)
	assert.Equal(t, 60, rec.Confidence, "confidence defaults to nominal")
	assert.Zero(t, rec.FRP)
	assert.Zero(t, rec.Brightness)
	assert.Zero(t, rec.Scan)
	assert.Zero(t, rec.Track)
	assert.Equal(t, DetectionDay, rec.DayNight)
	assert.Equal(t, SatelliteVIIRSSNPP, rec.Satellite, "source label fallback applies")
}

func TestParseKMLDetections_SensorDisambiguation(t *testing.T) {
	tests := []struct {
		name     string
		lines    string
		expected string
	}{
		{"MODIS", "<b>Sensor:</b> MODIS<br/>", SatelliteMODIS},
		{"NOAA-20", "<b>Satellite:</b> NOAA-20<br/><b>Sensor:</b> VIIRS<br/>", SatelliteVIIRSNOAA20},
		{"NOAA-21", "<b>Satellite:</b> NOAA-21<br/><b>Sensor:</b> VIIRS<br/>", SatelliteVIIRSNOAA21},
		{"generic VIIRS", "<b>Sensor:</b> VIIRS<br/>", SatelliteVIIRS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := kmlDoc(centroidPlacemark("170.0,-40.0", tt.lines))
			recs, err := ParseKMLDetections(doc, "fallback", testBox)
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.expected, recs[0].Satellite)
		})
	}
}

func TestParseKMLDetections_BadDocument(t *testing.T) {
	_, err := ParseKMLDetections("<kml><Document><Placemark>", "src", testBox)
	require.Error(t, err)
}

func TestParseKMLDetections_BadCoordinates(t *testing.T) {
	doc := kmlDoc(centroidPlacemark("garbage", fullDescription))
	recs, err := ParseKMLDetections(doc, "src", testBox)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
