package domain

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// kmlPlacemark is the subset of a KML placemark the parser cares about.
// Footprint polygons have no Point element and are skipped by the name check
// anyway.
type kmlPlacemark struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Point       struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"Point"`
}

// ParseKMLDetections extracts fire detections from a KML document. Only
// placemarks whose name marks them as a detection centroid are processed;
// footprint geometry belonging to the same detection would otherwise be
// double-counted. Markers outside box are dropped. sourceLabel is the
// satellite fallback when the description's sensor text is ambiguous.
func ParseKMLDetections(doc, sourceLabel string, box BoundingBox) ([]FireDetection, error) {
	decoder := xml.NewDecoder(strings.NewReader(doc))

	var out []FireDetection
	for {
		tok, err := decoder.Token()
		if tok == nil {
			break
		}
		if err != nil {
			return out, fmt.Errorf("decode kml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" {
			continue
		}

		var pm kmlPlacemark
		if err := decoder.DecodeElement(&pm, &start); err != nil {
			return out, fmt.Errorf("decode placemark: %w", err)
		}

		det, ok := detectionFromPlacemark(pm, sourceLabel, box)
		if !ok {
			continue
		}
		out = append(out, det)
	}
	return out, nil
}

func detectionFromPlacemark(pm kmlPlacemark, sourceLabel string, box BoundingBox) (FireDetection, bool) {
	if !strings.Contains(strings.ToLower(pm.Name), "detection centroid") {
		return FireDetection{}, false
	}

	lon, lat, ok := parseKMLCoordinates(pm.Point.Coordinates)
	if !ok || !box.Contains(lat, lon) {
		return FireDetection{}, false
	}

	fields := extractDescriptionFields(pm.Description)

	det := FireDetection{
		Latitude:   lat,
		Longitude:  lon,
		Confidence: ParseConfidenceWord(fields.confidence),
		FRP:        floatOrZero(fields.frp),
		Brightness: floatOrZero(fields.brightness),
		Scan:       floatOrZero(fields.scan),
		Track:      floatOrZero(fields.track),
		DayNight:   DetectionDay,
		Version:    fields.version,
	}
	// This format carries no distinct secondary channel.
	det.Brightness2 = det.Brightness

	if fields.date != "" {
		det.AcqDate = fields.date
		det.AcqTime = PadAcqTime(fields.hour + fields.minute)
	} else {
		det.AcqDate = clock.Now().UTC().Format("2006-01-02")
		det.AcqTime = "1200"
	}

	if fields.dayNight != "" {
		det.DayNight = parseDayNight(fields.dayNight)
	}

	det.Satellite = SatelliteForSensor(
		fields.satellite+" "+fields.sensor,
		SatelliteForSource(sourceLabel),
	)

	return det, true
}

// parseKMLCoordinates splits a "longitude,latitude[,altitude]" string.
func parseKMLCoordinates(coords string) (lon, lat float64, ok bool) {
	parts := strings.Split(strings.TrimSpace(coords), ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLon != nil || errLat != nil {
		return 0, 0, false
	}
	return lon, lat, true
}

func floatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
