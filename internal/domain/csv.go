package domain

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// ParseCSVDetections converts a delimited tabular payload (header row plus
// data rows) into detections. source is the provider product identifier,
// used for satellite assignment when the payload carries no satellite column.
//
// Rows whose field count differs from the header are skipped. A payload with
// no data rows yields an empty set, not an error. A row survives only if both
// latitude and longitude parse as numbers.
func ParseCSVDetections(payload, source string) []FireDetection {
	reader := csv.NewReader(strings.NewReader(payload))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var out []FireDetection
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil || len(row) != len(header) {
			continue
		}
		det, ok := detectionFromRow(cols, row, source)
		if !ok {
			continue
		}
		out = append(out, det)
	}
}

func detectionFromRow(cols map[string]int, row []string, source string) (FireDetection, bool) {
	field := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}
	floatField := func(name string) (float64, bool) {
		s, ok := field(name)
		if !ok || s == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	lat, latOK := floatField("latitude")
	lon, lonOK := floatField("longitude")
	if !latOK || !lonOK {
		return FireDetection{}, false
	}

	det := FireDetection{Latitude: lat, Longitude: lon}

	// Instrument-specific channel columns map onto the canonical pair:
	// MODIS carries brightness/bright_t31, VIIRS bright_ti4/bright_ti5.
	if v, ok := floatField("brightness"); ok {
		det.Brightness = v
	} else if v, ok := floatField("bright_ti4"); ok {
		det.Brightness = v
	}
	if v, ok := floatField("brightness2"); ok {
		det.Brightness2 = v
	} else if v, ok := floatField("bright_t31"); ok {
		det.Brightness2 = v
	} else if v, ok := floatField("bright_ti5"); ok {
		det.Brightness2 = v
	} else {
		det.Brightness2 = det.Brightness
	}

	det.Scan, _ = floatField("scan")
	det.Track, _ = floatField("track")
	det.FRP, _ = floatField("frp")

	if s, ok := field("confidence"); ok {
		det.Confidence = ParseConfidence(s)
	}
	// A missing or unparseable acquisition date falls back to the current
	// date rather than dropping the row.
	if s, ok := field("acq_date"); ok && validAcqDate(s) {
		det.AcqDate = s
	} else {
		det.AcqDate = clock.Now().UTC().Format("2006-01-02")
	}
	if s, ok := field("acq_time"); ok && validAcqTime(s) {
		det.AcqTime = PadAcqTime(s)
	} else {
		det.AcqTime = "0000"
	}
	if s, ok := field("daynight"); ok {
		det.DayNight = parseDayNight(s)
	} else {
		det.DayNight = DetectionDay
	}
	det.Version, _ = field("version")

	if s, ok := field("satellite"); ok && s != "" {
		det.Satellite = SatelliteForSource(s)
	} else {
		det.Satellite = SatelliteForSource(source)
	}

	return det, true
}

func validAcqDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

func validAcqTime(value string) bool {
	if value == "" || len(value) > 4 {
		return false
	}
	hhmm := PadAcqTime(value)
	hour, errH := strconv.Atoi(hhmm[:2])
	mins, errM := strconv.Atoi(hhmm[2:])
	return errH == nil && errM == nil &&
		hour >= 0 && hour <= 23 && mins >= 0 && mins <= 59
}

func parseDayNight(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "N", "NIGHT":
		return DetectionNight
	default:
		return DetectionDay
	}
}
