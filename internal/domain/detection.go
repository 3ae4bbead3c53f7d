package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Canonical satellite labels used uniformly in output regardless of which
// upstream endpoint produced the record.
const (
	SatelliteMODIS       = "MODIS"
	SatelliteVIIRSSNPP   = "VIIRS S-NPP"
	SatelliteVIIRSNOAA20 = "VIIRS NOAA-20"
	SatelliteVIIRSNOAA21 = "VIIRS NOAA-21"
	SatelliteVIIRS       = "VIIRS"
)

// Day/night flag values.
const (
	DetectionDay   = "Day"
	DetectionNight = "Night"
)

// FireDetection is the canonical record shared by all parsers. Records are
// created fresh on each run and held only in memory; nothing persists.
type FireDetection struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Brightness  float64 `json:"brightness"`
	Brightness2 float64 `json:"brightness2"`
	Scan        float64 `json:"scan"`
	Track       float64 `json:"track"`
	AcqDate     string  `json:"acq_date"` // YYYY-MM-DD, treated as UTC
	AcqTime     string  `json:"acq_time"` // HHMM, zero-padded
	Satellite   string  `json:"satellite"`
	Confidence  int     `json:"confidence"` // 0-100 after normalization
	FRP         float64 `json:"frp"`        // fire radiative power, MW
	DayNight    string  `json:"daynight"`
	Version     string  `json:"version"`
}

// Fingerprint identifies a physical detection across sources: coordinates
// rounded to 5 decimal places plus the acquisition date and time. Two records
// sharing a fingerprint are the same fire seen through different endpoints.
func (d FireDetection) Fingerprint() string {
	return fmt.Sprintf("%.5f|%.5f|%s|%s", d.Latitude, d.Longitude, d.AcqDate, d.AcqTime)
}

// AcquiredAt combines the acquisition date and HHMM time into a UTC timestamp.
func (d FireDetection) AcquiredAt() (time.Time, error) {
	day, err := time.Parse("2006-01-02", d.AcqDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse acquisition date %q: %w", d.AcqDate, err)
	}
	hhmm := PadAcqTime(d.AcqTime)
	hour, errH := strconv.Atoi(hhmm[:2])
	mins, errM := strconv.Atoi(hhmm[2:])
	if errH != nil || errM != nil || hour < 0 || hour > 23 || mins < 0 || mins > 59 {
		return time.Time{}, fmt.Errorf("parse acquisition time %q", d.AcqTime)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, mins, 0, 0, time.UTC), nil
}

// PadAcqTime zero-pads an upstream HHMM value. The provider drops leading
// zeros ("130" means 01:30), so pad to four digits before slicing.
func PadAcqTime(hhmm string) string {
	hhmm = strings.TrimSpace(hhmm)
	for len(hhmm) < 4 {
		hhmm = "0" + hhmm
	}
	return hhmm
}

// satelliteAliases is the single lookup consulted by every parser. It covers
// both the provider's product names (used as source identifiers on tabular
// endpoints) and the satellite column values carried by some payloads.
// New source aliases are added here and nowhere else.
var satelliteAliases = map[string]string{
	// Product / source identifiers.
	"MODIS_NRT":        SatelliteMODIS,
	"MODIS_SP":         SatelliteMODIS,
	"VIIRS_SNPP_NRT":   SatelliteVIIRSSNPP,
	"VIIRS_SNPP_SP":    SatelliteVIIRSSNPP,
	"VIIRS_NOAA20_NRT": SatelliteVIIRSNOAA20,
	"VIIRS_NOAA20_SP":  SatelliteVIIRSNOAA20,
	"VIIRS_NOAA21_NRT": SatelliteVIIRSNOAA21,

	// Satellite column values.
	"TERRA":   SatelliteMODIS,
	"AQUA":    SatelliteMODIS,
	"N":       SatelliteVIIRSSNPP,
	"NPP":     SatelliteVIIRSSNPP,
	"N20":     SatelliteVIIRSNOAA20,
	"NOAA-20": SatelliteVIIRSNOAA20,
	"N21":     SatelliteVIIRSNOAA21,
	"NOAA-21": SatelliteVIIRSNOAA21,
}

// SatelliteForSource maps a source identifier or satellite column value to
// its canonical label. Unrecognized identifiers pass through verbatim so a
// new upstream product still yields distinguishable output.
func SatelliteForSource(source string) string {
	if label, ok := satelliteAliases[strings.ToUpper(strings.TrimSpace(source))]; ok {
		return label
	}
	return strings.TrimSpace(source)
}

// SatelliteForSensor classifies free-text sensor/platform wording from markup
// descriptions. The sensor text wins over the source-label fallback only when
// it unambiguously names a known sensor family.
func SatelliteForSensor(sensor, fallback string) string {
	s := strings.ToUpper(sensor)
	switch {
	case strings.Contains(s, "MODIS"), strings.Contains(s, "TERRA"), strings.Contains(s, "AQUA"):
		return SatelliteMODIS
	case strings.Contains(s, "VIIRS"), strings.Contains(s, "NPP"), strings.Contains(s, "NOAA"):
		switch {
		case strings.Contains(s, "NPP"), strings.Contains(s, "SUOMI"):
			return SatelliteVIIRSSNPP
		case strings.Contains(s, "NOAA-20"), strings.Contains(s, "NOAA 20"), strings.Contains(s, "N20"):
			return SatelliteVIIRSNOAA20
		case strings.Contains(s, "NOAA-21"), strings.Contains(s, "NOAA 21"), strings.Contains(s, "N21"):
			return SatelliteVIIRSNOAA21
		default:
			return SatelliteVIIRS
		}
	default:
		return fallback
	}
}

// ParseConfidence normalizes the upstream confidence encoding to a 0-100
// integer. Numeric strings parse directly; the letter codes come from the
// VIIRS products (h=high, n=nominal, l=low). Anything else is 0.
func ParseConfidence(value string) int {
	value = strings.TrimSpace(value)
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		return clampConfidence(int(v))
	}
	switch strings.ToLower(value) {
	case "h":
		return 80
	case "n":
		return 60
	case "l":
		return 40
	default:
		return 0
	}
}

// ParseConfidenceWord maps the categorical confidence words used in markup
// descriptions. Absent or unrecognized values default to nominal.
func ParseConfidenceWord(value string) int {
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "%"))
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		return clampConfidence(int(v))
	}
	switch strings.ToLower(value) {
	case "high":
		return 80
	case "nominal":
		return 60
	case "low":
		return 40
	default:
		return 60
	}
}

func clampConfidence(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// BoundingBox is a lat/lon rectangle used for geographic pre-filtering and
// for building the provider's area request string.
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// Contains reports whether the point falls inside the box (inclusive).
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// AreaString renders the box in the west,south,east,north order the
// provider's area endpoints expect.
func (b BoundingBox) AreaString() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}
