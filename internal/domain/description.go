package domain

import "regexp"

// Descriptions embed label/value pairs inside HTML-ish markup, e.g.
//
//	<b>Detection Time:</b> 2024-01-01 01:30 UTC<br/>
//	<b>Sensor:</b> VIIRS<br/>
//	<b>Confidence:</b> nominal<br/>
//
// Tags are stripped first, then each field is matched independently so a
// missing label means an absent field rather than a sentinel value.
var (
	markupTagRe = regexp.MustCompile(`<[^>]*>`)

	detectionTimeRe = regexp.MustCompile(`(?i)detection\s+time[^0-9]*(\d{4}-\d{2}-\d{2})\s+(\d{1,2}):?(\d{2})`)
	satelliteRe     = regexp.MustCompile(`(?i)(?:satellite|platform)\s*:\s*([^\n\r]+)`)
	sensorRe        = regexp.MustCompile(`(?i)(?:sensor|instrument)\s*:\s*([^\n\r]+)`)
	confidenceRe    = regexp.MustCompile(`(?i)confidence\s*:\s*([A-Za-z0-9.]+)\s*%?`)
	frpRe           = regexp.MustCompile(`(?i)(?:frp|fire\s+radiative\s+power)[^0-9-]*(-?\d+(?:\.\d+)?)`)
	brightnessRe    = regexp.MustCompile(`(?i)brightness(?:\s+temperature)?[^0-9-]*(-?\d+(?:\.\d+)?)`)
	dayNightRe      = regexp.MustCompile(`(?i)day\s*/?\s*night\s*:\s*([A-Za-z]+)`)
	scanRe          = regexp.MustCompile(`(?i)\bscan\b[^0-9-]*(\d+(?:\.\d+)?)`)
	trackRe         = regexp.MustCompile(`(?i)\btrack\b[^0-9-]*(\d+(?:\.\d+)?)`)
	versionRe       = regexp.MustCompile(`(?i)version\s*:\s*([A-Za-z0-9.]+)`)
)

// descriptionFields holds the raw captures from one marker description.
// Empty string means the label was absent; defaults are applied by the
// caller, not here.
type descriptionFields struct {
	date       string
	hour       string
	minute     string
	satellite  string
	sensor     string
	confidence string
	frp        string
	brightness string
	dayNight   string
	scan       string
	track      string
	version    string
}

func extractDescriptionFields(description string) descriptionFields {
	text := markupTagRe.ReplaceAllString(description, "\n")

	var f descriptionFields
	if m := detectionTimeRe.FindStringSubmatch(text); m != nil {
		f.date, f.hour, f.minute = m[1], m[2], m[3]
		if len(f.hour) == 1 {
			f.hour = "0" + f.hour
		}
	}
	f.satellite = firstCapture(satelliteRe, text)
	f.sensor = firstCapture(sensorRe, text)
	f.confidence = firstCapture(confidenceRe, text)
	f.frp = firstCapture(frpRe, text)
	f.brightness = firstCapture(brightnessRe, text)
	f.dayNight = firstCapture(dayNightRe, text)
	f.scan = firstCapture(scanRe, text)
	f.track = firstCapture(trackRe, text)
	f.version = firstCapture(versionRe, text)
	return f
}

func firstCapture(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
