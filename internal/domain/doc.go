// Package domain models satellite active-fire detections from a FIRMS-style
// provider and the normalization pipeline that turns heterogeneous upstream
// payloads into one canonical record.
//
// # Data sources
//
// Detections arrive through three endpoint families:
//
//   - Per-satellite area CSV: header row plus data rows, column sets varying
//     by instrument. MODIS products carry "brightness"/"bright_t31" channel
//     columns, VIIRS products carry "bright_ti4"/"bright_ti5". Both are
//     remapped to the canonical brightness/brightness2 pair.
//   - Query-service CSV: same tabular shape, but rows always carry their own
//     "satellite" column.
//   - Archived KML (inside a KMZ container): point placemarks whose free-text
//     descriptions embed label/value pairs.
//
// # Upstream conventions
//
// Acquisition time:
//
//	HHMM in 24-hour UTC notation with leading zeros dropped: "130" = 01:30.
//	Zero-padded to four digits before use. Combined with acq_date
//	(YYYY-MM-DD, treated as UTC) to form the canonical timestamp.
//
// Confidence encoding (varies by instrument):
//
//	MODIS products report a numeric percentage 0-100.
//	VIIRS products report letter codes: l (low), n (nominal), h (high),
//	mapped to 40/60/80. Markup descriptions use the full words.
//
// Satellite naming:
//
//	Source identifiers ("VIIRS_SNPP_NRT"), satellite column values ("N20",
//	"Terra"), and free-text sensor wording ("Suomi NPP / VIIRS") all map to
//	one canonical label set via a single shared alias table. Earlier
//	ingestion variants carried near-duplicate per-source tables that drifted
//	apart; the table in detection.go is now the only place aliases live.
//
// # Deduplication
//
// The same physical fire routinely appears on more than one endpoint for the
// same instrument pass. Records are fingerprinted on coordinates rounded to
// five decimal places plus acquisition date and time; the first record seen
// for a fingerprint wins. See [FireDetection.Fingerprint] and [Deduplicate].
package domain
