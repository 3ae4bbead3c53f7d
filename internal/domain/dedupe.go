package domain

// Deduplicate collapses records gathered across all sources into a unique
// set keyed by fingerprint. The first record observed for a fingerprint is
// kept regardless of which source produced it; output order is stable
// relative to first occurrence.
func Deduplicate(records []FireDetection) []FireDetection {
	seen := make(map[string]struct{}, len(records))
	out := make([]FireDetection, 0, len(records))
	for _, rec := range records {
		key := rec.Fingerprint()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}
