package firms

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoKMLEntry is returned when a KMZ container holds no .kml entry.
var ErrNoKMLEntry = errors.New("no kml entry in archive")

// ExtractKML opens a KMZ container (a zip archive) and returns the text of
// the first entry whose name ends in .kml.
func ExtractKML(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open kmz: %w", err)
	}

	for _, entry := range reader.File {
		if !strings.HasSuffix(strings.ToLower(entry.Name), ".kml") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return "", fmt.Errorf("open kmz entry %s: %w", entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read kmz entry %s: %w", entry.Name, err)
		}
		return string(content), nil
	}

	return "", ErrNoKMLEntry
}
