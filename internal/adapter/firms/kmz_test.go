package firms

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildKMZ(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractKML(t *testing.T) {
	data := buildKMZ(t, map[string]string{
		"doc.kml": "<kml>detections</kml>",
	})

	doc, err := ExtractKML(data)
	require.NoError(t, err)
	assert.Equal(t, "<kml>detections</kml>", doc)
}

func TestExtractKML_SkipsOtherEntries(t *testing.T) {
	data := buildKMZ(t, map[string]string{
		"legend.png": "not markup",
		"fires.kml":  "<kml/>",
	})

	doc, err := ExtractKML(data)
	require.NoError(t, err)
	assert.Equal(t, "<kml/>", doc)
}

func TestExtractKML_NoKMLEntry(t *testing.T) {
	data := buildKMZ(t, map[string]string{"readme.txt": "hello"})

	_, err := ExtractKML(data)
	require.ErrorIs(t, err, ErrNoKMLEntry)
}

func TestExtractKML_NotAnArchive(t *testing.T) {
	_, err := ExtractKML([]byte("plain text, not a zip"))
	require.Error(t, err)
}
