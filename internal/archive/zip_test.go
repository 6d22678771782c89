package archive

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webflowx/exporter/internal/assets"
)

func entryNames(t *testing.T, path string) map[string]string {
	t.Helper()
	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	out := make(map[string]string, len(reader.File))
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = string(body)
	}
	return out
}

func TestBuildAndEmbed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "style.css"), []byte("a{}"), 0o644))

	manifest := assets.Manifest{
		HTML: []string{"https://example.webflow.io"},
		CSS:  []string{"https://assets.website-files.com/s/style.css"},
	}
	dest := filepath.Join(t.TempDir(), "export.zip")

	buildSize, err := Build(dir, manifest, dest)
	require.NoError(t, err)
	require.Positive(t, buildSize)

	entries := entryNames(t, dest)
	require.Contains(t, entries, "index.html")
	require.Contains(t, entries, "css/style.css")
	require.Contains(t, entries, "manifest.json")

	var decoded assets.Manifest
	require.NoError(t, json.Unmarshal([]byte(entries["manifest.json"]), &decoded))
	require.Equal(t, manifest.HTML, decoded.HTML)

	embedSize, err := EmbedJSON(dest, "progress.json", []string{"start", "complete"})
	require.NoError(t, err)
	require.Positive(t, embedSize)

	entries = entryNames(t, dest)
	require.Contains(t, entries, "progress.json")
	require.Contains(t, entries, "index.html")
	require.Contains(t, entries, "manifest.json")
	require.JSONEq(t, `["start","complete"]`, entries["progress.json"])

	info, err := os.Stat(dest)
	require.NoError(t, err)
	require.Equal(t, info.Size(), embedSize)
}
