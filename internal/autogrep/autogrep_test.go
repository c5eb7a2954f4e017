package autogrep

import (
	"archive/tar"
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaponry/autogrep/internal/report"
)

func writeTestTarGz(t *testing.T, dir string, files map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0600, Size: int64(len(content))}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	path := dir + "/bundle.tar.gz"
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestAnalyze_ReturnsReport(t *testing.T) {
	dir := t.TempDir()
	archivePath := writeTestTarGz(t, dir, map[string]string{
		"gitaly/current": "2024-01-01T00:00:00Z ERROR dialing failed: connection refused\n",
	})

	rep, err := Analyze(context.Background(), archivePath, Options{BaseDir: dir})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Summary.ErrorsFound)
}

func TestAnalyzeStreaming_EmitsDoneEvent(t *testing.T) {
	dir := t.TempDir()
	archivePath := writeTestTarGz(t, dir, map[string]string{
		"gitaly/current": "2024-01-01T00:00:00Z ERROR dialing failed: connection refused\n",
	})

	var types []string
	_, err := AnalyzeStreaming(context.Background(), archivePath, Options{BaseDir: dir}, func(ev report.Event) {
		types = append(types, ev.Type)
	})
	require.NoError(t, err)
	assert.Contains(t, types, "done")
	assert.Contains(t, types, "match")
}
