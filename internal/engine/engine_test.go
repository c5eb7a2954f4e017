package engine

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

func TestRun_EndToEndPraefectAndCorrelation(t *testing.T) {
	dir := t.TempDir()
	archivePath := writeTestTarGz(t, dir, map[string]string{
		"gitaly/current":  "2024-01-01T00:00:00Z ERROR dialing failed: rpc error: code = Unavailable desc = connection refused correlation_id=7af0e2c1b4d3\n",
		"sidekiq/current": "correlation_id=7af0e2c1b4d3 job started\n",
		"db/schema.rb":    "  t.integer :timeout, default: 60, null: false\n",
	})

	var events []string
	var matches int
	rep, err := Run(context.Background(), archivePath, Options{BaseDir: dir, Workers: 2}, func(ev report.Event) {
		events = append(events, ev.Type)
		if ev.Type == "match" {
			matches++
		}
	})
	require.NoError(t, err)
	require.NotNil(t, rep)

	assert.Equal(t, 1, matches)
	assert.Equal(t, 1, rep.Summary.ErrorsFound)
	assert.Contains(t, events, "done")
	assert.NotEmpty(t, rep.Groups)
	assert.True(t, rep.Groups[0].HasCorrelation)
}

func TestRun_MaxMatchesStopsEarly(t *testing.T) {
	dir := t.TempDir()
	archivePath := writeTestTarGz(t, dir, map[string]string{
		"gitaly/current": "2024-01-01T00:00:00Z ERROR dialing failed: connection refused\n" +
			"2024-01-01T00:00:01Z ERROR dialing failed: connection refused\n" +
			"2024-01-01T00:00:02Z ERROR dialing failed: connection refused\n",
	})

	rep, err := Run(context.Background(), archivePath, Options{BaseDir: dir, MaxMatches: 1}, func(report.Event) {})
	require.NoError(t, err)
	assert.LessOrEqual(t, rep.Summary.ErrorsFound, 3)
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	archivePath := writeTestTarGz(t, dir, map[string]string{
		"gitaly/current": "2024-01-01T00:00:00Z ERROR dialing failed: connection refused\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var events []string
	rep, err := Run(ctx, archivePath, Options{BaseDir: dir}, func(ev report.Event) {
		events = append(events, ev.Type)
	})
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, rep)
	assert.Contains(t, events, "error")
}

func TestRun_DuplicateErrorsGroupBySignature(t *testing.T) {
	dir := t.TempDir()
	archivePath := writeTestTarGz(t, dir, map[string]string{
		"gitaly/current":   "2024-01-01T00:00:00Z ERROR dialing failed: connection refused\n",
		"praefect/current": "2024-01-01T01:30:00Z ERROR dialing failed: connection refused\n",
	})

	rep, err := Run(context.Background(), archivePath, Options{BaseDir: dir}, func(report.Event) {})
	require.NoError(t, err)
	require.NotEmpty(t, rep.Groups)

	assert.Equal(t, 2, rep.Summary.ErrorsFound)
	assert.Len(t, rep.Groups, 1, "both occurrences should normalize to the same signature")
	assert.Equal(t, 2, rep.Groups[0].Count)
}

func TestOptions_WorkersDefault(t *testing.T) {
	o := Options{}
	assert.GreaterOrEqual(t, o.workers(), 1)
	assert.LessOrEqual(t, o.workers(), 16)

	o2 := Options{Workers: 3}
	assert.Equal(t, 3, o2.workers())
}
