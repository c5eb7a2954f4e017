package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaponry/autogrep/internal/correlate"
	"github.com/weaponry/autogrep/internal/patterns"
	"github.com/weaponry/autogrep/internal/report"
)

type fakeSink struct {
	matches   []*report.Match
	warnings  []string
	progressN int
}

func (s *fakeSink) Progress(file string, linesProcessed, totalLines int64) { s.progressN++ }
func (s *fakeSink) Warning(file, reason string)                            { s.warnings = append(s.warnings, reason) }
func (s *fakeSink) Match(m *report.Match)                                  { s.matches = append(s.matches, m) }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestScanFile_PraefectConnectionRefused(t *testing.T) {
	bank, err := patterns.Default()
	require.NoError(t, err)

	dir := t.TempDir()
	abs := writeFile(t, dir, "current", "2024-01-01T00:00:00Z ERROR dialing failed: rpc error: code = Unavailable desc = connection refused\n")

	sink := &fakeSink{}
	sc := New(Options{Bank: bank, Index: correlate.New()}, sink)
	sc.ScanFile("gitaly/current", abs)

	require.Len(t, sink.matches, 1)
	assert.Equal(t, "Praefect/Gitaly", sink.matches[0].Component)
	assert.Equal(t, "ERROR", sink.matches[0].Severity)
	assert.Contains(t, sink.matches[0].CleanMessage, "connection refused")
}

func TestScanFile_SchemaFileSuppressed(t *testing.T) {
	bank, err := patterns.Default()
	require.NoError(t, err)

	dir := t.TempDir()
	abs := writeFile(t, dir, "schema.rb", `  t.integer :timeout, default: 60, null: false`+"\n")

	sink := &fakeSink{}
	sc := New(Options{Bank: bank, Index: correlate.New()}, sink)
	sc.ScanFile("db/schema.rb", abs)

	assert.Empty(t, sink.matches)
}

func TestScanFile_WorkerClassFalsePositiveVsGenuineError(t *testing.T) {
	bank, err := patterns.Default()
	require.NoError(t, err)

	dir := t.TempDir()
	content := `{"severity":"ERROR","class":"Geo::EventWorker","exception.class":"StandardError","exception.message":"boom"}` + "\n" +
		`{"severity":"INFO","class":"Geo::VerificationTimeoutWorker","jid":"abc"}` + "\n"
	abs := writeFile(t, dir, "current", content)

	sink := &fakeSink{}
	sc := New(Options{Bank: bank, Index: correlate.New()}, sink)
	sc.ScanFile("sidekiq/current", abs)

	require.Len(t, sink.matches, 1)
	assert.Equal(t, "boom", sink.matches[0].CleanMessage)
}

func TestScanFile_CorrelationEnrichment(t *testing.T) {
	bank, err := patterns.Default()
	require.NoError(t, err)

	dir := t.TempDir()
	idx := correlate.New()
	abs1 := writeFile(t, dir, "a_current", "correlation_id=7af0e2c1b4d3 request started\n")
	abs2 := writeFile(t, dir, "b_current", "2024-01-01T00:00:00Z ERROR dialing failed: connection refused correlation_id=7af0e2c1b4d3\n")

	sink := &fakeSink{}
	sc := New(Options{Bank: bank, Index: idx}, sink)

	// ScanFile indexes each file's lines before scanning it, so the index holds
	// both files' ids by the time b/current is scanned.
	sc.ScanFile("a/current", abs1)
	sc.ScanFile("b/current", abs2)

	require.NotEmpty(t, sink.matches)
	m := sink.matches[len(sink.matches)-1]
	assert.Equal(t, "7af0e2c1b4d3", m.CorrelationID)
}
