// Package autogrep is the top-level entry point wiring the extractor,
// pattern bank, correlation indexer, scanner and aggregator into the
// two operations an operator or CI job actually calls: Analyze for a single
// terminal report, AnalyzeStreaming to observe progress/match/warning events
// as they happen.
package autogrep

import (
	"context"

	"github.com/weaponry/autogrep/internal/engine"
	"github.com/weaponry/autogrep/internal/report"
	"github.com/weaponry/autogrep/internal/stats"
)

// Options configures one run.
type Options struct {
	// Workers bounds the scan-phase worker pool. 0 picks runtime.NumCPU()
	// clamped to 16.
	Workers int

	// MaxFileBytes rejects any single file above this size. 0 uses the
	// scanner's default of 10 GiB.
	MaxFileBytes int64

	// MmapThresholdBytes is the file size above which the scanner switches
	// from buffered line reads to mmap. 0 uses the scanner's default of 50 MiB.
	MmapThresholdBytes int64

	// ProgressEveryLines controls how often a progress event is emitted
	// during a regular-mode scan. 0 uses the scanner's default of 1000.
	ProgressEveryLines int64

	// MaxMatches stops submitting new files once this many matches have been
	// recorded. 0 means unlimited.
	MaxMatches int

	// PatternsFile is an optional operator-supplied YAML overlay layered on
	// top of the built-in pattern catalogue.
	PatternsFile string

	// BaseDir is the parent directory the extractor creates its temp
	// extraction root under. "" uses os.TempDir().
	BaseDir string

	// Stats, if non-nil, is updated with live progress counters during the
	// run. Callers that want a /metrics page can register it with their own
	// prometheus.Registry; autogrep never does so itself.
	Stats *stats.Stats
}

func (o Options) toEngineOptions() engine.Options {
	return engine.Options{
		Workers:            o.Workers,
		MaxFileBytes:       o.MaxFileBytes,
		MmapThresholdBytes: o.MmapThresholdBytes,
		ProgressEveryLines: o.ProgressEveryLines,
		MaxMatches:         o.MaxMatches,
		PatternsFile:       o.PatternsFile,
		BaseDir:            o.BaseDir,
		Stats:              o.Stats,
	}
}

// Analyze runs the full pipeline against archivePath and returns the
// finalized report once scanning completes or ctx is cancelled.
func Analyze(ctx context.Context, archivePath string, opts Options) (*report.Report, error) {
	return engine.Run(ctx, archivePath, opts.toEngineOptions(), func(report.Event) {})
}

// AnalyzeStreaming runs the full pipeline against archivePath, invoking sink
// for every progress/warning/match/done event as it happens, in addition to
// returning the finalized report.
func AnalyzeStreaming(ctx context.Context, archivePath string, opts Options, sink func(report.Event)) (*report.Report, error) {
	return engine.Run(ctx, archivePath, opts.toEngineOptions(), sink)
}
