// Package engine implements the orchestrator: it drives the archive
// extractor, runs the correlation-indexer prescan, fans file-scanning work
// out across a bounded worker pool, and funnels events into a single
// consumer that feeds the caller's sink.
package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alitto/pond"
	"github.com/klauspost/compress/gzip"

	"github.com/weaponry/autogrep/internal/aggregate"
	"github.com/weaponry/autogrep/internal/archive"
	"github.com/weaponry/autogrep/internal/classify"
	"github.com/weaponry/autogrep/internal/correlate"
	"github.com/weaponry/autogrep/internal/filter"
	"github.com/weaponry/autogrep/internal/log"
	"github.com/weaponry/autogrep/internal/patterns"
	"github.com/weaponry/autogrep/internal/report"
	"github.com/weaponry/autogrep/internal/scanner"
	"github.com/weaponry/autogrep/internal/stats"
)

const (
	eventQueueCapacity = 1024
	drainTimeout       = 30 * time.Second
	perFileTimeout     = 5 * time.Minute
)

// Options configures one Analyze/AnalyzeStreaming run.
type Options struct {
	Workers             int
	MaxFileBytes        int64
	MmapThresholdBytes  int64
	ProgressEveryLines  int64
	MaxMatches          int // 0 = unlimited
	PatternsFile        string
	BaseDir             string // parent of the extraction temp dir; "" = os.TempDir()

	// Stats, if non-nil, receives live queue-depth/in-flight/throughput
	// updates during the run. Entirely optional: nil disables instrumentation.
	Stats *stats.Stats
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	n := runtime.NumCPU()
	if n > 16 {
		n = 16
	}
	if n < 1 {
		n = 1
	}
	return n
}

// EventSink receives one Event at a time.
type EventSink func(report.Event)

// Run extracts archivePath, indexes it, scans every log-suitable file, and
// streams events to sink. It returns the finalized Report once scanning
// completes (or ctx is cancelled). The caller owns ctx: cancelling it
// triggers cooperative shutdown: in-flight files finish, no new ones start.
func Run(ctx context.Context, archivePath string, opts Options, sink EventSink) (*report.Report, error) {
	start := time.Now()

	bank, err := loadBank(opts.PatternsFile)
	if err != nil {
		err = fmt.Errorf("engine: pattern bank: %w", err)
		sink(report.Event{Type: "error", Reason: err.Error()})
		return nil, err
	}

	res, err := archive.Extract(archivePath, opts.BaseDir)
	if err != nil {
		err = fmt.Errorf("engine: extraction: %w", err)
		sink(report.Event{Type: "error", Reason: err.Error()})
		return nil, err
	}
	for _, w := range res.Warnings {
		sink(report.Event{Type: "warning", File: w.Path, Reason: w.Reason})
	}

	scannable := scannableFiles(res.Files, pathFilters())

	idx := correlate.New()
	prescan(res.Root, scannable, idx, sink)

	agg := aggregate.New()
	var matchCount int64
	var linesProcessed int64

	// events is the bounded fan-in channel: every worker's scanner.Sink
	// writes here, one consumer goroutine below drains it into the
	// aggregator and the caller's sink.
	events := make(chan report.Event, eventQueueCapacity)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for ev := range events {
			if ev.Type == "match" {
				agg.Add(ev.Data)
				atomic.AddInt64(&matchCount, 1)
				if opts.Stats != nil {
					opts.Stats.AddMatch()
				}
			}
			if ev.Type == "progress" {
				atomic.StoreInt64(&linesProcessed, ev.LinesProcessed)
				if opts.Stats != nil {
					opts.Stats.SetLines(ev.LinesProcessed)
				}
			}
			if opts.Stats != nil {
				opts.Stats.SetQueueDepth(len(events))
			}
			sink(ev)
		}
	}()

	pool := pond.New(opts.workers(), opts.workers()*4)

	for _, rel := range scannable {
		rel := rel
		if ctx.Err() != nil {
			break
		}
		if opts.MaxMatches > 0 && atomic.LoadInt64(&matchCount) >= int64(opts.MaxMatches) {
			break
		}

		abs := filepath.Join(res.Root, rel)
		pool.Submit(func() {
			scanOneFile(ctx, rel, abs, bank, idx, opts, events)
		})
	}

	stopped := make(chan struct{})
	go func() {
		pool.StopAndWait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(drainTimeout):
		log.Warnf("engine: worker drain exceeded %s, forcing stop", drainTimeout)
	}

	close(events)
	<-consumerDone

	// Cancellation is fatal: surfaced as a single top-level error, no
	// partial report, regardless of how much scanning had completed.
	if ctx.Err() != nil {
		err := fmt.Errorf("engine: cancelled: %w", ctx.Err())
		sink(report.Event{Type: "error", Reason: err.Error()})
		return nil, err
	}

	rep := agg.Finalize()
	rep.Summary.FilesProcessed = len(scannable)
	rep.Summary.LinesProcessed = atomic.LoadInt64(&linesProcessed)
	rep.Summary.DurationMs = time.Since(start).Milliseconds()

	sink(report.Event{Type: "done", FinalSummary: &rep.Summary})
	return rep, nil
}

// pathFilters builds the coarse archive-path exclusion filters (VCS
// metadata, macOS resource forks) that run before the per-file
// classification pass.
func pathFilters() map[string]filter.Filter {
	filters := map[string]filter.Filter{}
	filter.DefaultPathFilters(filters)
	if err := filter.CompileFilters(filters); err != nil {
		log.Warnf("engine: compile default path filters failed: %s; scanning without them", err)
		return nil
	}
	return filters
}

func scannableFiles(files []string, filters map[string]filter.Filter) []string {
	pathFilter, hasPathFilter := filters["archive/path"]

	var out []string
	for _, f := range files {
		if hasPathFilter && !pathFilter.Pass(f) {
			continue
		}
		if classify.Classify(f).Scannable() {
			out = append(out, f)
		}
	}
	return out
}

// prescan runs the single-threaded correlation-indexer pass over every
// scannable file before the parallel scan phase begins.
func prescan(root string, files []string, idx *correlate.Index, sink EventSink) {
	for _, rel := range files {
		abs := filepath.Join(root, rel)
		prescanOneFile(abs, rel, idx, sink)
	}
}

// scanOneFile runs one file through the Scanner on the calling pond worker,
// reporting the per-file timeout with a warning by racing the scan against a
// timer on a separate goroutine. The scanner itself has no cancellation hook, so a
// timeout or a cancelled ctx can only stop waiting early enough to report
// trouble; the scan goroutine keeps running regardless, and this function
// does not return until it actually exits, so events is never written to
// after the caller might close it.
func scanOneFile(ctx context.Context, rel, abs string, bank *patterns.Bank, idx *correlate.Index, opts Options, events chan<- report.Event) {
	if opts.Stats != nil {
		opts.Stats.FileStarted()
		defer opts.Stats.FileFinished()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sc := scanner.New(scanner.Options{
			Bank:               bank,
			Index:              idx,
			MaxFileBytes:       opts.MaxFileBytes,
			MmapThresholdBytes: opts.MmapThresholdBytes,
			ProgressEveryLines: opts.ProgressEveryLines,
		}, &channelSink{events: events})
		sc.ScanFile(rel, abs)
	}()

	timer := time.NewTimer(perFileTimeout)
	defer timer.Stop()

	select {
	case <-done:
		return
	case <-timer.C:
		events <- report.Event{Type: "warning", File: rel, Reason: "per-file timeout exceeded, waiting for scan to finish"}
	case <-ctx.Done():
	}

	// Best-effort only: abandon waiting here and the scan goroutine would
	// still be sending on events after the caller closes it.
	<-done
}

// channelSink adapts scanner.Sink to the engine's bounded fan-in channel.
type channelSink struct {
	events chan<- report.Event
}

func (c *channelSink) Progress(file string, linesProcessed, totalLines int64) {
	pct := 0.0
	if totalLines > 0 {
		pct = float64(linesProcessed) / float64(totalLines) * 100
	}
	c.events <- report.Event{Type: "progress", File: file, LinesProcessed: linesProcessed, TotalLines: totalLines, ProgressPercent: pct}
}

func (c *channelSink) Warning(file, reason string) {
	c.events <- report.Event{Type: "warning", File: file, Reason: reason}
}

func (c *channelSink) Match(m *report.Match) {
	c.events <- report.Event{Type: "match", Data: m}
}

// prescanOneFile opens a file and feeds every line into idx, independent of
// the pattern bank, so the correlation index is complete before the parallel
// scan phase starts looking up related-entry counts.
func prescanOneFile(abs, rel string, idx *correlate.Index, sink EventSink) {
	f, err := os.Open(abs)
	if err != nil {
		sink(report.Event{Type: "warning", File: rel, Reason: fmt.Sprintf("prescan open failed: %s", err)})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("engine: failed to close %s during prescan: %s; ignore", rel, err)
		}
	}()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(rel), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			sink(report.Event{Type: "warning", File: rel, Reason: fmt.Sprintf("prescan gzip header: %s", err)})
			return
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for i := 1; sc.Scan(); i++ {
		idx.Record(rel, i, sc.Text())
	}
}

func loadBank(overlayPath string) (*patterns.Bank, error) {
	return patterns.DefaultWithOverlay(overlayPath)
}
