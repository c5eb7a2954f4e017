// Package stats exposes the orchestrator's live counters (queue depth,
// files in flight, lines/sec, matches found) as an optional
// prometheus.Collector, purely for in-process introspection — nothing in
// the engine requires a caller to register it.
package stats

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/weaponry/autogrep/internal/log"
)

const namespace = "autogrep"

// typedDesc pairs a prometheus.Desc with the value type used to build its
// constant metric, so every Collect call stays a one-liner.
type typedDesc struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
}

func (d typedDesc) newConstMetric(value float64, labels ...string) prometheus.Metric {
	m, err := prometheus.NewConstMetric(d.desc, d.valueType, value, labels...)
	if err != nil {
		log.Errorf("stats: create const metric failed: %s; skip. Failed metric descriptor: %s", err, d.desc.String())
	}
	return m
}

// Stats holds the counters the engine updates as it works. Safe for
// concurrent use: every field is accessed through sync/atomic.
type Stats struct {
	queueDepth     int64
	filesInFlight  int64
	linesProcessed int64
	matchesFound   int64
	started        time.Time

	queueDepthDesc    typedDesc
	filesInFlightDesc typedDesc
	linesPerSecDesc   typedDesc
	matchesFoundDesc  typedDesc
}

// New returns a Stats instance with its clock started at the current time.
func New() *Stats {
	return &Stats{
		started: time.Now(),
		queueDepthDesc: typedDesc{
			desc:      prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "queue_depth"), "Number of events currently buffered in the fan-in channel.", nil, nil),
			valueType: prometheus.GaugeValue,
		},
		filesInFlightDesc: typedDesc{
			desc:      prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "files_in_flight"), "Number of files currently being scanned.", nil, nil),
			valueType: prometheus.GaugeValue,
		},
		linesPerSecDesc: typedDesc{
			desc:      prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "lines_per_second"), "Lines processed per second since the run started.", nil, nil),
			valueType: prometheus.GaugeValue,
		},
		matchesFoundDesc: typedDesc{
			desc:      prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "matches_found_total"), "Total matches recorded so far.", nil, nil),
			valueType: prometheus.CounterValue,
		},
	}
}

// SetQueueDepth records the current fan-in channel occupancy.
func (s *Stats) SetQueueDepth(n int) { atomic.StoreInt64(&s.queueDepth, int64(n)) }

// FileStarted increments the in-flight file counter.
func (s *Stats) FileStarted() { atomic.AddInt64(&s.filesInFlight, 1) }

// FileFinished decrements the in-flight file counter.
func (s *Stats) FileFinished() { atomic.AddInt64(&s.filesInFlight, -1) }

// SetLines records the cumulative number of lines processed so far.
func (s *Stats) SetLines(n int64) { atomic.StoreInt64(&s.linesProcessed, n) }

// AddMatch increments the running match counter.
func (s *Stats) AddMatch() { atomic.AddInt64(&s.matchesFound, 1) }

// Describe implements prometheus.Collector.
func (s *Stats) Describe(ch chan<- *prometheus.Desc) {
	ch <- s.queueDepthDesc.desc
	ch <- s.filesInFlightDesc.desc
	ch <- s.linesPerSecDesc.desc
	ch <- s.matchesFoundDesc.desc
}

// Collect implements prometheus.Collector.
func (s *Stats) Collect(ch chan<- prometheus.Metric) {
	elapsed := time.Since(s.started).Seconds()
	lines := atomic.LoadInt64(&s.linesProcessed)

	var lps float64
	if elapsed > 0 {
		lps = float64(lines) / elapsed
	}

	ch <- s.queueDepthDesc.newConstMetric(float64(atomic.LoadInt64(&s.queueDepth)))
	ch <- s.filesInFlightDesc.newConstMetric(float64(atomic.LoadInt64(&s.filesInFlight)))
	ch <- s.linesPerSecDesc.newConstMetric(lps)
	ch <- s.matchesFoundDesc.newConstMetric(float64(atomic.LoadInt64(&s.matchesFound)))
}
