// Package aggregate folds a stream of report.Match records into the final
// report.Report: per-signature grouping, per-severity/per-component totals,
// and the top-10 errors list. Single-consumer by design — never share an
// Aggregator across goroutines; channel matches into it instead.
package aggregate

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"sort"

	"github.com/weaponry/autogrep/internal/report"
)

var (
	isoTimestampRE = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}`)
	uuidRE         = regexp.MustCompile(`[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`)
	bareIntRE      = regexp.MustCompile(`\b\d+\b`)
)

// Signature computes the 16-hex-character fingerprint of a match:
// normalize the clean message (timestamps → TIMESTAMP, UUIDs →
// UUID, bare integers → N), truncate to 100 characters, then
// MD5(component:pattern_id:normalized)[:16].
func Signature(component, patternID, cleanMessage string) string {
	normalized := isoTimestampRE.ReplaceAllString(cleanMessage, "TIMESTAMP")
	normalized = uuidRE.ReplaceAllString(normalized, "UUID")
	normalized = bareIntRE.ReplaceAllString(normalized, "N")
	if len(normalized) > 100 {
		normalized = normalized[:100]
	}

	sum := md5.Sum([]byte(component + ":" + patternID + ":" + normalized))
	return hex.EncodeToString(sum[:])[:16]
}

// Aggregator is the single-consumer fold target. Not safe for concurrent use
// — the engine feeds it matches from one goroutine only.
type Aggregator struct {
	groups     map[string]*report.Group
	order      []string // insertion order, for deterministic iteration before sort
	bySeverity map[string]int
	byComponent map[string]int
	errorsFound int
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		groups:      make(map[string]*report.Group),
		bySeverity:  make(map[string]int),
		byComponent: make(map[string]int),
	}
}

// Add folds one match into the aggregator's running state.
func (a *Aggregator) Add(m *report.Match) {
	if m.Signature == "" {
		m.Signature = Signature(m.Component, m.PatternID, m.CleanMessage)
	}

	a.errorsFound++
	a.bySeverity[m.Severity]++
	a.byComponent[m.Component]++

	g, ok := a.groups[m.Signature]
	if !ok {
		g = &report.Group{
			Signature:    m.Signature,
			FirstMessage: m.CleanMessage,
			Severity:     m.Severity,
			Component:    m.Component,
			PatternID:    m.PatternID,
		}
		a.groups[m.Signature] = g
		a.order = append(a.order, m.Signature)
	}

	g.Count++
	addFile(g, m.FilePath)
	if len(g.SampleMatches) < 3 {
		g.SampleMatches = append(g.SampleMatches, m)
	}
	if m.CorrelationID != "" {
		g.HasCorrelation = true
	}
	if len(m.StackTrace) > 0 {
		g.HasStackTrace = true
	}
}

func addFile(g *report.Group, file string) {
	for _, f := range g.Files {
		if f == file {
			return
		}
	}
	g.Files = append(g.Files, file)
}

// Finalize builds the terminal Report: groups sorted by signature for
// determinism, top_errors the first 10 by count desc (ties broken by
// signature), and errors_found recomputed from the match stream rather than
// trusted from any per-worker counter.
func (a *Aggregator) Finalize() *report.Report {
	groups := make([]*report.Group, 0, len(a.groups))
	for _, sig := range a.order {
		groups = append(groups, a.groups[sig])
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Signature < groups[j].Signature })

	top := append([]*report.Group(nil), groups...)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Signature < top[j].Signature
	})
	if len(top) > 10 {
		top = top[:10]
	}

	return &report.Report{
		Summary: report.Summary{
			ErrorsFound: a.errorsFound,
		},
		TotalsBySeverity:  a.bySeverity,
		TotalsByComponent: a.byComponent,
		Groups:            groups,
		TopErrors:         top,
	}
}

// ErrorsFound returns Σ groups[s].count, the running total matches processed
// so far — exported so the orchestrator can implement --max-matches
// cancellation without waiting for Finalize.
func (a *Aggregator) ErrorsFound() int { return a.errorsFound }
