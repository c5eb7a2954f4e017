// Package scanner implements the file scanner: for one file, stream its
// lines, run the prefilter + pattern bank, reconstruct multi-line context via
// the boundary detector, enrich via the metadata extractor, and emit Match
// and progress/warning events.
package scanner

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"

	"github.com/weaponry/autogrep/internal/aggregate"
	"github.com/weaponry/autogrep/internal/boundary"
	"github.com/weaponry/autogrep/internal/classify"
	"github.com/weaponry/autogrep/internal/correlate"
	"github.com/weaponry/autogrep/internal/falsepositive"
	"github.com/weaponry/autogrep/internal/log"
	"github.com/weaponry/autogrep/internal/meta"
	"github.com/weaponry/autogrep/internal/model"
	"github.com/weaponry/autogrep/internal/patterns"
	"github.com/weaponry/autogrep/internal/report"
)

const (
	ringSize            = 10
	contextBeforeLines  = 5
	contextAfterLines   = 5
	progressEveryLines  = 1000
	defaultMmapThresh   = 50 << 20  // 50 MiB
	defaultMaxFileBytes = 10 << 30 // 10 GiB
)

// Sink receives events produced while scanning one file. Implementations
// must be safe to call from multiple worker goroutines concurrently (the
// engine fans them into a single consumer internally).
type Sink interface {
	Progress(file string, linesProcessed, totalLines int64)
	Warning(file, reason string)
	Match(m *report.Match)
}

// Options configures one Scanner instance.
type Options struct {
	Bank                *patterns.Bank
	Index               *correlate.Index
	MaxFileBytes        int64
	MmapThresholdBytes  int64
	ProgressEveryLines  int64
}

// Scanner binds the options and sink used to scan files one at a time. The
// per-file state (ring buffer, processed set) lives inside each scan call.
// Create one per worker — never share a Scanner across goroutines.
type Scanner struct {
	opts Options
	sink Sink
}

// New returns a Scanner bound to opts and sink. opts.Bank, opts.Index and
// the FalsePositiveFilter/BoundaryDetector packages are read-only and safe
// to share across many Scanners.
func New(opts Options, sink Sink) *Scanner {
	if opts.MaxFileBytes == 0 {
		opts.MaxFileBytes = defaultMaxFileBytes
	}
	if opts.MmapThresholdBytes == 0 {
		opts.MmapThresholdBytes = defaultMmapThresh
	}
	if opts.ProgressEveryLines == 0 {
		opts.ProgressEveryLines = progressEveryLines
	}
	return &Scanner{opts: opts, sink: sink}
}

// ScanFile processes one file, relative path displayPath used in emitted
// Match/event records, absPath the actual file to open.
func (s *Scanner) ScanFile(displayPath, absPath string) {
	class := classify.Classify(displayPath)
	if !class.Scannable() {
		return
	}
	if falsepositive.ShouldSkipFile(displayPath) {
		return
	}

	info, err := os.Stat(absPath)
	if err != nil {
		s.sink.Warning(displayPath, fmt.Sprintf("stat failed: %s", err))
		return
	}
	if info.Size() > s.opts.MaxFileBytes {
		s.sink.Warning(displayPath, fmt.Sprintf("file exceeds max_file_bytes (%d > %d)", info.Size(), s.opts.MaxFileBytes))
		return
	}

	isGz := strings.HasSuffix(strings.ToLower(displayPath), ".gz")
	if !isGz && info.Size() > s.opts.MmapThresholdBytes {
		s.scanMmap(displayPath, absPath)
		return
	}
	s.scanRegular(displayPath, absPath, isGz)
}

func (s *Scanner) scanRegular(displayPath, absPath string, isGz bool) {
	f, err := os.Open(absPath)
	if err != nil {
		s.sink.Warning(displayPath, fmt.Sprintf("open failed: %s", err))
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("scanner: failed to close %s: %s; ignore", displayPath, err)
		}
	}()

	var reader interface {
		Read(p []byte) (int, error)
	} = f
	if isGz {
		gz, err := gzip.NewReader(f)
		if err != nil {
			s.sink.Warning(displayPath, fmt.Sprintf("bad gzip header: %s", err))
			return
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, toValidUTF8(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		s.sink.Warning(displayPath, fmt.Sprintf("read failed: %s", err))
		return
	}

	s.indexLines(displayPath, lines)
	s.scanLines(displayPath, boundary.SliceAccessor(lines), len(lines), false)
}

// scanMmap handles files above MmapThresholdBytes that aren't gzipped:
// map the file read-only and walk it in fixed-size chunks extended to the
// next newline. Line numbers and context_after are not
// available in this mode; only context_before via the ring is provided.
func (s *Scanner) scanMmap(displayPath, absPath string) {
	f, err := os.Open(absPath)
	if err != nil {
		s.sink.Warning(displayPath, fmt.Sprintf("open failed: %s", err))
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("scanner: failed to close %s: %s; ignore", displayPath, err)
		}
	}()

	data, err := mmapFile(f)
	if err != nil {
		s.sink.Warning(displayPath, fmt.Sprintf("mmap failed: %s", err))
		return
	}
	defer func() {
		if err := munmapFile(data); err != nil {
			log.Warnf("scanner: failed to unmap %s: %s; ignore", displayPath, err)
		}
	}()

	const chunkSize = 10 << 20
	var processedBytes int64
	total := int64(len(data))

	for offset := 0; offset < len(data); {
		end := offset + chunkSize
		if end >= len(data) {
			end = len(data)
		} else {
			// Extend to the next newline so no line is split across chunks.
			for end < len(data) && data[end] != '\n' {
				end++
			}
			if end < len(data) {
				end++ // include the newline
			}
		}

		chunk := data[offset:end]
		lines := strings.Split(toValidUTF8(string(chunk)), "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}

		s.indexLines(displayPath, lines)
		s.scanLines(displayPath, boundary.SliceAccessor(lines), len(lines), true)

		processedBytes += int64(end - offset)
		s.sink.Progress(displayPath, processedBytes, total)
		offset = end
	}
}

func toValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}

func (s *Scanner) indexLines(displayPath string, lines []string) {
	if s.opts.Index == nil {
		return
	}
	for i, l := range lines {
		s.opts.Index.Record(displayPath, i+1, l)
	}
}

// scanLines runs the prefilter + pattern bank + boundary detector over an
// already-materialized line accessor, emitting Match and progress events.
// mmap is true when lines only covers a forward-only chunk: line numbers are
// reported as 0 and context_after is left empty.
func (s *Scanner) scanLines(displayPath string, lines boundary.LineAccessor, total int, mmap bool) {
	relevant := s.opts.Bank.RelevantFor(displayPath)
	pf := s.opts.Bank.Prefilter()
	node := nodeFromPath(displayPath)

	var ring []string
	processed := make(map[int]bool, 64)

	for i := 0; i < total; i++ {
		line := lines.Line(i)

		if processed[i] {
			ring = pushRing(ring, line)
			continue
		}

		lower := strings.ToLower(line)
		if pf != nil && !pf.Any(lower) {
			ring = pushRing(ring, line)
			continue
		}

		if falsepositive.IsFalsePositive(line) {
			ring = pushRing(ring, line)
			continue
		}

		if p, matched, matchedText := firstMatch(relevant, line); matched {
			start, end, format := boundary.Detect(lines, i)
			for j := start; j <= end; j++ {
				processed[j] = true
			}

			fullContext := boundary.JoinContext(lines, start, end)
			m := s.buildMatch(p, displayPath, node, i, lines, start, end, format, matchedText, fullContext, ring, mmap)
			s.sink.Match(m)
		}

		ring = pushRing(ring, line)

		if int64(i+1)%s.opts.ProgressEveryLines == 0 {
			s.sink.Progress(displayPath, int64(i+1), int64(total))
		}
	}
}

func firstMatch(relevant []*patterns.Pattern, line string) (*patterns.Pattern, bool, string) {
	for _, p := range relevant {
		if text, ok := p.Find(line); ok {
			return p, true, text
		}
	}
	return nil, false, ""
}

func pushRing(ring []string, line string) []string {
	ring = append(ring, line)
	if len(ring) > ringSize {
		ring = ring[len(ring)-ringSize:]
	}
	return ring
}

func (s *Scanner) buildMatch(p *patterns.Pattern, displayPath, node string, i int, lines boundary.LineAccessor, start, end int, format model.LogFormat, matchedText, fullContext string, ring []string, mmap bool) *report.Match {
	entryLines := make([]string, 0, end-start+1)
	for j := start; j <= end; j++ {
		entryLines = append(entryLines, lines.Line(j))
	}

	contextBefore := lastN(ring, contextBeforeLines)
	var contextAfter []string
	if !mmap {
		contextAfter = nextN(lines, end, contextAfterLines)
	}

	clean := meta.CleanMessage(lines.Line(i), append(append([]string{}, contextBefore...), contextAfter...), p.ID, p.Description)
	ids := meta.ExtractIDs(lines.Line(i), append(append([]string{}, contextBefore...), contextAfter...))

	m := &report.Match{
		PatternID:     p.ID,
		Component:     string(p.Component),
		Severity:      string(p.Severity),
		Description:   p.Description,
		MatchedText:   matchedText,
		CleanMessage:  clean,
		FullLine:      lines.Line(i),
		FullContext:   fullContext,
		FilePath:      displayPath,
		LineNumber:    lineNumberFor(i, mmap),
		Node:          node,
		ContextBefore: contextBefore,
		ContextAfter:  contextAfter,
		CorrelationID: ids.CorrelationID,
		RequestID:     ids.RequestID,
		UserID:        ids.UserID,
		ProjectID:     ids.ProjectID,
		JobID:         ids.JobID,
		TraceID:       ids.TraceID,
		ErrorCode:     ids.ErrorCode,
		Confidence:    1.0,
	}

	if stackFormats[format] {
		m.StackTrace = meta.ExtractStackTrace(entryLines, format)
	}

	if m.CorrelationID != "" && s.opts.Index != nil {
		count := s.opts.Index.Count(m.CorrelationID)
		if count > 0 {
			m.JSONFields = map[string]string{"related_entries_count": strconv.Itoa(count)}
		}
	}

	m.Signature = aggregate.Signature(m.Component, m.PatternID, m.CleanMessage)
	return m
}

var stackFormats = map[model.LogFormat]bool{
	model.FormatPythonTraceback: true,
	model.FormatJavaStack:       true,
	model.FormatGoStack:         true,
	model.FormatGoPanic:         true,
	model.FormatRubyLogger:      true,
}

// lineNumberFor returns 1-based line numbers in regular mode; mmap mode
// cannot track absolute line numbers across chunk boundaries, so it always
// reports 0.
func lineNumberFor(i int, mmap bool) int {
	if mmap {
		return 0
	}
	return i + 1
}

func lastN(ring []string, n int) []string {
	if len(ring) <= n {
		return append([]string(nil), ring...)
	}
	return append([]string(nil), ring[len(ring)-n:]...)
}

func nextN(lines boundary.LineAccessor, from int, n int) []string {
	var out []string
	for i := from + 1; i < lines.Len() && len(out) < n; i++ {
		out = append(out, lines.Line(i))
	}
	return out
}

// nodeFromPath derives the Match.node field: the first name in a fixed list
// of component names that occurs anywhere in the lowercased display path, or
// "" if none does.
func nodeFromPath(path string) string {
	lower := strings.ToLower(path)
	for _, seg := range []string{"praefect", "gitaly", "postgres", "pgbouncer", "redis", "sidekiq", "rails", "workhorse", "nginx", "geo", "kube"} {
		if strings.Contains(lower, seg) {
			return seg
		}
	}
	return ""
}
