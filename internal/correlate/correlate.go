// Package correlate builds the correlation-ID index: a single pass over
// every log-suitable file that records where each correlation/request/job/
// trace ID occurs, so a later Match can report "this id appears N other
// places".
package correlate

import (
	"regexp"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// maxOccurrencesPerID caps memory: the index is a hint, not a ledger.
const maxOccurrencesPerID = 10000

// Occurrence is one place an id was seen.
type Occurrence struct {
	File string
	Line int
	Raw  string
}

// Index is the built correlation-ID index. Safe for concurrent read access
// once the prescan completes; never mutated afterward.
type Index struct {
	mu   sync.Mutex
	ids  map[string][]Occurrence
	caps map[string]bool // true once an id's list has hit maxOccurrencesPerID
}

// New returns an empty, writable index. Writers should only use it during
// the single-threaded prescan phase; Count/Occurrences are safe to call
// concurrently once the prescan completes.
func New() *Index {
	return &Index{
		ids:  make(map[string][]Occurrence),
		caps: make(map[string]bool),
	}
}

// Record indexes one line's extracted ids. Called once per line during the
// prescan phase, before any parallel scanning starts.
func (idx *Index) Record(file string, line int, raw string) {
	for _, id := range extractIDs(raw) {
		idx.record(id, file, line, raw)
	}
}

func (idx *Index) record(id, file string, line int, raw string) {
	if len(id) <= 5 {
		return
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.caps[id] {
		return
	}
	occ := append(idx.ids[id], Occurrence{File: file, Line: line, Raw: raw})
	if len(occ) >= maxOccurrencesPerID {
		idx.caps[id] = true
	}
	idx.ids[id] = occ
}

// Count returns the number of recorded occurrences of id.
func (idx *Index) Count(id string) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.ids[id])
}

// Occurrences returns every recorded occurrence of id.
func (idx *Index) Occurrences(id string) []Occurrence {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.ids[id]
}

var (
	jsonIDFields = []string{"correlation_id", "request_id", "job_id", "trace_id"}

	kvPattern = regexp.MustCompile(`(?i)\b(correlation_id|request_id|job_id)\s*=\s*"?([A-Za-z0-9_.\-]+)"?`)

	headerPattern = regexp.MustCompile(`(?i)(?:^|"|\s)(RequestId|X-Request-Id|x-request-id)"?\s*[:=]\s*"?([A-Za-z0-9_.\-]+)"?`)
)

// extractIDs runs all three extractors over a raw line — every finding is
// kept, not just the first.
func extractIDs(line string) []string {
	var out []string

	if gjson.Valid(line) {
		for _, field := range jsonIDFields {
			if v := gjson.Get(line, field); v.Exists() && v.String() != "" {
				out = append(out, v.String())
			}
		}
	}

	for _, m := range kvPattern.FindAllStringSubmatch(line, -1) {
		out = append(out, m[2])
	}

	for _, m := range headerPattern.FindAllStringSubmatch(line, -1) {
		out = append(out, m[2])
	}

	return out
}

// ExtractCorrelationID returns the first correlation-like id found on a
// line, without needing the whole index.
func ExtractCorrelationID(line string) (string, bool) {
	ids := extractIDs(line)
	if len(ids) == 0 {
		return "", false
	}
	return strings.TrimSpace(ids[0]), true
}
