// Package patterns holds the immutable catalogue of failure-detection rules
// (the pattern bank) plus the literal prefilter that protects the regexp
// engine from running against lines that cannot possibly match.
package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/weaponry/autogrep/internal/model"
	"github.com/weaponry/autogrep/internal/patterns/prefilter"
)

// seedTokens are always added to the prefilter automaton regardless of what
// the catalogue's regexes derive.
var seedTokens = []string{
	"error", "fail", "fatal", "panic", "exception", "critical", "timeout",
	"refused", "unavailable", "abort", "crash", "corrupt", "invalid", "violation",
}

// metaChars are stripped out of a regex source before deriving literal tokens
// for the prefilter.
var metaChars = strings.NewReplacer(
	"\\s", " ", "\\d", " ", "\\w", " ", "\\S", " ", "\\W", " ", "\\D", " ",
	"[", " ", "]", " ", "(", " ", ")", " ", "{", " ", "}", " ", "|", " ",
	"+", " ", "*", " ", "?", " ", "^", " ", "$", " ", ".", " ", "\\", " ",
	"\"", " ", "'", " ",
)

// Matcher is the interface implemented by every matching engine a Pattern can
// use. Today only compiled regexps implement it, but the interface keeps the
// door open for other engines (e.g. a literal-only fast path) without
// touching the Bank's public surface.
type Matcher interface {
	// Find returns the matched substring and true if line matches, else ("", false).
	Find(line string) (string, bool)
}

// regexMatcher adapts *regexp.Regexp to the Matcher interface.
type regexMatcher struct{ re *regexp.Regexp }

func (m regexMatcher) Find(line string) (string, bool) {
	loc := m.re.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	return line[loc[0]:loc[1]], true
}

// Pattern is an immutable rule in the bank. Once added to a Bank it is never
// mutated; Bank.Build derives the prefilter automaton from the full set.
type Pattern struct {
	ID          string
	Source      string // raw regex source, case-insensitive/multiline flags applied at compile time
	Component   model.Component
	Category    string
	Severity    model.Severity
	Priority    int // 1..10, higher tried first
	Multiline   bool
	Description string

	matcher Matcher
}

// Find runs the pattern's compiled matcher against a line.
func (p *Pattern) Find(line string) (string, bool) {
	return p.matcher.Find(line)
}

// compile builds the case-insensitive, multi-line regexp for a pattern.
func compile(source string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?im)` + source)
}

// literalTokens extracts candidate literal tokens (length > 3) from a regex
// source by stripping metacharacters and splitting on whitespace.
func literalTokens(source string) []string {
	cleaned := metaChars.Replace(source)
	fields := strings.Fields(cleaned)

	var tokens []string
	for _, f := range fields {
		f = strings.ToLower(f)
		if len(f) > 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Bank is the immutable catalogue of patterns. Built once at startup via
// Build and never mutated afterward; safe for concurrent read access by many
// scanner workers.
type Bank struct {
	patterns []*Pattern
	byKey    map[string]*Pattern // "component:id" -> pattern, enforces uniqueness
	byID     map[string][]*Pattern
	pf       *prefilter.Automaton
	built    bool
}

// NewBank creates an empty, unbuilt Bank.
func NewBank() *Bank {
	return &Bank{
		byKey: make(map[string]*Pattern),
		byID:  make(map[string][]*Pattern),
	}
}

// Add registers a pattern definition. Must be called before Build.
func (b *Bank) Add(def Pattern) error {
	if b.built {
		return fmt.Errorf("patterns: cannot add pattern %q after Build", def.ID)
	}
	if def.ID == "" {
		return fmt.Errorf("patterns: pattern must have a non-empty id")
	}

	key := string(def.Component) + ":" + def.ID
	if _, ok := b.byKey[key]; ok {
		return fmt.Errorf("patterns: duplicate pattern id %q for component %q", def.ID, def.Component)
	}

	re, err := compile(def.Source)
	if err != nil {
		return fmt.Errorf("patterns: pattern %q failed to compile: %w", def.ID, err)
	}

	p := def
	p.matcher = regexMatcher{re: re}

	b.patterns = append(b.patterns, &p)
	b.byKey[key] = &p
	b.byID[def.ID] = append(b.byID[def.ID], &p)
	return nil
}

// Build finalizes the bank: it adds the seed tokens and every pattern's
// derived literal tokens to the prefilter automaton and constructs it. A
// pattern that derives no literal token is not rejected. Build is idempotent.
func (b *Bank) Build() error {
	if b.built {
		return nil
	}

	pf := prefilter.New()
	for _, tok := range seedTokens {
		pf.AddToken(tok)
	}

	for _, p := range b.patterns {
		toks := literalTokens(p.Source)
		for _, t := range toks {
			pf.AddToken(t)
		}
	}

	pf.Build()
	b.pf = pf
	b.built = true
	return nil
}

// Prefilter returns the built literal-token automaton. Only valid after Build.
func (b *Bank) Prefilter() *prefilter.Automaton { return b.pf }

// ByID returns every pattern registered under id (patterns are keyed
// (component, id), so a bare id may be shared across components).
func (b *Bank) ByID(id string) []*Pattern { return b.byID[id] }

// Len returns the total number of patterns in the bank.
func (b *Bank) Len() int { return len(b.patterns) }

// All returns every pattern in the bank, in registration order.
func (b *Bank) All() []*Pattern { return b.patterns }

// RelevantFor returns the patterns relevant to a file path, sorted by
// (priority desc, severity rank asc, id asc). Patterns whose
// component is always-included (System/OS, Network, Generic) are present for
// every path; CRITICAL-severity patterns are included regardless of path.
func (b *Bank) RelevantFor(path string) []*Pattern {
	components := componentsForPath(path)

	var out []*Pattern
	for _, p := range b.patterns {
		if p.Severity == model.SeverityCritical || components[p.Component] {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, c := out[i], out[j]
		if a.Priority != c.Priority {
			return a.Priority > c.Priority
		}
		ra, rc := model.Rank(a.Severity), model.Rank(c.Severity)
		if ra != rc {
			return ra < rc
		}
		return a.ID < c.ID
	})
	return out
}
