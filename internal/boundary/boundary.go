// Package boundary expands a single matched line into the full logical log
// entry (stack trace, JSON blob, Ruby/Go/Python/Java multi-line record) it
// belongs to.
package boundary

import (
	"regexp"
	"strings"

	"github.com/weaponry/autogrep/internal/model"
)

const (
	maxBackwardWalk = 100
	maxForwardWalk  = 200
)

var (
	startPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}.{0,20}(ERROR|FATAL|CRITICAL)`),
		regexp.MustCompile(`^[EI], \[\d{4}-\d{2}-\d{2}`), // Ruby logger
		regexp.MustCompile(`^Traceback \(most recent call last\)`),
		regexp.MustCompile(`^Exception in thread`),
		regexp.MustCompile(`^panic:`),
		regexp.MustCompile(`^goroutine \d+`),
		regexp.MustCompile(`^\{"level":"|^\{"severity":"`),
		regexp.MustCompile(`^(FATAL|PANIC):`),
	}

	continuationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^  at `),
		regexp.MustCompile(`^  File ".*", line \d+`),
		regexp.MustCompile(`^\s*from .*:\d+:in`),
		regexp.MustCompile(`.*\.go:\d+`),
		regexp.MustCompile(`^\s*Caused by:`),
		regexp.MustCompile(`^ {2,}\S`), // any line starting with >=2 spaces then non-space
		regexp.MustCompile(`\.\.\.\s*$`),
	}

	endPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}.{0,20}(INFO|DEBUG|TRACE)`),
		regexp.MustCompile(`^\w[\w\s]*:\s*$`), // section-header-style line
	}

	jsonStart   = regexp.MustCompile(`^\{"level":"|^\{"severity":"`)
	pythonStart = regexp.MustCompile(`^Traceback \(most recent call last\)`)
	goStart     = regexp.MustCompile(`^panic:|^goroutine \d+`)
	rubyStart   = regexp.MustCompile(`^[EI], \[\d{4}-\d{2}-\d{2}`)
	javaStart   = regexp.MustCompile(`^Exception in thread`)
)

// LineAccessor provides random access to a file's lines. Regular-mode
// scanning backs it with a fully buffered slice; mmap mode backs it with the
// lines decoded from the current chunk only, so Len reflects chunk-local
// bounds rather than the whole file.
type LineAccessor interface {
	Line(i int) string
	Len() int
}

// SliceAccessor adapts a plain []string to LineAccessor.
type SliceAccessor []string

func (s SliceAccessor) Line(i int) string { return s[i] }
func (s SliceAccessor) Len() int          { return len(s) }

func isContinuation(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	for _, re := range continuationPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func isStart(line string) bool {
	for _, re := range startPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func isEnd(line string) bool {
	for _, re := range endPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// detectFormat classifies line i's format.
func detectFormat(line string) model.LogFormat {
	switch {
	case jsonStart.MatchString(line):
		return model.FormatJSONLevel
	case pythonStart.MatchString(line):
		return model.FormatPythonTraceback
	case goStart.MatchString(line):
		if strings.HasPrefix(line, "panic:") {
			return model.FormatGoPanic
		}
		return model.FormatGoStack
	case rubyStart.MatchString(line):
		return model.FormatRubyLogger
	case javaStart.MatchString(line):
		return model.FormatJavaStack
	case strings.HasPrefix(line, "FATAL:"):
		return model.FormatBareFatal
	case strings.HasPrefix(line, "PANIC:"):
		return model.FormatBarePanic
	default:
		return model.FormatText
	}
}

// Detect walks backward and forward from line i to find the start and end of
// the logical entry it belongs to.
func Detect(lines LineAccessor, i int) (start, end int, format model.LogFormat) {
	n := lines.Len()
	format = detectFormat(lines.Line(i))

	start = i
	if i == 0 || isStart(lines.Line(i)) {
		// Line i opens its own entry; nothing before it belongs to it.
		start = i
	} else {
		steps := 0
		for start > 0 && steps < maxBackwardWalk {
			prev := lines.Line(start - 1)
			if isStart(prev) {
				// The entry's opening line is part of the entry.
				start--
				break
			}
			if isContinuation(prev) {
				start--
				steps++
				continue
			}
			if strings.TrimSpace(prev) == "" {
				// An isolated blank line only extends the entry if the line
				// before it is itself a continuation.
				if start-2 >= 0 && isContinuation(lines.Line(start-2)) {
					start--
					steps++
					continue
				}
			}
			break
		}
	}

	end = i
	steps := 0
	for end+1 < n && steps < maxForwardWalk {
		next := lines.Line(end + 1)
		if isEnd(next) {
			break
		}
		if strings.TrimSpace(next) == "" && !isContinuation(lines.Line(end)) {
			// A blank line ends the entry unless the line before it is a
			// continuation.
			break
		}
		if isContinuation(next) || strings.TrimSpace(next) == "" {
			end++
			steps++
			continue
		}
		break
	}
	if steps >= maxForwardWalk {
		end = i + maxForwardWalk
		if end >= n {
			end = n - 1
		}
	}

	if end < start {
		end = start
	}
	return start, end, format
}

// JoinContext concatenates lines[start..end] (inclusive) with newlines, the
// full_context field of a Match.
func JoinContext(lines LineAccessor, start, end int) string {
	var b strings.Builder
	for i := start; i <= end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		b.WriteString(lines.Line(i))
	}
	return b.String()
}
