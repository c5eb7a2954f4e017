// Package meta enriches a raw matched line and its surrounding context into
// the typed fields of a Match: clean message, correlation/request/user/
// project/job/trace ids, HTTP/gRPC error codes, and a format-specific stack
// trace.
package meta

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/weaponry/autogrep/internal/model"
)

// jsonMessageFields are tried in priority order.
// GitLab's structured logs store exception.class/exception.message as flat
// keys containing a literal dot rather than a nested object, so the dot is
// escaped for gjson's path syntax.
var jsonMessageFields = []string{"error_message", `exception\.message`, `exception\.class`, "error", "msg", "message"}

var placeholderValues = map[string]bool{
	"bulk_exception": true,
	"exception":      true,
	"error":          true,
}

// componentExtractors maps a substring of a pattern id to a regex that pulls
// a human-readable message out of a matching line.
var componentExtractors = map[string]*regexp.Regexp{
	"ssl":        regexp.MustCompile(`(?i)ssl[^:]*:\s*(.+)`),
	"timeout":    regexp.MustCompile(`(?i)(timed out|timeout)[^:]*:?\s*(.+)`),
	"connection": regexp.MustCompile(`(?i)connection[^:]*:\s*(.+)`),
	"postgres":   regexp.MustCompile(`(?i)(FATAL|ERROR):\s*(.+)`),
	"grpc":       regexp.MustCompile(`(?i)desc\s*=\s*(.+)`),
	"redis":      regexp.MustCompile(`(?i)redis[^:]*:\s*(.+)`),
	"sidekiq":    regexp.MustCompile(`(?i)sidekiq[^:]*:\s*(.+)`),
}

var genericMessagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(ERROR|FATAL|CRITICAL|error|fail)[:\s]+(.+)`),
	regexp.MustCompile(`(?i)message[:\s]+"?(.+?)"?$`),
	regexp.MustCompile(`(?i)msg[:\s]+"?(.+?)"?$`),
}

// CleanMessage extracts a human-readable message for a match, in the
// following priority order: the line's own JSON, then the first 5
// context lines' JSON, then a component-specific extractor keyed by a
// substring of patternID, then generic regexes, then the pattern's own
// description.
func CleanMessage(line string, contextLines []string, patternID, description string) string {
	if gjson.Valid(line) {
		if msg, ok := jsonMessage(line); ok {
			return msg
		}
	}

	for i, cl := range contextLines {
		if i >= 5 {
			break
		}
		if gjson.Valid(cl) {
			if msg, ok := jsonMessage(cl); ok {
				return msg
			}
		}
	}

	lowerID := strings.ToLower(patternID)
	for key, re := range componentExtractors {
		if strings.Contains(lowerID, key) {
			if m := re.FindStringSubmatch(line); m != nil {
				return strings.TrimSpace(m[len(m)-1])
			}
		}
	}

	for _, re := range genericMessagePatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[len(m)-1])
		}
	}

	if description != "" {
		return description
	}
	if len(line) > 100 {
		return line[:100]
	}
	return line
}

func jsonMessage(line string) (string, bool) {
	for _, field := range jsonMessageFields {
		v := gjson.Get(line, field)
		if !v.Exists() {
			continue
		}
		s := v.String()
		if s == "" || placeholderValues[strings.ToLower(s)] {
			continue
		}
		return s, true
	}
	return "", false
}

var (
	jsonIDField    = func(name string) *regexp.Regexp { return regexp.MustCompile(`"` + name + `"\s*:\s*"([^"]+)"`) }
	kvIDField      = func(name string) *regexp.Regexp { return regexp.MustCompile(`(?i)\b` + name + `\s*=\s*"?([A-Za-z0-9_.\-]+)"?`) }
	httpStatusCode = regexp.MustCompile(`\b([45]\d{2})\s+(Error|Bad|Not)`)
	grpcCode       = regexp.MustCompile(`(?i)code\s*=\s*(\w+)`)
)

// IDFields are the optional identifier fields extracted from a line (and,
// for any left empty, its context lines).
type IDFields struct {
	CorrelationID string
	RequestID     string
	UserID        string
	ProjectID     string
	JobID         string
	TraceID       string
	ErrorCode     string
}

var idFieldSpecs = []struct {
	name string
	set  func(*IDFields, string)
}{
	{"correlation_id", func(f *IDFields, v string) { f.CorrelationID = v }},
	{"request_id", func(f *IDFields, v string) { f.RequestID = v }},
	{"user_id", func(f *IDFields, v string) { f.UserID = v }},
	{"project_id", func(f *IDFields, v string) { f.ProjectID = v }},
	{"job_id", func(f *IDFields, v string) { f.JobID = v }},
	{"trace_id", func(f *IDFields, v string) { f.TraceID = v }},
}

// ExtractIDs fills IDFields from line, falling back to context lines for
// any field line leaves empty.
func ExtractIDs(line string, contextLines []string) IDFields {
	var f IDFields
	extractIDsInto(&f, line)

	for _, cl := range contextLines {
		if f.allSet() {
			break
		}
		var c IDFields
		extractIDsInto(&c, cl)
		for _, p := range [][2]*string{
			{&f.CorrelationID, &c.CorrelationID}, {&f.RequestID, &c.RequestID}, {&f.UserID, &c.UserID},
			{&f.ProjectID, &c.ProjectID}, {&f.JobID, &c.JobID}, {&f.TraceID, &c.TraceID},
		} {
			if *p[0] == "" {
				*p[0] = *p[1]
			}
		}
	}

	if m := httpStatusCode.FindStringSubmatch(line); m != nil {
		f.ErrorCode = m[1]
	} else if m := grpcCode.FindStringSubmatch(line); m != nil {
		f.ErrorCode = m[1]
	}

	return f
}

func (f *IDFields) allSet() bool {
	return f.CorrelationID != "" && f.RequestID != "" && f.UserID != "" &&
		f.ProjectID != "" && f.JobID != "" && f.TraceID != ""
}

func extractIDsInto(f *IDFields, line string) {
	for _, spec := range idFieldSpecs {
		if m := jsonIDField(spec.name).FindStringSubmatch(line); m != nil {
			spec.set(f, m[1])
			continue
		}
		if m := kvIDField(spec.name).FindStringSubmatch(line); m != nil {
			spec.set(f, m[1])
		}
	}
}

// stackPredicates holds the per-format frame predicates used by ExtractStackTrace.
var stackPredicates = map[model.LogFormat]func(string) bool{
	model.FormatPythonTraceback: func(l string) bool {
		return strings.HasPrefix(l, "Traceback") || strings.Contains(l, `File "`) || strings.HasPrefix(l, "  ")
	},
	model.FormatJavaStack: func(l string) bool {
		t := strings.TrimSpace(l)
		return strings.HasPrefix(t, "at ") || strings.Contains(l, "Exception") || strings.HasPrefix(t, "Caused by:")
	},
	model.FormatGoStack: func(l string) bool {
		return strings.Contains(l, "panic:") || strings.Contains(l, "goroutine") || strings.Contains(l, ".go:")
	},
	model.FormatGoPanic: func(l string) bool {
		return strings.Contains(l, "panic:") || strings.Contains(l, "goroutine") || strings.Contains(l, ".go:")
	},
	model.FormatRubyLogger: func(l string) bool {
		return regexp.MustCompile(`from .*:\d+:in`).MatchString(l)
	},
}

// ExtractStackTrace returns the subset of entryLines that make up a stack
// trace for format, using a greedy-until-non-continuation rule.
// Returns nil for formats with no defined stack-trace shape.
func ExtractStackTrace(entryLines []string, format model.LogFormat) []string {
	pred, ok := stackPredicates[format]
	if !ok {
		return nil
	}

	var frames []string
	for _, l := range entryLines {
		if pred(l) {
			frames = append(frames, l)
		} else if len(frames) > 0 {
			break
		}
	}
	return frames
}
