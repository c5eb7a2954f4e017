// Package report holds the data model shared by the scanner, aggregator and
// the engine's event stream: Match, Group, Report, and the JSON event shapes
// (progress, warning, match, done, error) streamed to callers.
package report

// Match is one matched, context-expanded log entry.
type Match struct {
	PatternID    string `json:"pattern_id"`
	Component    string `json:"component"`
	Severity     string `json:"severity"`
	Description  string `json:"description"`
	MatchedText  string `json:"matched_text"`
	CleanMessage string `json:"clean_message"`
	FullLine     string `json:"full_line"`
	FullContext  string `json:"full_context"`

	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`

	Timestamp string `json:"timestamp,omitempty"`
	Node      string `json:"node,omitempty"`

	ContextBefore []string `json:"context_before,omitempty"`
	ContextAfter  []string `json:"context_after,omitempty"`

	CorrelationID string `json:"correlation_id,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	ProjectID     string `json:"project_id,omitempty"`
	JobID         string `json:"job_id,omitempty"`
	TraceID       string `json:"trace_id,omitempty"`

	ErrorCode   string            `json:"error_code,omitempty"`
	StackTrace  []string          `json:"stack_trace,omitempty"`
	JSONFields  map[string]string `json:"json_fields,omitempty"`
	Signature   string            `json:"signature"`
	Confidence  float64           `json:"confidence"`
}

// Group is a cluster of Matches sharing a signature.
type Group struct {
	Signature      string   `json:"signature"`
	Count          int      `json:"count"`
	FirstMessage   string   `json:"first_message"`
	Severity       string   `json:"severity"`
	Component      string   `json:"component"`
	PatternID      string   `json:"pattern_id"`
	SampleMatches  []*Match `json:"sample_matches,omitempty"`
	Files          []string `json:"files"`
	HasCorrelation bool     `json:"has_correlation"`
	HasStackTrace  bool     `json:"has_stack_trace"`
}

// Summary holds the terminal run counters.
type Summary struct {
	FilesProcessed int   `json:"files_processed"`
	LinesProcessed int64 `json:"lines_processed"`
	ErrorsFound    int   `json:"errors_found"`
	DurationMs     int64 `json:"duration_ms"`
}

// Report is the terminal output of one run, produced by the aggregator.
type Report struct {
	Summary           Summary          `json:"summary"`
	TotalsBySeverity  map[string]int   `json:"totals_by_severity"`
	TotalsByComponent map[string]int   `json:"totals_by_component"`
	Groups            []*Group         `json:"groups"`
	TopErrors         []*Group         `json:"top_errors"`
}

// Event is the envelope for the streaming JSON API. Only the fields of the
// group that Type selects are populated.
type Event struct {
	Type string `json:"type"` // progress | warning | match | done | error

	// progress
	File            string  `json:"file,omitempty"`
	LinesProcessed  int64   `json:"lines_processed,omitempty"`
	TotalLines      int64   `json:"total_lines,omitempty"`
	ProgressPercent float64 `json:"progress_percent,omitempty"`

	// warning / error
	Reason string `json:"reason,omitempty"`

	// match
	Data *Match `json:"data,omitempty"`

	// done
	FinalSummary *Summary `json:"summary,omitempty"`
}
