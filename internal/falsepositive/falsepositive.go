// Package falsepositive implements the two cheap predicates run before any
// regex pattern touches a line: should this whole file be skipped, and does
// this particular line merely look like an error.
package falsepositive

import (
	"path/filepath"
	"regexp"
	"strings"
)

var schemaFiles = []*regexp.Regexp{
	regexp.MustCompile(`^schema\.rb$`),
	regexp.MustCompile(`^structure\.sql$`),
	regexp.MustCompile(`schema_dump`),
}

var systemInfoFiles = []*regexp.Regexp{
	regexp.MustCompile(`^top_`),
	regexp.MustCompile(`^df_`),
	regexp.MustCompile(`^iostat`),
	regexp.MustCompile(`^sar_`),
	regexp.MustCompile(`^ps`),
	regexp.MustCompile(`^netstat`),
	regexp.MustCompile(`^ss$`),
	regexp.MustCompile(`^vmstat`),
	regexp.MustCompile(`^free`),
}

var configFiles = regexp.MustCompile(`\.(conf|ya?ml|ini)$`)

var diagnosticFiles = []*regexp.Regexp{
	regexp.MustCompile(`_check$`),
	regexp.MustCompile(`^doctor\.rb$`),
	regexp.MustCompile(`verify`),
}

// ShouldSkipFile reports whether path's basename classifies it as a schema
// dump, system-info snapshot, config file, or diagnostic script — none of
// which are worth regex scanning.
func ShouldSkipFile(path string) bool {
	base := filepath.Base(path)

	for _, re := range schemaFiles {
		if re.MatchString(base) {
			return true
		}
	}
	for _, re := range systemInfoFiles {
		if re.MatchString(base) {
			return true
		}
	}
	if configFiles.MatchString(base) && !strings.Contains("/"+path, "/log/") {
		return true
	}
	for _, re := range diagnosticFiles {
		if re.MatchString(base) {
			return true
		}
	}
	return false
}

// falsePositiveLines covers shell noise, success markers, info/debug lines,
// completed-job states, systemd lifecycle lines, comment/separator lines,
// raw system-metrics column output, schema DDL tokens, CLI flag mentions,
// health-check routes, graceful-shutdown messages, and deprecation notices —
// the fixed pattern set below, grouped by what they guard against.
var falsePositiveLines = []*regexp.Regexp{
	// Shell noise.
	regexp.MustCompile(`(?i)command not found`),
	regexp.MustCompile(`(?i)chpst:\s*fatal:\s*unable to look up`),
	regexp.MustCompile(`(?i)chpst:\s*fatal:\s*unknown (user|group)`),

	// Success markers that happen to contain scary words.
	regexp.MustCompile(`(?i)success:\s*node is healthy`),
	regexp.MustCompile(`"grpc\.code"\s*:\s*"OK"`),
	regexp.MustCompile(`(?i)healthcheck (passed|succeeded)`),
	regexp.MustCompile(`(?i)connection (established|restored)`),

	// Info/debug level lines.
	regexp.MustCompile(`(?i)^\s*(level|severity)\s*[:=]\s*"?(info|debug|trace)"?`),
	regexp.MustCompile(`"level"\s*:\s*"(info|debug|trace)"`),
	regexp.MustCompile(`(?i)^[ID], \[\d{4}-\d{2}-\d{2}`),

	// Completed/succeeded job states.
	regexp.MustCompile(`(?i)job (completed|succeeded|done) successfully`),
	regexp.MustCompile(`(?i)"status"\s*:\s*"(done|success|completed)"`),

	// Normal systemd start/stop lines.
	regexp.MustCompile(`(?i)(started|stopped|stopping) .*\.service`),
	regexp.MustCompile(`(?i)reached target`),

	// Comment / separator lines.
	regexp.MustCompile(`^\s*#`),
	regexp.MustCompile(`^\s*-{3,}\s*$`),
	regexp.MustCompile(`^\s*={3,}\s*$`),

	// Raw system-metrics column output.
	regexp.MustCompile(`^\s*(Filesystem|Device)\s+\d*\s*(blocks|1K-blocks)`),
	regexp.MustCompile(`^\s*total\s+used\s+free`),
	regexp.MustCompile(`^(avg-cpu|Device):`),

	// DB schema DDL tokens.
	regexp.MustCompile(`t\.(integer|string|boolean|datetime|text|bigint)\b`),
	regexp.MustCompile(`t\.index\b.*default:`),
	regexp.MustCompile(`add_column.*timeout`),
	regexp.MustCompile(`create_table\s+"`),

	// Command-line flag mentions.
	regexp.MustCompile(`--timeout\s+\d+`),
	regexp.MustCompile(`--retry\s+\d+`),

	// Health-check HTTP routes.
	regexp.MustCompile(`GET /-/(readiness|liveness|health)`),

	// Graceful shutdown messages.
	regexp.MustCompile(`(?i)gracefully (shutting down|stopped)`),
	regexp.MustCompile(`(?i)received (SIGTERM|SIGINT), shutting down`),

	// Deprecation notices (informational, not failures).
	regexp.MustCompile(`(?i)^\s*DEPRECATION WARNING`),
	regexp.MustCompile(`(?i)is deprecated and will be removed`),
}

// workerClassNames are log lines that merely mention a worker class whose
// name contains a scary word ("Timeout", "Dead", "Expire") but describe
// ordinary scheduling, not a failure.
var workerClassNames = []*regexp.Regexp{
	regexp.MustCompile(`VerificationTimeoutWorker`),
	regexp.MustCompile(`RetryWorker`),
	regexp.MustCompile(`DeadJobWorker`),
	regexp.MustCompile(`ExpireBuildArtifactsWorker`),
	regexp.MustCompile(`Geo::\w*TimeoutWorker`),
	regexp.MustCompile(`Geo::\w*VerificationWorker`),
	regexp.MustCompile(`StuckCiJobsWorker`),
	regexp.MustCompile(`StuckImportJobsWorker`),
	regexp.MustCompile(`PruneOldTraceWorker`),
	regexp.MustCompile(`FailedJobsWorker`),
	regexp.MustCompile(`ErrorTrackingIssueLinkWorker`),
	regexp.MustCompile(`AbandonedPipelinesWorker`),
	regexp.MustCompile(`ExpirePipelineCacheWorker`),
	regexp.MustCompile(`RemoveExpiredMembersWorker`),
	regexp.MustCompile(`DestroyExpiredAssigneesWorker`),
	regexp.MustCompile(`TimeoutCheckWorker`),
	regexp.MustCompile(`CancelStuckPipelinesWorker`),
	regexp.MustCompile(`DeleteDiffFilesWorker`),
	regexp.MustCompile(`Geo::FailureWorker`),
	regexp.MustCompile(`ErrorWorker`),
}

var errorSeverityIndicator = regexp.MustCompile(`"severity"\s*:\s*"ERROR"|"level"\s*:\s*"error"`)
var exceptionIndicator = regexp.MustCompile(`"exception"\s*:\s*"[^"]|"exception\.\w+"\s*:\s*"[^"]|"error"\s*:\s*"[^"]`)

// IsFalsePositive reports whether line looks like an error but isn't.
func IsFalsePositive(line string) bool {
	for _, re := range falsePositiveLines {
		if re.MatchString(line) {
			return true
		}
	}

	for _, re := range workerClassNames {
		if re.MatchString(line) {
			if errorSeverityIndicator.MatchString(line) && exceptionIndicator.MatchString(line) {
				return false
			}
			return true
		}
	}

	return false
}
