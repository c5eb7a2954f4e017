package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weaponry/autogrep/internal/model"
)

func TestCleanMessage_JSONExceptionMessage(t *testing.T) {
	line := `{"severity":"ERROR","class":"Geo::EventWorker","exception.class":"StandardError","exception.message":"boom"}`
	got := CleanMessage(line, nil, "sidekiq_job_failed", "job failed")
	assert.Equal(t, "boom", got)
}

func TestCleanMessage_ContextJSON(t *testing.T) {
	got := CleanMessage("plain line with no json", []string{`{"message":"from context"}`}, "generic_fatal", "")
	assert.Equal(t, "from context", got)
}

func TestCleanMessage_ComponentExtractor(t *testing.T) {
	got := CleanMessage("dialing failed: rpc error: code = Unavailable desc = connection refused", nil, "grpc_unavailable", "")
	assert.Equal(t, "connection refused", got)
}

func TestCleanMessage_FallbackToDescription(t *testing.T) {
	got := CleanMessage("some unparseable line", nil, "mystery_pattern", "a mysterious failure")
	assert.Equal(t, "a mysterious failure", got)
}

func TestExtractIDs_KeyValue(t *testing.T) {
	f := ExtractIDs("correlation_id=7af0e2c1b4d3 request started", nil)
	assert.Equal(t, "7af0e2c1b4d3", f.CorrelationID)
}

func TestExtractIDs_JSON(t *testing.T) {
	f := ExtractIDs(`{"correlation_id":"abc123","job_id":"j-9"}`, nil)
	assert.Equal(t, "abc123", f.CorrelationID)
	assert.Equal(t, "j-9", f.JobID)
}

func TestExtractIDs_GRPCCode(t *testing.T) {
	f := ExtractIDs("rpc error: code = Unavailable desc = connection refused", nil)
	assert.Equal(t, "Unavailable", f.ErrorCode)
}

func TestExtractStackTrace_Python(t *testing.T) {
	entry := []string{
		"Traceback (most recent call last):",
		`  File "app.py", line 1, in <module>`,
		"ValueError: bad input",
	}
	frames := ExtractStackTrace(entry, model.FormatPythonTraceback)
	assert.Len(t, frames, 2)
}

func TestExtractStackTrace_UnknownFormat(t *testing.T) {
	assert.Nil(t, ExtractStackTrace([]string{"x"}, model.FormatText))
}
