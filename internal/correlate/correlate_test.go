package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex_RecordAndCount(t *testing.T) {
	idx := New()
	idx.Record("a/current", 1, `correlation_id=7af0e2c1b4d3 request started`)
	idx.Record("b/current", 7, `{"correlation_id":"7af0e2c1b4d3","msg":"boom"}`)

	assert.Equal(t, 2, idx.Count("7af0e2c1b4d3"))
	occ := idx.Occurrences("7af0e2c1b4d3")
	assert.Len(t, occ, 2)
	assert.Equal(t, "a/current", occ[0].File)
}

func TestIndex_ShortIDsIgnored(t *testing.T) {
	idx := New()
	idx.Record("a/current", 1, `job_id=42`)
	assert.Equal(t, 0, idx.Count("42"))
}

func TestIndex_CapsPerID(t *testing.T) {
	idx := New()
	for i := 0; i < maxOccurrencesPerID+50; i++ {
		idx.Record("a/current", i, `request_id=abcdef123456`)
	}
	assert.LessOrEqual(t, idx.Count("abcdef123456"), maxOccurrencesPerID)
}

func TestExtractCorrelationID(t *testing.T) {
	id, ok := ExtractCorrelationID(`X-Request-Id: 7af0e2c1b4d3`)
	assert.True(t, ok)
	assert.Equal(t, "7af0e2c1b4d3", id)
}

func TestExtractCorrelationID_None(t *testing.T) {
	_, ok := ExtractCorrelationID(`plain log line with no ids`)
	assert.False(t, ok)
}
