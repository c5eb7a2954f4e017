package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weaponry/autogrep/internal/report"
)

func TestSignature_Stable(t *testing.T) {
	s1 := Signature("Praefect/Gitaly", "grpc_unavailable", "connection refused at 2024-01-01T00:00:00Z")
	s2 := Signature("Praefect/Gitaly", "grpc_unavailable", "connection refused at 2024-06-06T11:22:33Z")
	assert.Equal(t, s1, s2)
	assert.Len(t, s1, 16)
}

func TestSignature_NormalizesUUIDAndInt(t *testing.T) {
	s1 := Signature("Rails", "rails_unhandled_exception", "failed for job 42 id=550e8400-e29b-41d4-a716-446655440000")
	s2 := Signature("Rails", "rails_unhandled_exception", "failed for job 99 id=123e4567-e89b-12d3-a456-426614174000")
	assert.Equal(t, s1, s2)
}

func TestAggregator_GroupsAndCounts(t *testing.T) {
	agg := New()
	agg.Add(&report.Match{Component: "Rails", PatternID: "rails_500", CleanMessage: "boom", Severity: "ERROR", FilePath: "a"})
	agg.Add(&report.Match{Component: "Rails", PatternID: "rails_500", CleanMessage: "boom", Severity: "ERROR", FilePath: "b"})

	rep := agg.Finalize()
	assert.Equal(t, 2, rep.Summary.ErrorsFound)
	assert.Len(t, rep.Groups, 1)
	assert.Equal(t, 2, rep.Groups[0].Count)
	assert.ElementsMatch(t, []string{"a", "b"}, rep.Groups[0].Files)
}

func TestAggregator_TopErrorsSortedByCount(t *testing.T) {
	agg := New()
	for i := 0; i < 3; i++ {
		agg.Add(&report.Match{Component: "A", PatternID: "p1", CleanMessage: "m1", Severity: "ERROR", FilePath: "f"})
	}
	agg.Add(&report.Match{Component: "B", PatternID: "p2", CleanMessage: "m2", Severity: "WARNING", FilePath: "f"})

	rep := agg.Finalize()
	assert.Equal(t, 3, rep.TopErrors[0].Count)
}

func TestAggregator_HasCorrelationAndStackTrace(t *testing.T) {
	agg := New()
	agg.Add(&report.Match{
		Component: "Rails", PatternID: "rails_unhandled_exception", CleanMessage: "boom",
		Severity: "ERROR", FilePath: "f", CorrelationID: "abc123", StackTrace: []string{"frame1"},
	})
	rep := agg.Finalize()
	assert.True(t, rep.Groups[0].HasCorrelation)
	assert.True(t, rep.Groups[0].HasStackTrace)
}
