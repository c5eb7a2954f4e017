package prefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutomaton_Any(t *testing.T) {
	a := New()
	a.AddToken("timeout")
	a.AddToken("Connection Refused")
	a.Build()

	assert.True(t, a.Any("dial tcp: connection refused"))
	assert.True(t, a.Any("request TIMEOUT after 30s"))
	assert.False(t, a.Any("everything is fine"))
}

func TestAutomaton_EmptyMatchesEverything(t *testing.T) {
	a := New()
	a.Build()
	assert.True(t, a.Any("anything at all"))
	assert.Equal(t, 0, a.TokenCount())
}

func TestAutomaton_OverlappingTokens(t *testing.T) {
	a := New()
	a.AddToken("panic")
	a.AddToken("anic")
	a.Build()

	assert.True(t, a.Any("goroutine panicked"))
	assert.Equal(t, 2, a.TokenCount())
}

func TestAutomaton_CaseInsensitive(t *testing.T) {
	a := New()
	a.AddToken("FATAL")
	a.Build()

	assert.True(t, a.Any("fatal: could not connect"))
	assert.True(t, a.Any("FATAL: could not connect"))
}
