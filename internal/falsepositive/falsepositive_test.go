package falsepositive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldSkipFile(t *testing.T) {
	cases := map[string]bool{
		"db/schema.rb":            true,
		"db/structure.sql":        true,
		"top_output.txt":          true,
		"gitlab.yml":              true,
		"config/gitlab.yml":       true,
		"log/gitlab.yml":          false,
		"gitaly_check":            true,
		"gitaly/current":          false,
		"sidekiq/current.log":     false,
	}
	for path, want := range cases {
		assert.Equal(t, want, ShouldSkipFile(path), path)
	}
}

func TestIsFalsePositive_ShellNoise(t *testing.T) {
	assert.True(t, IsFalsePositive(`bash: foo: command not found`))
}

func TestIsFalsePositive_SchemaDDL(t *testing.T) {
	assert.True(t, IsFalsePositive(`    t.integer "timeout", default: 60, null: false`))
}

func TestIsFalsePositive_WorkerClassNameBenign(t *testing.T) {
	line := `{"severity":"INFO","class":"Geo::VerificationTimeoutWorker","jid":"abc"}`
	assert.True(t, IsFalsePositive(line))
}

func TestIsFalsePositive_WorkerClassNameGenuineError(t *testing.T) {
	line := `{"severity":"ERROR","class":"Geo::EventWorker","exception.class":"StandardError","exception.message":"boom"}`
	assert.False(t, IsFalsePositive(line))
}

func TestIsFalsePositive_RegularErrorLine(t *testing.T) {
	assert.False(t, IsFalsePositive(`2024-01-01T00:00:00Z ERROR dialing failed: connection refused`))
}
