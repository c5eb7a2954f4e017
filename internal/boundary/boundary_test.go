package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weaponry/autogrep/internal/model"
)

func TestDetect_PythonTraceback(t *testing.T) {
	lines := SliceAccessor{
		"2024-01-01T00:00:00Z INFO starting job",
		"Traceback (most recent call last):",
		`  File "app.rb", line 12, in call`,
		"    raise ValueError()",
		"ValueError: bad input",
		"2024-01-01T00:00:05Z INFO job finished",
	}

	start, end, format := Detect(lines, 4)
	assert.Equal(t, 1, start)
	assert.Equal(t, 4, end)
	// The format is read from line i itself, which carries no traceback marker.
	assert.Equal(t, model.FormatText, format)
}

func TestDetect_GoPanic(t *testing.T) {
	lines := SliceAccessor{
		"panic: runtime error: invalid memory address",
		"",
		"goroutine 1 [running]:",
		"main.main()",
		"\t/app/main.go:10 +0x20",
		"2024-01-01T00:00:05Z INFO recovered",
	}

	start, end, format := Detect(lines, 0)
	assert.Equal(t, 0, start)
	// The blank line ends the entry: the panic line before it is not a
	// continuation, and the goroutine header would start a new entry anyway.
	assert.Equal(t, 0, end)
	assert.Equal(t, model.FormatGoPanic, format)
}

func TestDetect_SingleLineEntry(t *testing.T) {
	lines := SliceAccessor{
		"2024-01-01T00:00:00Z ERROR dialing failed: connection refused",
	}

	start, end, format := Detect(lines, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
	assert.Equal(t, model.FormatText, format)
}

func TestDetect_ClampsForwardWalk(t *testing.T) {
	lines := make(SliceAccessor, 500)
	lines[0] = "panic: runaway"
	for i := 1; i < 500; i++ {
		lines[i] = "  continuing forever"
	}

	start, end, _ := Detect(lines, 0)
	assert.Equal(t, 0, start)
	assert.LessOrEqual(t, end, 200)
}

func TestJoinContext(t *testing.T) {
	lines := SliceAccessor{"a", "b", "c"}
	assert.Equal(t, "a\nb\nc", JoinContext(lines, 0, 2))
}
