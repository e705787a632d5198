package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeWidth measures one unit per rune, so limits read as character counts.
func runeWidth(s string) float64 {
	return float64(len([]rune(s)))
}

func TestWrapTextEmpty(t *testing.T) {
	assert.Empty(t, WrapText("", 40, runeWidth))
	assert.Empty(t, WrapText("   \n\t ", 40, runeWidth))
}

func TestWrapTextSingleLine(t *testing.T) {
	lines := WrapText("one two three", 40, runeWidth)
	require.Equal(t, []string{"one two three"}, lines)
}

func TestWrapTextGreedy(t *testing.T) {
	lines := WrapText("aaaa bbbb cccc dddd", 9, runeWidth)
	require.Equal(t, []string{"aaaa bbbb", "cccc dddd"}, lines)
}

func TestWrapTextEveryLineWithinLimit(t *testing.T) {
	const limit = 18.0
	text := "Erstellung und fortlaufende Pflege der technischen Dokumentation inklusive Versionierung"
	lines := WrapText(text, limit, runeWidth)
	require.NotEmpty(t, lines)
	for _, line := range lines {
		words := len([]rune(line))
		if words > limit {
			// Only a single word wider than the limit may exceed it.
			assert.NotContains(t, line, " ", "multi-word line %q exceeds limit", line)
		}
	}
}

func TestWrapTextOversizedWordStandsAlone(t *testing.T) {
	lines := WrapText("ab Donaudampfschifffahrt cd", 10, runeWidth)
	require.Equal(t, []string{"ab", "Donaudampfschifffahrt", "cd"}, lines)
}

func TestNormalizeText(t *testing.T) {
	cases := map[string]string{
		"a  b\n\nc\td":        "a b c d",
		"„echt“ gut": "\"echt\" gut",
		"x – y — z": "x - y - z",
		"Stahl…":         "Stahl...",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeText(in))
	}
}
