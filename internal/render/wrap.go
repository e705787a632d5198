package render

import "strings"

// The core fonts cover cp1252 only, so decorative punctuation that commonly
// arrives from copy-pasted text is mapped to ASCII before measurement.
var punctuationReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`, // low double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'", // low single quote
	"–", "-", // en dash
	"—", "-", // em dash
	"…", "...",
	" ", " ", // no-break space
)

// NormalizeText collapses whitespace runs (including newlines) to single
// spaces and replaces smart punctuation with ASCII equivalents.
func NormalizeText(s string) string {
	s = punctuationReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// WrapText splits s into lines whose measured width does not exceed limit.
// Words are appended greedily; a word that alone exceeds the limit is placed
// on its own line without hyphenation. An empty string yields no lines.
func WrapText(s string, limit float64, measure func(string) float64) []string {
	s = NormalizeText(s)
	if s == "" {
		return nil
	}

	words := strings.Fields(s)
	var lines []string
	var current string
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		candidate := current + " " + word
		if measure(candidate) > limit {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
