package transcript

import (
	"strings"

	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

// Style selects how labeled utterances are rendered.
type Style int

const (
	// StyleCompact renders "{label}: {text}" lines joined by a newline.
	StyleCompact Style = iota
	// StyleVerbose renders "Speaker {label}: {text}" paragraphs separated
	// by a blank line, the shape used for full recordings.
	StyleVerbose
)

// Format renders labeled utterances as a single transcript. An empty
// utterance list falls back to the provider's unstructured text, or "" when
// that is absent too.
func Format(utterances []types.NormalizedUtterance, fallback string, style Style) string {
	if len(utterances) == 0 {
		return fallback
	}

	prefix, sep := "", "\n"
	if style == StyleVerbose {
		prefix, sep = "Speaker ", "\n\n"
	}

	var b strings.Builder
	for i, u := range utterances {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(prefix)
		b.WriteString(u.Label)
		b.WriteString(": ")
		b.WriteString(u.Text)
	}
	return b.String()
}
