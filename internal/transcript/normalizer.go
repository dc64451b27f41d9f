// Package transcript turns raw provider utterances into a stable, readable
// transcript: speaker tags are replaced by letters assigned in order of first
// appearance, and the labeled utterances are rendered as text.
package transcript

import (
	"sort"

	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

// Normalize maps provider speaker tags to stable labels. The speaker who
// talks first is always "A", the next distinct speaker "B", and so on,
// regardless of how the speakers interleave later. Two utterances carrying
// the same provider tag always receive the same label. A missing tag forms
// its own group.
//
// The mapping is computed in two passes: first-occurrence index per distinct
// tag, then substitution in original order. Input order and length are
// preserved.
func Normalize(utterances []types.Utterance) []types.NormalizedUtterance {
	firstSeen := make(map[types.SpeakerID]int, 4)
	for i, u := range utterances {
		if _, ok := firstSeen[u.Speaker]; !ok {
			firstSeen[u.Speaker] = i
		}
	}

	speakers := make([]types.SpeakerID, 0, len(firstSeen))
	for id := range firstSeen {
		speakers = append(speakers, id)
	}
	sort.Slice(speakers, func(i, j int) bool {
		return firstSeen[speakers[i]] < firstSeen[speakers[j]]
	})

	labels := make(map[types.SpeakerID]string, len(speakers))
	for i, id := range speakers {
		labels[id] = speakerLabel(i)
	}

	out := make([]types.NormalizedUtterance, len(utterances))
	for i, u := range utterances {
		out[i] = types.NormalizedUtterance{
			Label:   labels[u.Speaker],
			StartMs: u.StartMs,
			EndMs:   u.EndMs,
			Text:    u.Text,
		}
	}
	return out
}

// Labels returns the distinct labels Normalize assigned, in assignment order.
func Labels(utterances []types.NormalizedUtterance) []string {
	seen := make(map[string]bool, 4)
	out := make([]string, 0, 4)
	for _, u := range utterances {
		if !seen[u.Label] {
			seen[u.Label] = true
			out = append(out, u.Label)
		}
	}
	return out
}

// speakerLabel converts a zero-based speaker index to its label: A..Z, then
// AA, AB, ... (bijective base 26, spreadsheet column style).
func speakerLabel(n int) string {
	var buf [8]byte
	i := len(buf)
	n++
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}
